package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pengviz/internal/render"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTableJSON(t *testing.T) {
	out, err := execute(t, "table", "--grid", "--species", "Gentoo", "--format", "json")
	require.NoError(t, err)

	var table render.Table
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Equal(t, render.OutputDataGrid, table.Output)
	assert.Len(t, table.Rows, 124)
}

func TestHistAutoBins(t *testing.T) {
	out, err := execute(t, "hist", "--bins", "lots", "--format", "json")
	require.NoError(t, err)

	var chart render.Chart
	require.NoError(t, json.Unmarshal([]byte(out), &chart))
	assert.Equal(t, 10, chart.Bins)
	assert.Equal(t, "Interactive Histogram of bill_length_mm", chart.Title)
}

func TestPresetApplies(t *testing.T) {
	out, err := execute(t, "hist", "--static", "--preset", "gentoo", "--format", "json")
	require.NoError(t, err)

	var chart render.Chart
	require.NoError(t, json.Unmarshal([]byte(out), &chart))
	assert.Equal(t, 30, chart.Bins)
	require.Len(t, chart.Series, 1)
	assert.EqualValues(t, "Gentoo", chart.Series[0].Species)

	_, err = execute(t, "hist", "--preset", "nope")
	assert.Error(t, err)
}

func TestBadAttribute(t *testing.T) {
	_, err := execute(t, "hist", "--attribute", "wingspan")
	assert.Error(t, err)
}

func TestScatterToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.svg")
	_, err := execute(t, "scatter", "--format", "svg", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestSeedThenReadSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "penguins.db")
	out, err := execute(t, "db", "seed", "--to", db)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 344 rows")

	out, err = execute(t, "table", "--source", "sqlite", "--data", db, "--format", "json")
	require.NoError(t, err)
	var table render.Table
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Len(t, table.Rows, 344)
}

func TestExportAndList(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "export", "--dir", dir, "--species", "Adelie")
	require.NoError(t, err)
	assert.Contains(t, out, "rows: 152")

	out, err = execute(t, "snapshots", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Adelie")
}

func TestReplayBuiltin(t *testing.T) {
	out, err := execute(t, "replay", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "isolation")

	out, err = execute(t, "replay", "isolation")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestGraph(t *testing.T) {
	out, err := execute(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "filtered")
	assert.Contains(t, out, "scatterplot")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pengviz.yaml")
	_, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	_, err = execute(t, "config", "init", path)
	assert.Error(t, err)

	out, err := execute(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "gentoo")
}
