package dataset

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/pengviz/internal/penguin"
)

func TestLoadEmbedded(t *testing.T) {
	ds, err := Load(context.Background(), Embedded(), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 344, ds.Len())
	counts := ds.Counts()
	assert.Equal(t, 152, counts[penguin.Adelie])
	assert.Equal(t, 124, counts[penguin.Gentoo])
	assert.Equal(t, 68, counts[penguin.Chinstrap])
	assert.Equal(t, "embedded:penguins.csv", ds.Source())

	first := ds.At(0)
	assert.Equal(t, penguin.Adelie, first.Species)
	assert.Equal(t, "Torgersen", first.Island)
	assert.Equal(t, 2007, first.Year)

	missing := ds.At(3)
	assert.True(t, math.IsNaN(missing.BillLength), "row 4 has no measurements")
	assert.Equal(t, "", missing.Sex)
}

func TestNewEmpty(t *testing.T) {
	_, err := New(nil, "test")
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestDatasetIsolatedFromInput(t *testing.T) {
	records := []penguin.Record{{Species: penguin.Adelie, BillLength: 39.1}}
	ds, err := New(records, "test")
	require.NoError(t, err)

	records[0].BillLength = 0
	assert.Equal(t, 39.1, ds.At(0).BillLength)

	copied := ds.All().Records()
	copied[0].BillLength = 1
	assert.Equal(t, 39.1, ds.At(0).BillLength)
}

func TestViewSub(t *testing.T) {
	records := []penguin.Record{
		{Species: penguin.Adelie},
		{Species: penguin.Gentoo},
		{Species: penguin.Chinstrap},
		{Species: penguin.Gentoo},
	}
	ds, err := New(records, "test")
	require.NoError(t, err)

	all := ds.All()
	assert.Equal(t, 4, all.Len())

	sub := all.Sub([]int{1, 3})
	require.Equal(t, 2, sub.Len())
	assert.Equal(t, []int{1, 3}, sub.Rows())
	assert.Equal(t, penguin.Gentoo, sub.At(1).Species)

	subsub := sub.Sub([]int{1})
	assert.Equal(t, []int{3}, subsub.Rows())
	assert.Same(t, ds, subsub.Dataset())

	var zero View
	assert.Equal(t, 0, zero.Len())
	assert.Empty(t, zero.Records())
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Load(context.Context) ([]penguin.Record, error) {
	return nil, errors.New("disk on fire")
}

func TestLoadFailure(t *testing.T) {
	_, err := Load(context.Background(), failingSource{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load failing")
}

func TestOpenSpec(t *testing.T) {
	ctx := context.Background()

	src, err := Open(ctx, Spec{})
	require.NoError(t, err)
	assert.Equal(t, "embedded:penguins.csv", src.Name())

	src, err = Open(ctx, Spec{Kind: KindFile, Path: "/tmp/p.csv"})
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/p.csv", src.Name())

	src, err = Open(ctx, Spec{Kind: KindSQLite, Path: "p.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite:penguins", src.Name())

	_, err = Open(ctx, Spec{Kind: "ftp"})
	assert.True(t, errors.Is(err, ErrUnknownSource))
}
