package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/penguin"
)

func loadEmbedded(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(context.Background(), dataset.Embedded(), nil)
	require.NoError(t, err)
	return ds
}

// subsets enumerates every subset of the three species.
func subsets() [][]penguin.Species {
	all := penguin.AllSpecies
	var out [][]penguin.Species
	for mask := 0; mask < 1<<len(all); mask++ {
		var s []penguin.Species
		for i, sp := range all {
			if mask&(1<<i) != 0 {
				s = append(s, sp)
			}
		}
		out = append(out, s)
	}
	return out
}

func TestBySpeciesAllSubsets(t *testing.T) {
	ds := loadEmbedded(t)

	for _, species := range subsets() {
		sel := NewSelection(species...)
		t.Run("{"+sel.Key()+"}", func(t *testing.T) {
			got := BySpecies(ds.All(), sel)

			var want []int
			for i := 0; i < ds.Len(); i++ {
				if sel.Contains(ds.At(i).Species) {
					want = append(want, i)
				}
			}
			if want == nil {
				want = []int{}
			}
			if diff := cmp.Diff(want, got.Rows()); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBySpeciesIdempotent(t *testing.T) {
	ds := loadEmbedded(t)

	for _, species := range subsets() {
		sel := NewSelection(species...)
		once := BySpecies(ds.All(), sel)
		twice := BySpecies(once, sel)
		assert.Equal(t, once.Rows(), twice.Rows(), "selection %s", sel)
	}
}

func TestBySpeciesFullAndEmpty(t *testing.T) {
	ds := loadEmbedded(t)

	full := BySpecies(ds.All(), AllSpecies())
	assert.Equal(t, ds.Len(), full.Len())

	empty := BySpecies(ds.All(), NewSelection())
	assert.Equal(t, 0, empty.Len())
}

func TestGentooScenario(t *testing.T) {
	ds := loadEmbedded(t)
	require.Equal(t, 344, ds.Len())

	view := BySpecies(ds.All(), NewSelection(penguin.Gentoo))
	require.Equal(t, 124, view.Len())
	for _, r := range view.Records() {
		assert.Equal(t, penguin.Gentoo, r.Species)
	}
}

func TestSelection(t *testing.T) {
	a := NewSelection(penguin.Gentoo, penguin.Adelie, penguin.Gentoo)
	b := NewSelection(penguin.Adelie, penguin.Gentoo)

	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Equal(b))
	assert.Equal(t, "Adelie,Gentoo", a.Key())
	assert.Equal(t, []penguin.Species{penguin.Adelie, penguin.Gentoo}, a.Labels())
	assert.False(t, a.Equal(AllSpecies()))

	var zero Selection
	assert.True(t, zero.Equal(NewSelection()))
	assert.False(t, zero.Contains(penguin.Adelie))

	toggled := a.Toggle(penguin.Adelie)
	assert.Equal(t, "Gentoo", toggled.Key())
	assert.Equal(t, "Adelie,Gentoo", a.Key(), "toggle must not mutate the receiver")
	assert.True(t, toggled.Toggle(penguin.Chinstrap).Contains(penguin.Chinstrap))
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("gentoo, Chinstrap")
	require.NoError(t, err)
	assert.Equal(t, "Chinstrap,Gentoo", sel.Key())

	sel, err = ParseSelection("")
	require.NoError(t, err)
	assert.Equal(t, 0, sel.Len())

	_, err = ParseSelection("Adelie,Emperor")
	assert.True(t, errors.Is(err, penguin.ErrUnknownSpecies))
}
