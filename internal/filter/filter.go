// Package filter implements the species filter applied to every dashboard output.
package filter

import (
	"sort"
	"strings"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/penguin"
)

// Selection is an immutable set of species. The zero Selection is empty.
type Selection struct {
	set map[penguin.Species]struct{}
}

// NewSelection builds a set from species; duplicates collapse.
func NewSelection(species ...penguin.Species) Selection {
	set := make(map[penguin.Species]struct{}, len(species))
	for _, s := range species {
		set[s] = struct{}{}
	}
	return Selection{set: set}
}

// AllSpecies is the default selection.
func AllSpecies() Selection {
	return NewSelection(penguin.AllSpecies...)
}

// ParseSelection reads a comma separated list of labels. Blank input is the
// empty selection.
func ParseSelection(s string) (Selection, error) {
	var species []penguin.Species
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sp, err := penguin.ParseSpecies(part)
		if err != nil {
			return Selection{}, err
		}
		species = append(species, sp)
	}
	return NewSelection(species...), nil
}

func (s Selection) Contains(sp penguin.Species) bool {
	_, ok := s.set[sp]
	return ok
}

func (s Selection) Len() int { return len(s.set) }

// Labels returns the members in dashboard order.
func (s Selection) Labels() []penguin.Species {
	out := make([]penguin.Species, 0, len(s.set))
	for _, sp := range penguin.AllSpecies {
		if s.Contains(sp) {
			out = append(out, sp)
		}
	}
	return out
}

// Key is the canonical identity of the set: sorted labels joined by commas.
func (s Selection) Key() string {
	labels := make([]string, 0, len(s.set))
	for sp := range s.set {
		labels = append(labels, string(sp))
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}

// Equal reports set equality.
func (s Selection) Equal(o Selection) bool {
	if len(s.set) != len(o.set) {
		return false
	}
	for sp := range s.set {
		if !o.Contains(sp) {
			return false
		}
	}
	return true
}

// Toggle returns a copy of s with sp added or removed.
func (s Selection) Toggle(sp penguin.Species) Selection {
	species := make([]penguin.Species, 0, len(s.set)+1)
	for member := range s.set {
		if member != sp {
			species = append(species, member)
		}
	}
	if !s.Contains(sp) {
		species = append(species, sp)
	}
	return NewSelection(species...)
}

func (s Selection) String() string { return s.Key() }

// BySpecies keeps the records of v whose species is in sel, preserving order.
// An empty selection yields an empty view.
func BySpecies(v dataset.View, sel Selection) dataset.View {
	positions := make([]int, 0, v.Len())
	if sel.Len() > 0 {
		for i := 0; i < v.Len(); i++ {
			if sel.Contains(v.At(i).Species) {
				positions = append(positions, i)
			}
		}
	}
	return v.Sub(positions)
}
