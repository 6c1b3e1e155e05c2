package dataset

import (
	"strconv"

	"github.com/san-kum/pengviz/internal/penguin"
)

// Dataset is the immutable, ordered collection of records.
type Dataset struct {
	records []penguin.Record
	all     []int
	source  string
}

// New copies records into a Dataset. An empty slice is an error because the
// dashboard has nothing to show and startup must abort.
func New(records []penguin.Record, source string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	d := &Dataset{
		records: make([]penguin.Record, len(records)),
		all:     make([]int, len(records)),
		source:  source,
	}
	copy(d.records, records)
	for i := range d.all {
		d.all[i] = i
	}
	return d, nil
}

func (d *Dataset) Len() int { return len(d.records) }

func (d *Dataset) At(i int) penguin.Record { return d.records[i] }

// Source describes where the records were loaded from.
func (d *Dataset) Source() string { return d.source }

// All returns a view over every row in original order.
func (d *Dataset) All() View {
	return View{ds: d, idx: d.all}
}

// Counts returns the number of rows per species.
func (d *Dataset) Counts() map[penguin.Species]int {
	counts := make(map[penguin.Species]int, len(penguin.AllSpecies))
	for _, r := range d.records {
		counts[r.Species]++
	}
	return counts
}

// View is an ordered subset of a Dataset. The zero View is empty.
// Views never expose the backing slices, so holders cannot mutate the
// dataset through them.
type View struct {
	ds  *Dataset
	idx []int
}

func (v View) Len() int { return len(v.idx) }

// At returns the i-th record of the view.
func (v View) At(i int) penguin.Record { return v.ds.records[v.idx[i]] }

// Row returns the dataset row index of the i-th record of the view.
func (v View) Row(i int) int { return v.idx[i] }

// Dataset returns the dataset backing the view, or nil for the zero View.
func (v View) Dataset() *Dataset { return v.ds }

// Sub returns the view made of the given positions of v, in the given order.
func (v View) Sub(positions []int) View {
	idx := make([]int, len(positions))
	for i, p := range positions {
		idx[i] = v.idx[p]
	}
	return View{ds: v.ds, idx: idx}
}

// Records copies the records of the view.
func (v View) Records() []penguin.Record {
	out := make([]penguin.Record, len(v.idx))
	for i, row := range v.idx {
		out[i] = v.ds.records[row]
	}
	return out
}

// Rows copies the dataset row indexes of the view.
func (v View) Rows() []int {
	out := make([]int, len(v.idx))
	copy(out, v.idx)
	return out
}

func itoa(i int) string { return strconv.Itoa(i) }
