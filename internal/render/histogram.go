package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/penguin"
)

const (
	// MaxBins caps the bin count accepted from the UI.
	MaxBins = 1000

	// DefaultBins is the initial value of both bin inputs.
	DefaultBins = 50
)

// ParseBins reads a bin count typed into a widget. Fractions truncate;
// anything unparsable reads as 0, which CoerceBins turns into an automatic
// count.
func ParseBins(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > MaxBins {
		return MaxBins
	}
	if f < -MaxBins {
		return -MaxBins
	}
	return int(f)
}

// CoerceBins returns the bin count actually used for n observations.
// Non-positive requests select Sturges' rule; large ones are capped.
func CoerceBins(requested, n int) int {
	if requested > MaxBins {
		return MaxBins
	}
	if requested > 0 {
		return requested
	}
	return sturges(n)
}

func sturges(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// InteractiveHistogram renders the widget histogram of col.
func InteractiveHistogram(v dataset.View, col penguin.Column, bins int) *Chart {
	return histogram(v, col, bins, OutputInteractiveHistogram, "Interactive", PresentWidget)
}

// StaticHistogram renders the image histogram of col.
func StaticHistogram(v dataset.View, col penguin.Column, bins int) *Chart {
	return histogram(v, col, bins, OutputStaticHistogram, "Static", PresentImage)
}

func histogram(v dataset.View, col penguin.Column, bins int, output, label string, p Presentation) *Chart {
	c := &Chart{
		Output:       output,
		Kind:         KindHistogram,
		Presentation: p,
		Title:        label + " Histogram of " + string(col),
		XLabel:       col.Label(),
		YLabel:       "count",
		Column:       col,
		Series:       []Series{},
	}

	values := make(map[penguin.Species][]float64, len(penguin.AllSpecies))
	var all []float64
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		x := r.Value(col)
		if math.IsNaN(x) {
			continue
		}
		values[r.Species] = append(values[r.Species], x)
		all = append(all, x)
	}
	if len(all) == 0 {
		return c
	}

	c.Bins = CoerceBins(bins, len(all))
	c.Edges = binEdges(all, c.Bins)
	for _, sp := range penguin.AllSpecies {
		xs := values[sp]
		if len(xs) == 0 {
			continue
		}
		st := styleOf(sp)
		c.Series = append(c.Series, Series{
			Species: sp,
			Color:   st.hex,
			Counts:  binCounts(xs, c.Edges),
		})
	}
	return c
}

// binEdges returns bins+1 equal-width edges spanning values. A single
// distinct value gets a unit-wide range centred on it.
func binEdges(values []float64, bins int) []float64 {
	lo, hi := values[0], values[0]
	for _, x := range values[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	return edges
}

// binCounts counts values per bin. Bins are half-open except the last,
// which includes the upper edge.
func binCounts(values, edges []float64) []int {
	bins := len(edges) - 1
	counts := make([]int, bins)
	lo, hi := edges[0], edges[bins]
	width := (hi - lo) / float64(bins)
	for _, x := range values {
		if x < lo || x > hi {
			continue
		}
		idx := int((x - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts
}
