package render

import (
	"math"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/penguin"
)

const scatterTitle = "Bill Depth vs. Bill Length by Penguin Species"

// Scatter plots bill depth against bill length, one series per species.
// It reads nothing but the view.
func Scatter(v dataset.View) *Chart {
	c := &Chart{
		Output:       OutputScatterplot,
		Kind:         KindScatter,
		Presentation: PresentWidget,
		Title:        scatterTitle,
		XLabel:       penguin.BillDepth.Label(),
		YLabel:       penguin.BillLength.Label(),
		Series:       []Series{},
	}

	bySpecies := make(map[penguin.Species]*Series, len(penguin.AllSpecies))
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		if math.IsNaN(r.BillDepth) || math.IsNaN(r.BillLength) {
			continue
		}
		s, ok := bySpecies[r.Species]
		if !ok {
			st := styleOf(r.Species)
			s = &Series{Species: r.Species, Color: st.hex, Symbol: st.symbol}
			bySpecies[r.Species] = s
		}
		s.X = append(s.X, r.BillDepth)
		s.Y = append(s.Y, r.BillLength)
	}
	for _, sp := range penguin.AllSpecies {
		if s, ok := bySpecies[sp]; ok {
			c.Series = append(c.Series, *s)
		}
	}
	return c
}
