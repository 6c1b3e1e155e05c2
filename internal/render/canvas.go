package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const (
	brailleBlank = 0x2800
	mixedColor   = "#bbbbbb"
)

// bounds is the data rectangle a dotGrid maps onto its dots.
type bounds struct {
	minX, maxX, minY, maxY float64
}

// padded widens degenerate ranges so single-valued axes still map.
func (b bounds) padded() bounds {
	if b.minX == b.maxX {
		b.minX, b.maxX = b.minX-0.5, b.maxX+0.5
	}
	if b.minY == b.maxY {
		b.minY, b.maxY = b.minY-0.5, b.maxY+0.5
	}
	return b
}

// dotGrid is a Braille scatter surface of cols x rows cells, each cell 2x4
// dots. A cell hit by points of more than one color is drawn in mixedColor.
type dotGrid struct {
	cols, rows int
	area       bounds
	cells      [][]rune
	colors     [][]string
}

func newDotGrid(cols, rows int, area bounds) *dotGrid {
	cols, rows = max(cols, 1), max(rows, 1)
	g := &dotGrid{cols: cols, rows: rows, area: area.padded()}
	g.cells = make([][]rune, rows)
	g.colors = make([][]string, rows)
	for r := range g.cells {
		g.cells[r] = []rune(strings.Repeat(string(rune(brailleBlank)), cols))
		g.colors[r] = make([]string, cols)
	}
	return g
}

// plot sets the dot nearest (x, y). y grows upwards. Points outside the
// area or with a NaN coordinate are dropped.
func (g *dotGrid) plot(x, y float64, color string) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	a := g.area
	if x < a.minX || x > a.maxX || y < a.minY || y > a.maxY {
		return false
	}
	w, h := g.cols*2-1, g.rows*4-1
	dx := int(math.Round((x - a.minX) / (a.maxX - a.minX) * float64(w)))
	dy := h - int(math.Round((y-a.minY)/(a.maxY-a.minY)*float64(h)))

	col, row := dx/2, dy/4
	g.cells[row][col] |= brailleBits[dy%4][dx%2]
	switch prev := g.colors[row][col]; {
	case prev == "":
		g.colors[row][col] = color
	case prev != color:
		g.colors[row][col] = mixedColor
	}
	return true
}

func (g *dotGrid) String() string {
	var b strings.Builder
	for r, line := range g.cells {
		for c, cell := range line {
			if color := g.colors[r][c]; color != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(cell)))
				continue
			}
			b.WriteRune(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
