package render

import (
	"github.com/guptarohit/asciigraph"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/pengviz/internal/penguin"
)

type speciesStyle struct {
	hex    string
	symbol string
	dot    float64
	ansi   asciigraph.AnsiColor
	mark   string
}

var speciesStyles = map[penguin.Species]speciesStyle{
	penguin.Adelie:    {hex: "#636efa", symbol: "circle", dot: 3, ansi: asciigraph.Blue, mark: "●"},
	penguin.Gentoo:    {hex: "#ef553b", symbol: "diamond", dot: 4, ansi: asciigraph.Red, mark: "◆"},
	penguin.Chinstrap: {hex: "#00cc96", symbol: "square", dot: 5, ansi: asciigraph.Green, mark: "■"},
}

func styleOf(sp penguin.Species) speciesStyle {
	if s, ok := speciesStyles[sp]; ok {
		return s
	}
	return speciesStyle{hex: "#888888", symbol: "circle", dot: 3, ansi: asciigraph.Default, mark: "•"}
}

func chartColor(hex string) drawing.Color {
	return drawing.ColorFromHex(hex)
}
