package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Terminal renders a for a terminal of the given cell size.
func Terminal(a Artifact, size Size) string {
	if size.Width <= 0 {
		size.Width = DefaultTextSize.Width
	}
	if size.Height <= 0 {
		size.Height = DefaultTextSize.Height
	}
	switch v := a.(type) {
	case *Table:
		return terminalTable(v, size)
	case *Chart:
		if v.Kind == KindScatter {
			return terminalScatter(v, size)
		}
		return terminalHistogram(v, size)
	}
	return ""
}

// Markdown formats up to maxRows rows of t as a markdown table.
func Markdown(t *Table, maxRows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", t.Title)
	b.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(t.Columns)) + "\n")
	if len(t.Rows) == 0 {
		b.WriteString("\n_No rows match the current selection._\n")
		return b.String()
	}
	n := len(t.Rows)
	if maxRows > 0 && n > maxRows {
		n = maxRows
	}
	for _, row := range t.Rows[:n] {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	if n < len(t.Rows) {
		fmt.Fprintf(&b, "\n_%d of %d rows_\n", n, len(t.Rows))
	}
	return b.String()
}

func terminalTable(t *Table, size Size) string {
	md := Markdown(t, size.Height)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(size.Width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func terminalHistogram(c *Chart, size Size) string {
	if c.Empty() {
		return titleStyle.Render(c.Title) + "\n" + dimStyle.Render("no data") + "\n"
	}

	data := make([][]float64, 0, len(c.Series))
	colors := make([]asciigraph.AnsiColor, 0, len(c.Series))
	legends := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		row := make([]float64, len(s.Counts))
		for i, n := range s.Counts {
			row[i] = float64(n)
		}
		data = append(data, row)
		colors = append(colors, styleOf(s.Species).ansi)
		legends = append(legends, string(s.Species))
	}

	opts := []asciigraph.Option{
		asciigraph.Height(size.Height),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("%s [%s .. %s, %d bins]", c.Title,
			trimFloat(c.Edges[0]), trimFloat(c.Edges[len(c.Edges)-1]), c.Bins)),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	}
	if c.Bins > 1 {
		opts = append(opts, asciigraph.Width(size.Width))
	}
	return asciigraph.PlotMany(data, opts...) + "\n"
}

func terminalScatter(c *Chart, size Size) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title) + "\n")
	if c.Empty() {
		b.WriteString(dimStyle.Render("no data") + "\n")
		return b.String()
	}

	area := bounds{minX: math.Inf(1), maxX: math.Inf(-1), minY: math.Inf(1), maxY: math.Inf(-1)}
	for _, s := range c.Series {
		for i := range s.X {
			area.minX, area.maxX = math.Min(area.minX, s.X[i]), math.Max(area.maxX, s.X[i])
			area.minY, area.maxY = math.Min(area.minY, s.Y[i]), math.Max(area.maxY, s.Y[i])
		}
	}

	grid := newDotGrid(size.Width, size.Height, area)
	for _, s := range c.Series {
		for i := range s.X {
			grid.plot(s.X[i], s.Y[i], s.Color)
		}
	}

	a := grid.area
	fmt.Fprintf(&b, "%s %s..%s\n", dimStyle.Render(c.YLabel), trimFloat(a.minY), trimFloat(a.maxY))
	b.WriteString(grid.String())
	fmt.Fprintf(&b, "%s %s..%s\n", dimStyle.Render(c.XLabel), trimFloat(a.minX), trimFloat(a.maxX))

	legend := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		st := styleOf(s.Species)
		mark := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(st.mark)
		legend = append(legend, fmt.Sprintf("%s %s (%d)", mark, s.Species, len(s.X)))
	}
	b.WriteString(strings.Join(legend, "  ") + "\n")
	return b.String()
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
