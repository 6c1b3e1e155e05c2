package render

import (
	"bytes"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
)

// WritePNG draws c with go-chart. Empty charts, and charts go-chart refuses
// to draw, come out as a blank canvas of the requested size.
func WritePNG(w io.Writer, c *Chart, size Size) error {
	size = imageSize(size)
	if !c.Empty() {
		var buf bytes.Buffer
		if err := graph(c, size).Render(chart.PNG, &buf); err == nil {
			_, err = w.Write(buf.Bytes())
			return err
		}
	}
	return png.Encode(w, blank(size))
}

// WriteSVG is the vector form of WritePNG.
func WriteSVG(w io.Writer, c *Chart, size Size) error {
	size = imageSize(size)
	if !c.Empty() {
		var buf bytes.Buffer
		if err := graph(c, size).Render(chart.SVG, &buf); err == nil {
			_, err = w.Write(buf.Bytes())
			return err
		}
	}
	_, err := io.WriteString(w, blankSVG(c.Title, size))
	return err
}

// defaultFont parses the bundled font once, so concurrent renders share it.
var defaultFont = sync.OnceValues(chart.GetDefaultFont)

func imageSize(s Size) Size {
	if s.Width <= 0 {
		s.Width = DefaultImageSize.Width
	}
	if s.Height <= 0 {
		s.Height = DefaultImageSize.Height
	}
	return s
}

func graph(c *Chart, size Size) chart.Chart {
	var series []chart.Series
	var xr, yr *chart.ContinuousRange
	if c.Kind == KindHistogram {
		series, xr, yr = histogramSeries(c)
	} else {
		series, xr, yr = scatterSeries(c)
	}

	ch := chart.Chart{
		Title:      c.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: c.XLabel, Range: xr},
		YAxis:      chart.YAxis{Name: c.YLabel, Range: yr},
		Series:     series,
	}
	if font, err := defaultFont(); err == nil {
		ch.Font = font
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// histogramSeries draws each species as a filled step outline over the
// shared bin edges.
func histogramSeries(c *Chart) ([]chart.Series, *chart.ContinuousRange, *chart.ContinuousRange) {
	peak := 0
	series := make([]chart.Series, 0, len(c.Series))
	for _, s := range c.Series {
		xs := make([]float64, 0, 2*len(s.Counts)+2)
		ys := make([]float64, 0, 2*len(s.Counts)+2)
		xs = append(xs, c.Edges[0])
		ys = append(ys, 0)
		for i, n := range s.Counts {
			xs = append(xs, c.Edges[i], c.Edges[i+1])
			ys = append(ys, float64(n), float64(n))
			if n > peak {
				peak = n
			}
		}
		xs = append(xs, c.Edges[len(c.Edges)-1])
		ys = append(ys, 0)

		col := chartColor(s.Color)
		series = append(series, chart.ContinuousSeries{
			Name:    string(s.Species),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 1.5,
				FillColor:   col.WithAlpha(96),
			},
		})
	}
	if peak == 0 {
		peak = 1
	}
	xr := &chart.ContinuousRange{Min: c.Edges[0], Max: c.Edges[len(c.Edges)-1]}
	yr := &chart.ContinuousRange{Min: 0, Max: float64(peak) * 1.05}
	return series, xr, yr
}

func scatterSeries(c *Chart) ([]chart.Series, *chart.ContinuousRange, *chart.ContinuousRange) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, len(c.Series))
	for _, s := range c.Series {
		for i := range s.X {
			minX, maxX = math.Min(minX, s.X[i]), math.Max(maxX, s.X[i])
			minY, maxY = math.Min(minY, s.Y[i]), math.Max(maxY, s.Y[i])
		}
		col := chartColor(s.Color)
		series = append(series, chart.ContinuousSeries{
			Name:    string(s.Species),
			XValues: s.X,
			YValues: s.Y,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    styleOf(s.Species).dot,
				DotColor:    col,
			},
		})
	}
	return series, padRange(minX, maxX), padRange(minY, maxY)
}

func padRange(lo, hi float64) *chart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func blank(size Size) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

func blankSVG(title string, size Size) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<text x="%d" y="24" text-anchor="middle" font-family="sans-serif" font-size="15">%s</text>
<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#888888">no data</text>
</svg>`,
		size.Width, size.Height, size.Width, size.Height,
		size.Width/2, html.EscapeString(title),
		size.Width/2, size.Height/2)
}
