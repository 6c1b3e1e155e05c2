package render

import (
	"math"
	"strings"
	"testing"
)

func TestDotGridCorners(t *testing.T) {
	g := newDotGrid(3, 2, bounds{0, 10, 0, 10})
	g.plot(0, 0, "")
	g.plot(10, 10, "")

	if got, want := g.cells[1][0], rune(0x2840); got != want {
		t.Errorf("bottom-left: got %U, want %U", got, want)
	}
	if got, want := g.cells[0][2], rune(0x2808); got != want {
		t.Errorf("top-right: got %U, want %U", got, want)
	}
}

func TestDotGridDropsOutliersAndNaN(t *testing.T) {
	g := newDotGrid(2, 1, bounds{0, 1, 0, 1})
	tests := []struct {
		x, y float64
	}{
		{math.NaN(), 0.5},
		{0.5, math.NaN()},
		{-1, 0.5},
		{0.5, 2},
	}
	for _, tt := range tests {
		if g.plot(tt.x, tt.y, "#ffffff") {
			t.Errorf("plot(%v, %v) accepted", tt.x, tt.y)
		}
	}
	if got := g.String(); got != "\u2800\u2800\n" {
		t.Errorf("grid not blank: %q", got)
	}
}

func TestDotGridMixedColor(t *testing.T) {
	g := newDotGrid(1, 1, bounds{0, 1, 0, 1})
	g.plot(0, 0, "#ff0000")
	if g.colors[0][0] != "#ff0000" {
		t.Fatalf("color %q", g.colors[0][0])
	}
	g.plot(0, 0, "#ff0000")
	if g.colors[0][0] != "#ff0000" {
		t.Errorf("same color became %q", g.colors[0][0])
	}
	g.plot(1, 1, "#00ff00")
	if g.colors[0][0] != mixedColor {
		t.Errorf("shared cell color %q, want %q", g.colors[0][0], mixedColor)
	}
}

func TestDotGridDegenerateArea(t *testing.T) {
	g := newDotGrid(4, 2, bounds{5, 5, 3, 3})
	if !g.plot(5, 3, "") {
		t.Fatal("single point rejected")
	}
	if !strings.ContainsFunc(g.String(), func(r rune) bool { return r > brailleBlank && r <= 0x28ff }) {
		t.Error("no dot drawn")
	}
}
