package render

import "github.com/san-kum/pengviz/internal/penguin"

// Artifact is either a *Table or a *Chart.
type Artifact interface {
	OutputName() string
	Empty() bool
}

type TableMode string

const (
	ModeTable TableMode = "table"
	ModeGrid  TableMode = "grid"
)

// Table is a pass-through tabular rendering of a view.
type Table struct {
	Output   string     `json:"output"`
	Title    string     `json:"title"`
	Mode     TableMode  `json:"mode"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	PageSize int        `json:"page_size,omitempty"`
	Sortable bool       `json:"sortable,omitempty"`
}

func (t *Table) OutputName() string { return t.Output }

func (t *Table) Empty() bool { return len(t.Rows) == 0 }

type ChartKind string

const (
	KindHistogram ChartKind = "histogram"
	KindScatter   ChartKind = "scatter"
)

// Presentation says how a shell should show a chart: as an interactive
// widget or as a static image.
type Presentation string

const (
	PresentWidget Presentation = "widget"
	PresentImage  Presentation = "image"
)

// Chart is the data behind a histogram or scatterplot.
type Chart struct {
	Output       string         `json:"output"`
	Kind         ChartKind      `json:"kind"`
	Presentation Presentation   `json:"presentation"`
	Title        string         `json:"title"`
	XLabel       string         `json:"x_label"`
	YLabel       string         `json:"y_label"`
	Column       penguin.Column `json:"column,omitempty"`
	Bins         int            `json:"bins,omitempty"`
	Edges        []float64      `json:"edges,omitempty"`
	Series       []Series       `json:"series"`
}

func (c *Chart) OutputName() string { return c.Output }

func (c *Chart) Empty() bool { return len(c.Series) == 0 }

// Points counts the observations plotted across all series.
func (c *Chart) Points() int {
	n := 0
	for _, s := range c.Series {
		if c.Kind == KindHistogram {
			for _, v := range s.Counts {
				n += v
			}
			continue
		}
		n += len(s.X)
	}
	return n
}

// Series is the part of a chart belonging to one species. Histograms fill
// Counts, one per bin; scatterplots fill X and Y.
type Series struct {
	Species penguin.Species `json:"species"`
	Color   string          `json:"color"`
	Symbol  string          `json:"symbol,omitempty"`
	Counts  []int           `json:"counts,omitempty"`
	X       []float64       `json:"x,omitempty"`
	Y       []float64       `json:"y,omitempty"`
}
