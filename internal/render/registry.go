package render

import "fmt"

// Output names, as used by sessions and shells.
const (
	OutputDataTable            = "data_table"
	OutputDataGrid             = "data_grid"
	OutputInteractiveHistogram = "interactive_histogram"
	OutputStaticHistogram      = "static_histogram"
	OutputScatterplot          = "scatterplot"
)

// Dependency names an upstream value an output reads.
const (
	DepFiltered        = "filtered"
	DepAttribute       = "attribute"
	DepInteractiveBins = "interactive_bins"
	DepStaticBins      = "static_bins"
)

// OutputSpec describes one output: its declared reads and the format a
// snapshot stores it in.
type OutputSpec struct {
	Name     string
	Title    string
	Deps     []string
	Snapshot Format
}

var outputs = []OutputSpec{
	{Name: OutputDataTable, Title: "Penguin Data Table", Deps: []string{DepFiltered}, Snapshot: FormatHTML},
	{Name: OutputDataGrid, Title: "Penguin Data Grid", Deps: []string{DepFiltered}, Snapshot: FormatJSON},
	{Name: OutputInteractiveHistogram, Title: "Interactive Histogram", Deps: []string{DepFiltered, DepAttribute, DepInteractiveBins}, Snapshot: FormatSVG},
	{Name: OutputStaticHistogram, Title: "Static Histogram", Deps: []string{DepFiltered, DepAttribute, DepStaticBins}, Snapshot: FormatPNG},
	{Name: OutputScatterplot, Title: "Scatterplot", Deps: []string{DepFiltered}, Snapshot: FormatSVG},
}

// Outputs lists every output in display order.
func Outputs() []OutputSpec {
	out := make([]OutputSpec, len(outputs))
	copy(out, outputs)
	return out
}

// OutputNames lists the output names in display order.
func OutputNames() []string {
	names := make([]string, len(outputs))
	for i, o := range outputs {
		names[i] = o.Name
	}
	return names
}

func LookupOutput(name string) (OutputSpec, error) {
	for _, o := range outputs {
		if o.Name == name {
			return o, nil
		}
	}
	return OutputSpec{}, fmt.Errorf("%w: %s", ErrUnknownOutput, name)
}
