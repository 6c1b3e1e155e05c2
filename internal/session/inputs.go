package session

import (
	"fmt"
	"strconv"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/filter"
	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/render"
)

// Input names accepted by Session.Set.
const (
	InputSpecies         = "species"
	InputAttribute       = "attribute"
	InputInteractiveBins = "interactive_bins"
	InputStaticBins      = "static_bins"
)

// InputNames lists the inputs in sidebar order.
func InputNames() []string {
	return []string{InputAttribute, InputInteractiveBins, InputStaticBins, InputSpecies}
}

// Inputs is the value of every input at one point in time.
type Inputs struct {
	Species         filter.Selection
	Attribute       penguin.Column
	InteractiveBins int
	StaticBins      int
}

// DefaultInputs is the state of a fresh dashboard: every species, bill
// length, 50 bins on both histograms.
func DefaultInputs() Inputs {
	return Inputs{
		Species:         filter.AllSpecies(),
		Attribute:       penguin.BillLength,
		InteractiveBins: render.DefaultBins,
		StaticBins:      render.DefaultBins,
	}
}

// Filter applies the species selection to the whole dataset.
func (in Inputs) Filter(ds *dataset.Dataset) dataset.View {
	return filter.BySpecies(ds.All(), in.Species)
}

// Render computes one output outside any reactive graph. The result is
// identical to what a Session with the same inputs produces.
func (in Inputs) Render(filtered dataset.View, name string) (render.Artifact, error) {
	switch name {
	case render.OutputDataTable:
		return render.DataTable(filtered), nil
	case render.OutputDataGrid:
		return render.DataGrid(filtered), nil
	case render.OutputInteractiveHistogram:
		return render.InteractiveHistogram(filtered, in.Attribute, in.InteractiveBins), nil
	case render.OutputStaticHistogram:
		return render.StaticHistogram(filtered, in.Attribute, in.StaticBins), nil
	case render.OutputScatterplot:
		return render.Scatter(filtered), nil
	}
	return nil, fmt.Errorf("%w: %s", render.ErrUnknownOutput, name)
}

// Strings returns the inputs in their UI string form.
func (in Inputs) Strings() map[string]string {
	return map[string]string{
		InputSpecies:         in.Species.Key(),
		InputAttribute:       string(in.Attribute),
		InputInteractiveBins: strconv.Itoa(in.InteractiveBins),
		InputStaticBins:      strconv.Itoa(in.StaticBins),
	}
}

// ParseInputs reads the form produced by Strings. Missing keys keep the
// value from base.
func ParseInputs(base Inputs, values map[string]string) (Inputs, error) {
	in := base
	for name, value := range values {
		switch name {
		case InputSpecies:
			sel, err := filter.ParseSelection(value)
			if err != nil {
				return base, err
			}
			in.Species = sel
		case InputAttribute:
			col, err := penguin.ParseColumn(value)
			if err != nil {
				return base, err
			}
			in.Attribute = col
		case InputInteractiveBins:
			in.InteractiveBins = render.ParseBins(value)
		case InputStaticBins:
			in.StaticBins = render.ParseBins(value)
		default:
			return base, fmt.Errorf("%w: %s", ErrUnknownInput, name)
		}
	}
	return in, nil
}
