package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/san-kum/pengviz/internal/penguin"
)

// penguins.csv is a synthetic sample with the palmerpenguins schema and
// per-species row counts (152 Adelie, 124 Gentoo, 68 Chinstrap). Its
// measurements are not the published ones; point dataset.path at the real
// palmerpenguins penguins.csv, or replace this file with it.
//
//go:embed data/penguins.csv
var embeddedCSV []byte

var requiredColumns = []string{"species", "bill_length_mm", "bill_depth_mm", "body_mass_g"}

var columnTypes = map[string]series.Type{
	"species":           series.String,
	"island":            series.String,
	"bill_length_mm":    series.Float,
	"bill_depth_mm":     series.Float,
	"flipper_length_mm": series.Float,
	"body_mass_g":       series.Float,
	"sex":               series.String,
	"year":              series.Float,
}

// ParseCSV decodes a headered CSV into records. Unknown columns are ignored;
// NA and NaN cells become NaN measurements or empty strings.
func ParseCSV(r io.Reader) ([]penguin.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if !hasDataRow(data) {
		return nil, ErrEmptyDataset
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(columnTypes),
		dataframe.NaNValues([]string{"NA", "NaN", "nan", ""}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, df.Err)
	}

	present := make(map[string]bool)
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, name := range requiredColumns {
		if !present[name] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	n := df.Nrow()
	if n == 0 {
		return nil, ErrEmptyDataset
	}

	floats := func(name string) []float64 {
		if !present[name] {
			out := make([]float64, n)
			for i := range out {
				out[i] = math.NaN()
			}
			return out
		}
		return df.Col(name).Float()
	}
	strs := func(name string) []string {
		out := make([]string, n)
		if !present[name] {
			return out
		}
		for i, s := range df.Col(name).Records() {
			if s != "NaN" {
				out[i] = s
			}
		}
		return out
	}

	species := strs("species")
	island := strs("island")
	sex := strs("sex")
	billLength := floats("bill_length_mm")
	billDepth := floats("bill_depth_mm")
	flipper := floats("flipper_length_mm")
	mass := floats("body_mass_g")
	year := floats("year")

	records := make([]penguin.Record, n)
	for i := 0; i < n; i++ {
		sp, err := penguin.ParseSpecies(species[i])
		if err != nil {
			return nil, &RowError{Row: i + 1, Wrapped: err}
		}
		y := 0
		if !math.IsNaN(year[i]) {
			y = int(year[i])
		}
		records[i] = penguin.Record{
			Species:       sp,
			Island:        island[i],
			BillLength:    billLength[i],
			BillDepth:     billDepth[i],
			FlipperLength: flipper[i],
			BodyMass:      mass[i],
			Sex:           sex[i],
			Year:          y,
		}
	}
	return records, nil
}

// hasDataRow reports whether data holds a non-blank line after the header.
func hasDataRow(data []byte) bool {
	_, rest, ok := bytes.Cut(bytes.TrimSpace(data), []byte("\n"))
	return ok && len(bytes.TrimSpace(rest)) > 0
}

// CSVSource reads records from a CSV byte stream.
type CSVSource struct {
	name string
	open func() (io.ReadCloser, error)
}

// Embedded returns the source compiled into the binary.
func Embedded() *CSVSource {
	return &CSVSource{
		name: "embedded:penguins.csv",
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(embeddedCSV)), nil
		},
	}
}

// File returns a source reading the CSV at path.
func File(path string) *CSVSource {
	return &CSVSource{
		name: "file:" + path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func (s *CSVSource) Name() string { return s.name }

func (s *CSVSource) Load(ctx context.Context) ([]penguin.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := s.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseCSV(rc)
}
