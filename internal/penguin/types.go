package penguin

import (
	"math"
	"strconv"
	"strings"
)

type Species string

const (
	Adelie    Species = "Adelie"
	Chinstrap Species = "Chinstrap"
	Gentoo    Species = "Gentoo"
)

// AllSpecies lists the species in the order the dashboard presents them.
var AllSpecies = []Species{Adelie, Gentoo, Chinstrap}

// ParseSpecies matches a label case-insensitively.
func ParseSpecies(s string) (Species, error) {
	s = strings.TrimSpace(s)
	for _, sp := range AllSpecies {
		if strings.EqualFold(s, string(sp)) {
			return sp, nil
		}
	}
	return "", &ParseError{Value: s, Wrapped: ErrUnknownSpecies}
}

func (s Species) String() string { return string(s) }

// Column names a numeric measurement of a Record.
type Column string

const (
	BillLength    Column = "bill_length_mm"
	BillDepth     Column = "bill_depth_mm"
	FlipperLength Column = "flipper_length_mm"
	BodyMass      Column = "body_mass_g"
)

// NumericColumns are the columns offered by the attribute selector.
var NumericColumns = []Column{BillLength, BillDepth, BodyMass, FlipperLength}

var columnLabels = map[Column]string{
	BillLength:    "Bill Length (mm)",
	BillDepth:     "Bill Depth (mm)",
	FlipperLength: "Flipper Length (mm)",
	BodyMass:      "Body Mass (g)",
}

func ParseColumn(s string) (Column, error) {
	c := Column(strings.TrimSpace(s))
	if _, ok := columnLabels[c]; !ok {
		return "", &ParseError{Value: s, Wrapped: ErrUnknownColumn}
	}
	return c, nil
}

// Label returns the human readable axis label.
func (c Column) Label() string {
	if l, ok := columnLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Column) String() string { return string(c) }

// Record is one row of the dataset. Missing measurements are NaN and a
// missing sex is the empty string.
type Record struct {
	Species       Species
	Island        string
	BillLength    float64
	BillDepth     float64
	FlipperLength float64
	BodyMass      float64
	Sex           string
	Year          int
}

// Value returns the measurement stored under col, or NaN for unknown columns.
func (r Record) Value(col Column) float64 {
	switch col {
	case BillLength:
		return r.BillLength
	case BillDepth:
		return r.BillDepth
	case FlipperLength:
		return r.FlipperLength
	case BodyMass:
		return r.BodyMass
	}
	return math.NaN()
}

// Header is the column order used by tables and CSV sources.
var Header = []string{"species", "island", "bill_length_mm", "bill_depth_mm", "flipper_length_mm", "body_mass_g", "sex", "year"}

// Fields formats the record in Header order.
func (r Record) Fields() []string {
	sex := r.Sex
	if sex == "" {
		sex = "NA"
	}
	year := "NA"
	if r.Year != 0 {
		year = strconv.Itoa(r.Year)
	}
	return []string{
		string(r.Species),
		r.Island,
		FormatFloat(r.BillLength),
		FormatFloat(r.BillDepth),
		FormatFloat(r.FlipperLength),
		FormatFloat(r.BodyMass),
		sex,
		year,
	}
}

// FormatFloat prints the shortest representation, or NA for NaN.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
