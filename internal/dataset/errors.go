package dataset

import "errors"

var (
	// ErrEmptyDataset indicates a source that produced no rows.
	ErrEmptyDataset = errors.New("dataset: no records")

	// ErrMissingColumn indicates a source without a required column.
	ErrMissingColumn = errors.New("dataset: missing required column")

	// ErrParse indicates a source whose content could not be decoded.
	ErrParse = errors.New("dataset: parse failed")

	// ErrInvalidTable indicates a SQL table name that is not a plain identifier.
	ErrInvalidTable = errors.New("dataset: invalid table name")

	// ErrUnknownSource indicates a source kind the provider cannot open.
	ErrUnknownSource = errors.New("dataset: unknown source kind")
)

// RowError wraps an error with the 1-based data row it occurred on.
type RowError struct {
	Row     int
	Wrapped error
}

func (e *RowError) Error() string {
	return "row " + itoa(e.Row) + ": " + e.Wrapped.Error()
}

func (e *RowError) Unwrap() error {
	return e.Wrapped
}
