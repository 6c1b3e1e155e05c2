package penguin

import "errors"

// Domain errors for parsing values that cross the UI or dataset boundary.
var (
	// ErrUnknownSpecies indicates a species label outside the known set.
	ErrUnknownSpecies = errors.New("penguin: unknown species")

	// ErrUnknownColumn indicates a column name that is not a numeric measurement.
	ErrUnknownColumn = errors.New("penguin: unknown numeric column")
)

// ParseError wraps a domain error with the offending value.
type ParseError struct {
	Value   string
	Wrapped error
}

func (e *ParseError) Error() string {
	return e.Wrapped.Error() + ": " + e.Value
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}
