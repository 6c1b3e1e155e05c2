// Package penguin defines the domain types shared by every pengviz component.
//
// The package has no behavior beyond parsing and formatting:
//
//   - [Record]: one immutable row of the penguin dataset
//   - [Species]: the categorical label used for filtering and grouping
//   - [Column]: a numeric measurement that charts can bin or plot
//
// Missing measurements are stored as NaN and formatted as "NA".
package penguin
