// Package render turns a filtered view into displayable artifacts.
//
// The five output functions ([DataTable], [DataGrid], [InteractiveHistogram],
// [StaticHistogram] and [Scatter]) are pure: the same view and inputs always
// produce the same artifact, and an empty view produces a well-formed empty
// artifact. Encoders write artifacts as HTML, JSON, PNG, SVG or terminal
// text; every encoder accepts empty artifacts.
package render
