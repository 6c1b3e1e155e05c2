// Package session owns one reactive dashboard per client.
//
// A Session wires four inputs (species, attribute, interactive_bins,
// static_bins) through the cached filtered view into the five render
// outputs. Every output declares exactly the inputs it reads, so a write
// recomputes only what depends on it. A Manager hands out sessions keyed by
// id and expires idle ones; all sessions share one read-only Dataset.
package session
