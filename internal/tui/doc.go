// Package tui is the terminal shell of the dashboard: a sidebar holding
// the four inputs and a pane showing one output at a time. Every widget
// change is written to the session, and the panes re-render when the
// session reports which outputs went stale.
package tui
