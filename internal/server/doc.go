// Package server is the browser shell of the dashboard. Each client gets
// its own session, identified by a cookie. Inputs are posted one at a time
// and the page learns which outputs to refetch from a server-sent event
// stream.
package server
