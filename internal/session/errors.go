package session

import "errors"

var (
	// ErrUnknownInput indicates an input name the dashboard does not have.
	ErrUnknownInput = errors.New("session: unknown input")

	// ErrClosed indicates use of a session after Close.
	ErrClosed = errors.New("session: closed")

	// ErrNotFound indicates an id with no live session.
	ErrNotFound = errors.New("session: not found")
)
