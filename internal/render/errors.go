package render

import "errors"

var (
	// ErrUnknownOutput indicates an output name outside the registry.
	ErrUnknownOutput = errors.New("render: unknown output")

	// ErrUnknownFormat indicates an encoder name that does not exist.
	ErrUnknownFormat = errors.New("render: unknown format")

	// ErrUnsupported indicates an encoder that cannot write the given artifact.
	ErrUnsupported = errors.New("render: format not supported for artifact")
)
