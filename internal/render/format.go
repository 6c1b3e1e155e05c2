package render

import (
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatText Format = "text"
)

// ParseFormat accepts a format name; blank means HTML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatHTML, nil
	case FormatHTML, FormatJSON, FormatPNG, FormatSVG, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

// ContentType is the MIME type of an encoded artifact.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatText:
		return "text/plain; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

// Ext is the file extension used by snapshots.
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Size is the pixel size of image encodings, or the cell size of text ones.
type Size struct {
	Width  int
	Height int
}

var (
	DefaultImageSize = Size{Width: 800, Height: 480}
	DefaultTextSize  = Size{Width: 72, Height: 14}
)

// Encode writes a in format f. Tables have no image form.
func Encode(w io.Writer, a Artifact, f Format, size Size) error {
	switch f {
	case FormatHTML:
		return WriteHTML(w, a)
	case FormatJSON:
		return WriteJSON(w, a)
	case FormatText:
		_, err := io.WriteString(w, Terminal(a, size))
		return err
	case FormatPNG, FormatSVG:
		c, ok := a.(*Chart)
		if !ok {
			return fmt.Errorf("%w: %s as %s", ErrUnsupported, a.OutputName(), f)
		}
		if f == FormatPNG {
			return WritePNG(w, c, size)
		}
		return WriteSVG(w, c, size)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}
