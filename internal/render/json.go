package render

import (
	"encoding/json"
	"io"
)

// WriteJSON writes the artifact as indented JSON.
func WriteJSON(w io.Writer, a Artifact) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}
