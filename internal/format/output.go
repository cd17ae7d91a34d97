package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Supported output formats.
const (
	JSON = "json"
	EDN  = "edn"
	Text = "text"
)

// Texter is implemented by payloads that have a natural human-readable form
// (an outline, an exported document). The text writer prefers it.
type Texter interface {
	Text() string
}

// Write writes output in the requested format: json (default), edn or text.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case Text, "txt":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s (expected json|edn|text)", format)
	}
}

// Valid reports whether format is accepted by Write.
func Valid(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON, EDN, Text, "txt":
		return true
	}
	return false
}

// WriteJSON writes strict JSON. Hints for follow-up commands go in `_hints`,
// never in free text.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// toGeneric converts v into maps/slices/scalars using its json tags. Numbers stay
// json.Number so large ids survive.
func toGeneric(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return nil, err
	}
	return x, nil
}
