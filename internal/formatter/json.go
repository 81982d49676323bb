package formatter

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes response bodies as JSON
type JSONFormatter struct {
	baseFormatter
}

// NewJSONFormatter creates a JSON formatter. Without arguments it supports
// application/json and text/json; otherwise exactly the given media types.
func NewJSONFormatter(mediaTypes ...string) *JSONFormatter {
	return &JSONFormatter{
		baseFormatter: newBaseFormatter(FamilyJSON, []string{"application/json", "text/json"}, mediaTypes),
	}
}

// Write encodes v as JSON followed by a newline
func (*JSONFormatter) Write(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
