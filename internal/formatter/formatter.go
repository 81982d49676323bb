// Package formatter provides the response formatters used for HTTP content
// negotiation and the ordered registry that selects between them.
package formatter

import (
	"io"
	"slices"
	"strings"
)

// Family identifies the wire format a formatter produces
type Family string

const (
	// FamilyJSON is the structured-text (JSON) family
	FamilyJSON Family = "json"

	// FamilyXML is the XML family
	FamilyXML Family = "xml"

	// FamilyCBOR is the binary CBOR family
	FamilyCBOR Family = "cbor"
)

// Formatter serializes response bodies in one wire format and advertises
// the media types it can produce.
type Formatter interface {
	// Family returns the wire format family of the formatter
	Family() Family

	// SupportedMediaTypes returns the mutable list of media types the formatter accepts
	SupportedMediaTypes() *MediaTypes

	// Write serializes v to w
	Write(w io.Writer, v any) error
}

// MediaTypes is an ordered list of media type strings.
// Entries are kept as given; Add does not de-duplicate.
type MediaTypes struct {
	values []string
}

// NewMediaTypes creates a media type list with the given initial values
func NewMediaTypes(values ...string) *MediaTypes {
	return &MediaTypes{values: slices.Clone(values)}
}

// Add appends a media type to the end of the list
func (m *MediaTypes) Add(mediaType string) {
	m.values = append(m.values, mediaType)
}

// Values returns a copy of the media types in insertion order
func (m *MediaTypes) Values() []string {
	return slices.Clone(m.values)
}

// Len returns the number of entries, duplicates included
func (m *MediaTypes) Len() int {
	return len(m.values)
}

// First returns the first media type, or "" if the list is empty
func (m *MediaTypes) First() string {
	if len(m.values) == 0 {
		return ""
	}
	return m.values[0]
}

// Contains reports whether the list holds mediaType.
// The comparison ignores case and media type parameters.
func (m *MediaTypes) Contains(mediaType string) bool {
	want := essence(mediaType)
	return slices.ContainsFunc(m.values, func(v string) bool {
		return essence(v) == want
	})
}

// essence strips parameters and normalizes case, "Application/JSON; charset=utf-8" -> "application/json"
func essence(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

type baseFormatter struct {
	family     Family
	mediaTypes *MediaTypes
}

func newBaseFormatter(family Family, defaults []string, mediaTypes []string) baseFormatter {
	if len(mediaTypes) == 0 {
		mediaTypes = defaults
	}
	return baseFormatter{
		family:     family,
		mediaTypes: NewMediaTypes(mediaTypes...),
	}
}

// Family returns the wire format family of the formatter
func (b *baseFormatter) Family() Family {
	return b.family
}

// SupportedMediaTypes returns the mutable list of media types the formatter accepts
func (b *baseFormatter) SupportedMediaTypes() *MediaTypes {
	return b.mediaTypes
}
