package formatter

import (
	"encoding/xml"
	"io"
)

// XMLFormatter writes response bodies as XML documents
type XMLFormatter struct {
	baseFormatter
}

// NewXMLFormatter creates an XML formatter. Without arguments it supports
// application/xml and text/xml; otherwise exactly the given media types.
func NewXMLFormatter(mediaTypes ...string) *XMLFormatter {
	return &XMLFormatter{
		baseFormatter: newBaseFormatter(FamilyXML, []string{"application/xml", "text/xml"}, mediaTypes),
	}
}

// Write encodes v as an XML document, prefixed with the standard XML header.
// Values must be XML-encodable; maps are not.
func (*XMLFormatter) Write(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(v)
}
