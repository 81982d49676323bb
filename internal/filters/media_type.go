// Package filters provides request filters that run in front of API
// handlers: Accept header validation, body validation and route logging.
package filters

import (
	"context"
	"net/http"
	"strings"

	"github.com/munnerz/goautoneg"
	"go.opentelemetry.io/otel/trace"

	"github.com/kaya2m/BookStoreApp-API/internal/api/common"
	"github.com/kaya2m/BookStoreApp-API/internal/otel"
)

type mediaTypeKey struct{}

// MediaType is the first media range of a request's Accept header.
type MediaType struct {
	Type    string
	SubType string
	Params  map[string]string
}

// String returns the type/subtype essence without parameters.
func (m MediaType) String() string {
	return m.Type + "/" + m.SubType
}

// IsHATEOAS reports whether the client asked for the hypermedia representation.
func (m MediaType) IsHATEOAS() bool {
	return strings.Contains(m.SubType, "hateoas")
}

// IsAPIRoot reports whether the client asked for the API root representation.
func (m MediaType) IsAPIRoot() bool {
	return strings.Contains(m.SubType, "apiroot")
}

// MediaTypeFrom returns the media type stored by ValidateMediaType.
func MediaTypeFrom(ctx context.Context) (MediaType, bool) {
	mt, ok := ctx.Value(mediaTypeKey{}).(MediaType)
	return mt, ok
}

// ValidateMediaType rejects requests without a usable Accept header and
// stores the first media range in the request context.
func ValidateMediaType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := strings.TrimSpace(r.Header.Get("Accept"))
		if accept == "" {
			common.WriteErrorResponse(w, "Accept header is missing", http.StatusBadRequest)
			return
		}

		mt, ok := parseFirstMediaRange(accept)
		if !ok {
			common.WriteErrorResponse(w, "Media type not present", http.StatusBadRequest)
			return
		}

		trace.SpanFromContext(r.Context()).SetAttributes(otel.AttrHATEOAS.Bool(mt.IsHATEOAS()))

		ctx := context.WithValue(r.Context(), mediaTypeKey{}, mt)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseFirstMediaRange(accept string) (MediaType, bool) {
	first, _, _ := strings.Cut(accept, ",")
	clauses := goautoneg.ParseAccept(first)
	if len(clauses) == 0 {
		return MediaType{}, false
	}

	c := clauses[0]
	if c.Type == "" || c.SubType == "" {
		return MediaType{}, false
	}
	return MediaType{
		Type:    strings.ToLower(c.Type),
		SubType: strings.ToLower(c.SubType),
		Params:  c.Params,
	}, true
}
