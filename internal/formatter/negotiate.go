package formatter

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/munnerz/goautoneg"
)

// ErrNotAcceptable is returned when no formatter can produce any of the
// media types listed in the Accept header
var ErrNotAcceptable = errors.New("no formatter supports the requested media type")

// Negotiate selects the formatter for an Accept header value.
//
// Media ranges are tried by descending quality. For each range the
// formatters are walked in registry order and the first match is returned
// together with the media type to send as Content-Type. An exact range
// yields the requested type; a wildcard range yields the formatter's first
// supported type. An empty header selects the first formatter.
func (r *Registry) Negotiate(ctx context.Context, accept string) (Formatter, string, error) {
	f, mediaType, err := r.negotiate(accept)
	if r.observer != nil {
		var family Family
		if f != nil {
			family = f.Family()
		}
		r.observer.ObserveNegotiation(ctx, family, mediaType, err)
	}
	return f, mediaType, err
}

func (r *Registry) negotiate(accept string) (Formatter, string, error) {
	if strings.TrimSpace(accept) == "" {
		for _, f := range r.formatters {
			if mt := f.SupportedMediaTypes().First(); mt != "" {
				return f, mt, nil
			}
		}
		return nil, "", ErrNotAcceptable
	}

	for _, clause := range byQuality(goautoneg.ParseAccept(accept)) {
		if clause.Q <= 0 {
			continue
		}
		for _, f := range r.formatters {
			if mt, ok := matchClause(f, clause); ok {
				return f, mt, nil
			}
		}
	}

	return nil, "", fmt.Errorf("%w: %s", ErrNotAcceptable, accept)
}

// byQuality orders clauses by descending q, then exact ranges before
// type wildcards before */*. Ties keep header order.
func byQuality(clauses []goautoneg.Accept) []goautoneg.Accept {
	sorted := slices.Clone(clauses)
	slices.SortStableFunc(sorted, func(a, b goautoneg.Accept) int {
		if c := cmp.Compare(b.Q, a.Q); c != 0 {
			return c
		}
		return cmp.Compare(specificity(b), specificity(a))
	})
	return sorted
}

func specificity(clause goautoneg.Accept) int {
	switch {
	case clause.Type == "*":
		return 0
	case clause.SubType == "*":
		return 1
	default:
		return 2
	}
}

// matchClause reports the media type f would produce for a single Accept clause
func matchClause(f Formatter, clause goautoneg.Accept) (string, bool) {
	typ := strings.ToLower(clause.Type)
	sub := strings.ToLower(clause.SubType)
	supported := f.SupportedMediaTypes()

	switch {
	case typ == "*" && sub == "*":
		if mt := supported.First(); mt != "" {
			return mt, true
		}
	case sub == "*":
		for _, v := range supported.Values() {
			if strings.HasPrefix(essence(v), typ+"/") {
				return v, true
			}
		}
	default:
		requested := typ + "/" + sub
		if supported.Contains(requested) {
			return requested, true
		}
	}
	return "", false
}
