package formatter

import (
	"context"
	"errors"
	"slices"
)

// ErrFrozen is returned when a frozen registry is modified
var ErrFrozen = errors.New("formatter registry is frozen")

// Observer is notified of every negotiation outcome.
// family and mediaType are empty when err is non-nil.
type Observer interface {
	ObserveNegotiation(ctx context.Context, family Family, mediaType string, err error)
}

// Registry is the ordered list of output formatters consulted during
// content negotiation. The first formatter whose supported media types
// match the requested type wins.
//
// A registry is built and mutated during startup only. Once Freeze is
// called it is shared read-only between request handlers without locking.
type Registry struct {
	formatters []Formatter
	observer   Observer
	frozen     bool
}

// NewRegistry creates a registry holding the given formatters in order
func NewRegistry(formatters ...Formatter) *Registry {
	return &Registry{formatters: slices.Clone(formatters)}
}

// DefaultRegistry creates the host's default formatter list: JSON, XML, CBOR.
// JSON comes first so it is used when the client expresses no preference.
func DefaultRegistry() (*Registry, error) {
	cborFormatter, err := NewCBORFormatter()
	if err != nil {
		return nil, err
	}
	return NewRegistry(NewJSONFormatter(), NewXMLFormatter(), cborFormatter), nil
}

// Add appends a formatter to the end of the registry
func (r *Registry) Add(f Formatter) error {
	if r.frozen {
		return ErrFrozen
	}
	r.formatters = append(r.formatters, f)
	return nil
}

// SetObserver installs the negotiation observer
func (r *Registry) SetObserver(o Observer) error {
	if r.frozen {
		return ErrFrozen
	}
	r.observer = o
	return nil
}

// Freeze ends the startup mutation phase
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze has been called
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Formatters returns the formatters in registry order
func (r *Registry) Formatters() []Formatter {
	return slices.Clone(r.formatters)
}

// Len returns the number of formatters
func (r *Registry) Len() int {
	return len(r.formatters)
}

// FirstOfFamily returns the first formatter of the given family, or nil
func (r *Registry) FirstOfFamily(family Family) Formatter {
	for _, f := range r.formatters {
		if f.Family() == family {
			return f
		}
	}
	return nil
}

type registryKey struct{}

// NewContext returns a copy of ctx carrying the registry
func NewContext(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, r)
}

// FromContext returns the registry stored in ctx, or nil
func FromContext(ctx context.Context) *Registry {
	r, _ := ctx.Value(registryKey{}).(*Registry)
	return r
}
