package versioning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/kaya2m/BookStoreApp-API/internal/otel"
)

const (
	// QueryParameter is the query string key carrying the requested version
	QueryParameter = "api-version"

	// HeaderName is the request header carrying the requested version
	HeaderName = "api-version"

	// AltHeaderName is accepted for clients that prefix custom headers
	AltHeaderName = "X-Api-Version"

	// SupportedVersionsHeader lists the supported versions when reporting is enabled
	SupportedVersionsHeader = "api-supported-versions"
)

// Error codes written in the error response body
const (
	CodeUnspecified = "ApiVersionUnspecified"
	CodeInvalid     = "InvalidApiVersion"
	CodeUnsupported = "UnsupportedApiVersion"
)

var (
	// ErrUnspecifiedVersion is returned when a request carries no version and none is assumed
	ErrUnspecifiedVersion = errors.New("an API version is required, but was not specified")

	// ErrUnsupportedVersion is returned for a well-formed version that is not served
	ErrUnsupportedVersion = errors.New("the requested API version is not supported")
)

// Options configures API version selection
type Options struct {
	// DefaultVersion is used when AssumeDefaultWhenUnspecified is set
	DefaultVersion Version

	// AssumeDefaultWhenUnspecified serves DefaultVersion to requests without a version
	AssumeDefaultWhenUnspecified bool

	// ReportAPIVersions adds the api-supported-versions header to responses
	ReportAPIVersions bool

	// Supported lists the versions served; defaults to DefaultVersion only
	Supported []Version
}

// DefaultOptions returns version 1.0, no assumed default and no reporting
func DefaultOptions() Options {
	return Options{DefaultVersion: DefaultVersion}
}

func (o Options) supported() []Version {
	if len(o.Supported) == 0 {
		return []Version{o.DefaultVersion}
	}
	return o.Supported
}

// Resolve determines the API version requested by r
func (o Options) Resolve(r *http.Request) (Version, error) {
	raw := requestedVersion(r)
	if raw == "" {
		if o.AssumeDefaultWhenUnspecified {
			return o.DefaultVersion, nil
		}
		return Version{}, ErrUnspecifiedVersion
	}

	v, err := Parse(raw)
	if err != nil {
		return Version{}, err
	}
	if !slices.Contains(o.supported(), v) {
		return Version{}, fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
	return v, nil
}

func requestedVersion(r *http.Request) string {
	if v := r.URL.Query().Get(QueryParameter); v != "" {
		return v
	}
	if v := r.Header.Get(HeaderName); v != "" {
		return v
	}
	return r.Header.Get(AltHeaderName)
}

type versionKey struct{}

// FromContext returns the API version resolved for the request
func FromContext(ctx context.Context) (Version, bool) {
	v, ok := ctx.Value(versionKey{}).(Version)
	return v, ok
}

// Middleware rejects requests whose API version cannot be served and stores
// the resolved version in the request context.
func Middleware(opts Options) func(http.Handler) http.Handler {
	reported := reportedVersions(opts.supported())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.ReportAPIVersions {
				w.Header().Set(SupportedVersionsHeader, reported)
			}

			v, err := opts.Resolve(r)
			if err != nil {
				writeVersionError(w, err)
				return
			}

			trace.SpanFromContext(r.Context()).SetAttributes(otel.AttrAPIVersion.String(v.String()))
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), versionKey{}, v)))
		})
	}
}

func reportedVersions(versions []Version) string {
	sorted := slices.Clone(versions)
	slices.SortFunc(sorted, Version.Compare)
	parts := make([]string, 0, len(sorted))
	for _, v := range sorted {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeVersionError(w http.ResponseWriter, err error) {
	code := CodeInvalid
	switch {
	case errors.Is(err, ErrUnspecifiedVersion):
		code = CodeUnspecified
	case errors.Is(err, ErrUnsupportedVersion):
		code = CodeUnsupported
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if encodeErr := json.NewEncoder(w).Encode(errorResponse{Error: code, Message: err.Error()}); encodeErr != nil {
		slog.Error("Failed to encode API version error", "error", encodeErr)
	}
}
