// Package common provides shared HTTP response helpers for API handlers.
package common

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/kaya2m/BookStoreApp-API/internal/formatter"
	"github.com/kaya2m/BookStoreApp-API/internal/otel"
)

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResp := map[string]string{
		"error": message,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// Respond writes data in the representation negotiated from the request's
// Accept header, using the formatter registry stored in the request context.
// Without a registry it falls back to JSON. When no formatter accepts the
// requested media type it writes 406 Not Acceptable.
func Respond(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	registry := formatter.FromContext(r.Context())
	if registry == nil {
		WriteJSONResponse(w, data, statusCode)
		return
	}

	f, mediaType, err := registry.Negotiate(r.Context(), r.Header.Get("Accept"))
	if err != nil {
		WriteErrorResponse(w, "Not acceptable: "+r.Header.Get("Accept"), http.StatusNotAcceptable)
		return
	}

	// Encode before writing the status so encoding failures can still become a 500
	var buf bytes.Buffer
	if err := f.Write(&buf, data); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response",
			"media_type", mediaType,
			"error", err,
		)
		WriteErrorResponse(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	trace.SpanFromContext(r.Context()).SetAttributes(otel.AttrMediaType.String(mediaType))
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.DebugContext(r.Context(), "Failed to write response body", "error", err)
	}
}
