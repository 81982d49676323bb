// Package otel provides span helpers for the bookstore API services.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by service spans
const (
	AttrDatabaseConfigured = attribute.Key("bookapi.database.configured")
	AttrAPIVersion         = attribute.Key("bookapi.api_version")
	AttrMediaType          = attribute.Key("bookapi.media_type")
	AttrHATEOAS            = attribute.Key("bookapi.hateoas")
)

// StartSpan starts a span on tracer, or returns the span already in ctx
// when tracer is nil.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks it failed.
// The status description stays generic so connection strings never end up
// in the span status; the event keeps the full error.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
