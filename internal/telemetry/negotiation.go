package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kaya2m/BookStoreApp-API/internal/formatter"
)

const (
	outcomeSelected      = "selected"
	outcomeNotAcceptable = "not_acceptable"
)

// NegotiationMetrics counts content negotiation results per formatter
// family and media type. It implements formatter.Observer.
type NegotiationMetrics struct {
	negotiations metric.Int64Counter
}

var _ formatter.Observer = (*NegotiationMetrics)(nil)

// NewNegotiationMetrics creates the counter. A nil provider yields nil,
// which is a valid no-op observer.
func NewNegotiationMetrics(provider metric.MeterProvider) (*NegotiationMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	counter, err := provider.Meter(InstrumentationName).Int64Counter("bookapi_http_negotiations_total",
		metric.WithDescription("Content negotiation results by formatter family and media type"),
		metric.WithUnit("{negotiation}"),
	)
	if err != nil {
		return nil, err
	}
	return &NegotiationMetrics{negotiations: counter}, nil
}

// ObserveNegotiation records one negotiation.
func (m *NegotiationMetrics) ObserveNegotiation(ctx context.Context, family formatter.Family, mediaType string, err error) {
	if m == nil {
		return
	}

	outcome := outcomeSelected
	if err != nil {
		outcome = outcomeNotAcceptable
		family = ""
		mediaType = ""
	}
	m.negotiations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("family", string(family)),
		attribute.String("media_type", mediaType),
		attribute.String("outcome", outcome),
	))
}
