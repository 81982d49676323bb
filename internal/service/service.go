// Package service provides the services the API handlers depend on.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/kaya2m/BookStoreApp-API/internal/otel"
)

// ErrNotReady is returned while the service cannot serve requests
var ErrNotReady = errors.New("service not ready")

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go ReadinessService,Pinger

// ReadinessService reports whether the API can serve requests
type ReadinessService interface {
	// CheckReadiness returns nil when every backing dependency is reachable
	CheckReadiness(ctx context.Context) error
}

// Pinger is a dependency that can be probed, such as the database pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option configures the readiness service
type Option func(*readinessService)

// WithTracer records a span for every readiness check
func WithTracer(tracer trace.Tracer) Option {
	return func(s *readinessService) {
		s.tracer = tracer
	}
}

type readinessService struct {
	db     Pinger
	tracer trace.Tracer
}

// NewReadinessService creates a ReadinessService. With a nil db the API
// runs without a database and is always ready.
func NewReadinessService(db Pinger, opts ...Option) ReadinessService {
	s := &readinessService{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckReadiness pings the database when one is configured
func (s *readinessService) CheckReadiness(ctx context.Context) error {
	ctx, span := otel.StartSpan(ctx, s.tracer, "service.CheckReadiness",
		trace.WithAttributes(otel.AttrDatabaseConfigured.Bool(s.db != nil)),
	)
	defer span.End()

	if s.db == nil {
		return nil
	}
	if err := s.db.Ping(ctx); err != nil {
		err = fmt.Errorf("%w: failed to ping database: %w", ErrNotReady, err)
		otel.RecordError(span, err)
		return err
	}
	return nil
}
