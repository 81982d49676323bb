package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/kaya2m/BookStoreApp-API/internal/service"
	"github.com/kaya2m/BookStoreApp-API/internal/service/mocks"
)

func TestReadinessService_CheckReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupMock func(*mocks.MockPinger)
		noDB      bool
		wantErr   bool
	}{
		{
			name: "no database is ready",
			noDB: true,
		},
		{
			name: "database reachable",
			setupMock: func(m *mocks.MockPinger) {
				m.EXPECT().Ping(gomock.Any()).Return(nil)
			},
		},
		{
			name: "database unreachable",
			setupMock: func(m *mocks.MockPinger) {
				m.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var svc service.ReadinessService
			if tt.noDB {
				svc = service.NewReadinessService(nil)
			} else {
				ctrl := gomock.NewController(t)
				t.Cleanup(ctrl.Finish)
				pinger := mocks.NewMockPinger(ctrl)
				tt.setupMock(pinger)
				svc = service.NewReadinessService(pinger)
			}

			err := svc.CheckReadiness(context.Background())
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrNotReady)
			assert.Contains(t, err.Error(), "connection refused")
		})
	}
}

func TestReadinessService_Tracing(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctrl := gomock.NewController(t)
	pinger := mocks.NewMockPinger(ctrl)
	pinger.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	svc := service.NewReadinessService(pinger, service.WithTracer(tp.Tracer("test")))
	require.Error(t, svc.CheckReadiness(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "service.CheckReadiness", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}
