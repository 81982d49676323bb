package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaya2m/BookStoreApp-API/database"
	"github.com/kaya2m/BookStoreApp-API/internal/config"
	"github.com/kaya2m/BookStoreApp-API/internal/telemetry"
)

func freeAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestBookstoreApp_StartStop(t *testing.T) {
	t.Parallel()

	tel, err := telemetry.New(context.Background(), nil)
	require.NoError(t, err)

	addr := freeAddress(t)
	app := newTestApp(t, WithAddress(addr), WithTelemetry(tel))

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, app.Stop(5*time.Second))

	select {
	case startErr := <-errChan:
		require.NoError(t, startErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after Stop()")
	}
}

func TestBookstoreApp_StartAddressInUse(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	app := newTestApp(t, WithAddress(l.Addr().String()))
	err = app.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP server failed")
}

func TestBookstoreApp_Getters(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	assert.NotNil(t, app.GetConfig())
	assert.NotNil(t, app.GetComponents().Readiness)
	assert.Equal(t, ":8080", app.GetHTTPServer().Addr)
	assert.Equal(t, defaultReadTimeout, app.GetHTTPServer().ReadTimeout)
}

func TestBookstoreApp_DatabaseReadiness(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	testDB := database.SetupTestDBContainer(t, ctx)

	app, err := NewBookstoreApp(ctx, WithConfig(&config.Config{
		ConnectionStrings: map[string]string{config.SQLConnectionName: testDB.ConnString},
	}))
	require.NoError(t, err)
	require.NotNil(t, app.GetComponents().Database)

	readiness := func() int {
		rr := httptest.NewRecorder()
		app.GetHTTPServer().Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readiness", nil))
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, readiness())

	require.NoError(t, testDB.Stop(ctx))
	assert.Eventually(t, func() bool {
		return readiness() == http.StatusServiceUnavailable
	}, 10*time.Second, 100*time.Millisecond)

	require.NoError(t, app.Stop(5*time.Second))
	assert.Error(t, app.GetComponents().Database.Ping(ctx), "Stop closes the pool")
}
