// Package helpers starts the bookstore API for integration tests.
package helpers

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/onsi/gomega"

	"github.com/kaya2m/BookStoreApp-API/internal/app"
	"github.com/kaya2m/BookStoreApp-API/internal/config"
)

// ServerTestHelper manages the API server lifecycle for a test
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	baseURL    string
	address    string
	httpClient *http.Client
	app        *app.BookstoreApp
}

// NewServerTestHelper creates a helper serving configPath on a free local port
func NewServerTestHelper(ctx context.Context, configPath string) *ServerTestHelper {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	address := l.Addr().String()
	gomega.Expect(l.Close()).To(gomega.Succeed())

	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		address:    address,
		baseURL:    "http://" + address,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// StartServer builds the application from the config file and serves it in
// the background
func (s *ServerTestHelper) StartServer() error {
	cfg, err := config.LoadConfig(config.WithConfigPath(s.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	bookstoreApp, err := app.NewBookstoreApp(s.ctx,
		app.WithConfig(cfg),
		app.WithAddress(s.address),
	)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	s.app = bookstoreApp

	go func() {
		if err := bookstoreApp.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()
	return nil
}

// StopServer gracefully stops the server
func (s *ServerTestHelper) StopServer() error {
	if s.app != nil {
		return s.app.Stop(5 * time.Second)
	}
	return nil
}

// WaitForServerReady polls /health until the server answers
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() error {
		resp, err := s.httpClient.Get(s.baseURL + "/health")
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	}, timeout, 100*time.Millisecond).Should(gomega.Succeed(), "Server should be ready")
}

// Get issues a GET for path with the given request headers
func (s *ServerTestHelper) Get(path string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return s.httpClient.Do(req)
}

// Do issues an arbitrary request against the server
func (s *ServerTestHelper) Do(method, path string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(s.ctx, method, s.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return s.httpClient.Do(req)
}

// GetBaseURL returns the base URL of the server
func (s *ServerTestHelper) GetBaseURL() string {
	return s.baseURL
}

// ReadBody reads and closes the response body
func ReadBody(resp *http.Response) string {
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return string(body)
}

// WriteConfigYAML writes content to config.yaml in dir and returns the path
func WriteConfigYAML(dir, content string) string {
	path := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(path, []byte(content), 0o600)).To(gomega.Succeed())
	return path
}
