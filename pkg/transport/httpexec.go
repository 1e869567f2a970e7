package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPExecutor is the injected capability performing the raw HTTP exchange.
// Implementations must support concurrent in-flight requests between Acquire
// and Release; timeout policy lives here, not in the layers above.
type HTTPExecutor interface {
	// Acquire initializes the underlying connection resources.
	Acquire() error
	// Release tears the resources down. Calling Release twice is a no-op.
	Release() error
	// Execute performs one request and returns the status code and the full
	// response body. A returned error means no usable HTTP response.
	Execute(ctx context.Context, method, url string, header http.Header, body []byte) (int, []byte, error)
}

// StockExecutor is the net/http HTTPExecutor used when the caller does not
// inject one. The pooled http.Transport carries the concurrent-request
// semantics; Release closes idle connections.
type StockExecutor struct {
	timeout    time.Duration
	roundTrip  http.RoundTripper
	instrument bool

	mu     sync.Mutex
	client *http.Client
}

// StockOption customizes a StockExecutor.
type StockOption func(*StockExecutor)

// WithTimeout sets the per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) StockOption {
	return func(s *StockExecutor) { s.timeout = d }
}

// WithRoundTripper replaces the underlying transport.
func WithRoundTripper(rt http.RoundTripper) StockOption {
	return func(s *StockExecutor) { s.roundTrip = rt }
}

// WithInstrumentation wraps the transport with OpenTelemetry HTTP tracing.
func WithInstrumentation() StockOption {
	return func(s *StockExecutor) { s.instrument = true }
}

// NewStockExecutor creates an unacquired stock executor.
func NewStockExecutor(opts ...StockOption) *StockExecutor {
	s := &StockExecutor{
		timeout:   30 * time.Second,
		roundTrip: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acquire builds the HTTP client. Acquiring an already-acquired executor is
// an error; the facade's lifecycle guard keeps this from happening in normal
// use.
func (s *StockExecutor) Acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return fmt.Errorf("http executor already acquired")
	}
	rt := s.roundTrip
	if s.instrument {
		rt = otelhttp.NewTransport(rt)
	}
	s.client = &http.Client{
		Transport: rt,
		Timeout:   s.timeout,
	}
	return nil
}

// Release closes idle connections and drops the client. Safe to call twice.
func (s *StockExecutor) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	s.client.CloseIdleConnections()
	s.client = nil
	return nil
}

// Execute performs one request/response exchange.
func (s *StockExecutor) Execute(ctx context.Context, method, url string, header http.Header, body []byte) (int, []byte, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return 0, nil, fmt.Errorf("http executor not acquired")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
