// Package client provides an HTTP client for the scoring service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/plagcheck/internal/models"
)

// DefaultEndpoint is the scoring service address used when nothing else is configured.
const DefaultEndpoint = "http://localhost:5001"

// DefaultTimeout bounds a single round trip. Large batches on slow models can
// take minutes, so this is generous.
const DefaultTimeout = 5 * time.Minute

// RequestIDHeader carries the invocation ID to the service for log correlation.
const RequestIDHeader = "X-Request-ID"

// Client talks to the scoring service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client built with New.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout bounds each round trip. Zero keeps the environment or default timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a new client.
// If endpoint is empty, uses PLAGCHECK_SERVER_URL or defaults to localhost:5001.
// Without WithTimeout the timeout comes from PLAGCHECK_CLIENT_TIMEOUT (default 5m).
func New(endpoint string, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if endpoint == "" {
		endpoint = os.Getenv("PLAGCHECK_SERVER_URL")
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	timeout := o.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
		if t := os.Getenv("PLAGCHECK_CLIENT_TIMEOUT"); t != "" {
			if d, err := time.ParseDuration(t); err == nil {
				timeout = d
			}
		}
	}

	return NewWithHTTPClient(endpoint, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a client with a caller-supplied transport.
func NewWithHTTPClient(endpoint string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
	}
}

// Endpoint returns the base URL of the service.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// ListModels fetches the model catalog.
func (c *Client) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	var catalog models.Catalog
	if err := c.do(ctx, http.MethodGet, "/api/models", nil, &catalog); err != nil {
		return nil, err
	}
	if catalog.Models == nil {
		return []models.ModelInfo{}, nil
	}
	return catalog.Models, nil
}

// Analyze submits texts for scoring and returns every selected model's result.
// The response is checked for square matrices matching the text count.
func (c *Client) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	var resp models.AnalysisResponse
	if err := c.do(ctx, http.MethodPost, "/api/analyze", req, &resp); err != nil {
		return nil, err
	}
	if err := checkResponse(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health fetches the service health report.
func (c *Client) Health(ctx context.Context) (*models.HealthReport, error) {
	var report models.HealthReport
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// do performs a JSON request and decodes a 2xx body into result.
// Non-2xx bodies become a *ServiceError.
func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestIDFrom(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newServiceError(resp.StatusCode, data)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID attaches an invocation ID that is sent as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}
