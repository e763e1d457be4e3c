package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/observability/metrics"
)

const maxBodyBytes = 1 << 20

// Client talks to the remote ticket API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*options)

type options struct {
	transport http.RoundTripper
	timeout   time.Duration
}

// WithTransport replaces the base transport (http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTimeout bounds every call, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func New(baseURL string, logger *zap.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API base URL %q must be absolute", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	o := options{transport: http.DefaultTransport, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(&bearerTransport{next: o.transport}),
			Timeout:   o.timeout,
		},
		logger: logger,
	}, nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.baseURL.String(), "/") + path
}

// do sends one JSON request and decodes a JSON response into out.
// Failures are logged with their cause, status and body.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	status := 0
	err := c.roundTrip(ctx, op, method, path, in, out, &status)

	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("status", strconv.Itoa(status)),
		attribute.String("outcome", Kind(err)),
	)
	m := metrics.Get()
	m.APIRequestsTotal.Add(ctx, 1, attrs)
	m.APIRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)

	return err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, in, out any, status *int) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Ticket API unreachable",
			zap.String("operation", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	*status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Error("Failed to read ticket API response",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Ticket API error response",
			zap.String("operation", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Error("Failed to decode ticket API response",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
			zap.Error(err),
		)
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Body: string(raw), Err: err}
	}
	return nil
}
