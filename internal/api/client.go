// Package api is the HTTP client for the completion endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/chatbot/internal/errors"
	"github.com/diogo/chatbot/internal/models"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// Doer executes HTTP requests. tls_client.HttpClient satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientInterface is what the rest of the application needs from the client
type ClientInterface interface {
	Send(ctx context.Context, msg models.Message) (io.ReadCloser, error)
	Endpoint() string
	Close()
}

// Client talks to the completion endpoint
type Client struct {
	httpClient     Doer
	endpoint       string
	headers        map[string]string
	timeoutSeconds int
	proxy          string
	logger         *zap.Logger
	mu             sync.RWMutex
	closed         bool
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint sets the completion endpoint URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient replaces the default tls-client transport
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the request timeout in seconds. The limit includes
// reading the streamed body; zero disables it.
func WithTimeout(seconds int) ClientOption {
	return func(c *Client) {
		c.timeoutSeconds = seconds
	}
}

// WithProxy routes requests through the given proxy URL
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxy = proxyURL
	}
}

// WithHeader adds a header to every request
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint:       models.DefaultEndpoint,
		headers:        models.DefaultHeaders(),
		timeoutSeconds: 0,
		logger:         zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
			// tls-client falls back to 30s when no timeout is given, and the
			// limit covers the streamed body, so zero is passed through.
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
		}
		if client.proxy != "" {
			options = append(options, tls_client.WithProxyUrl(client.proxy))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the completion endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close marks the client closed; later sends fail
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Send posts msg as the only element of the messages array and returns the
// response body for streaming. The caller owns the returned body.
func (c *Client) Send(ctx context.Context, msg models.Message) (io.ReadCloser, error) {
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	payload, err := json.Marshal(models.MessagesRequest{Messages: []models.Message{msg}})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	c.logger.Debug("sending message",
		zap.String("endpoint", c.endpoint),
		zap.String("message_id", msg.ID),
		zap.Int("payload_bytes", len(payload)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return nil, apierrors.NewNetworkErrorWithEndpoint("send message", c.endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readErrorBody(resp.Body)
		c.logger.Warn("endpoint returned error status",
			zap.String("endpoint", c.endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, errorMessage(body, resp.Status), body)
	}

	// Null-body statuses carry no stream
	if resp.Body == nil || resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, apierrors.ErrNoStream
	}

	c.logger.Debug("stream opened", zap.Int("status", resp.StatusCode))
	return resp.Body, nil
}

// readErrorBody drains at most maxErrorBody bytes and closes body
func readErrorBody(body io.ReadCloser) string {
	if body == nil {
		return ""
	}
	defer func() { _ = body.Close() }()

	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return strings.TrimSpace(string(data))
}

// errorMessage picks a readable message out of a JSON error body, falling
// back to the HTTP status line.
func errorMessage(body, status string) string {
	if gjson.Valid(body) {
		for _, path := range []string{"error.message", "error", "message", "detail"} {
			if r := gjson.Get(body, path); r.Exists() && r.Type == gjson.String && r.String() != "" {
				return r.String()
			}
		}
	}
	if status != "" {
		return status
	}
	return "request failed"
}
