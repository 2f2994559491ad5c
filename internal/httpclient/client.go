// Package httpclient provides a minimal HTTPS GET client bound to a single
// host. It classifies responses by status code, decodes JSON bodies and
// normalizes transport, status and parse failures into typed errors.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Guliveer/twitch-browser-go/internal/constants"
	"github.com/Guliveer/twitch-browser-go/internal/logger"
)

var hostPrefix = regexp.MustCompile(`(?i)^(https?://)?(www\.)?`)

// NormalizeHost strips an optional http(s):// scheme and an optional www.
// prefix, case-insensitively.
func NormalizeHost(host string) string {
	return hostPrefix.ReplaceAllString(strings.TrimSpace(host), "")
}

// Client issues GET requests against https://<host><path>.
// It is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	host        string
	log         *logger.Logger
	maxBodySize int64

	mu      sync.RWMutex
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the overall request timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMaxBodySize caps the number of response bytes read.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// New creates a Client bound to host. The host is normalized once here;
// headers are copied.
func New(host string, headers map[string]string, opts ...Option) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   constants.DefaultHTTPTimeout,
		},
		host:        NormalizeHost(host),
		log:         logger.Discard(),
		maxBodySize: constants.MaxResponseBodySize,
		headers:     make(map[string]string, len(headers)),
	}
	maps.Copy(c.headers, headers)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Host returns the normalized host.
func (c *Client) Host() string {
	return c.host
}

// Headers returns a copy of the configured headers.
func (c *Client) Headers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.headers)
}

// SetHeaders merges headers into the configured set. Existing keys not
// present in headers are kept.
func (c *Client) SetHeaders(headers map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.Copy(c.headers, headers)
}

// Get issues a GET to path. A 2xx body is decoded into T. A non-2xx body is
// decoded into E and returned as *StatusError[E]. A body that is not JSON
// yields ErrParse whatever the status; a failed round trip yields an
// *APIError describing the transport failure.
func Get[T, E any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T

	status, body, err := c.do(ctx, path)
	if err != nil {
		return zero, err
	}

	if isNumberBetween(status, 200, 299) {
		var out T
		if err := json.Unmarshal(body, &out); err != nil {
			return zero, parseError(err)
		}
		return out, nil
	}

	var errBody E
	if err := json.Unmarshal(body, &errBody); err != nil {
		return zero, parseError(err)
	}
	return zero, &StatusError[E]{StatusCode: status, Body: errBody}
}

func (c *Client) do(ctx context.Context, path string) (int, []byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	reqURL := "https://" + c.host + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request for %s: %w", path, err)
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range c.Headers() {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("HTTP request failed",
			"method", http.MethodGet,
			"host", c.host,
			"path", path,
			"error", err)
		return 0, nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return 0, nil, transportError(err)
	}

	c.log.Debug("HTTP request completed",
		"method", http.MethodGet,
		"host", c.host,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String())

	return resp.StatusCode, body, nil
}

// isNumberBetween reports whether min <= n <= max.
func isNumberBetween(n, min, max int) bool {
	return n >= min && n <= max
}
