package stoloto

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/404-t/lotobot-backend/internal/pkg/logger"
)

// GatewayError is the single failure kind surfaced by the gateway: either a
// transport-level failure (Err set, StatusCode 0) or a non-success upstream
// status. Retry policy belongs to the caller.
type GatewayError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stoloto request %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("stoloto request %s failed: status %d", e.URL, e.StatusCode)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Client serializes all outbound Stoloto calls behind a single rate limiter:
// successive request starts are separated by at least the configured
// interval, regardless of how many goroutines are dispatching concurrently.
// Limiter tokens are taken before the request is sent, so the floor applies
// to request starts, not completions.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	headers    map[string]string
	logger     logger.ILogger
	closeOnce  sync.Once
}

func NewClient(interval time.Duration, partnerToken, userAgent string, log logger.ILogger) *Client {
	if interval <= 0 {
		interval = time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		headers: map[string]string{
			"gosloto-partner": partnerToken,
			"User-Agent":      userAgent,
		},
		logger: log,
	}
}

// Do executes an HTTP request against the upstream and returns the raw body.
func (c *Client) Do(ctx context.Context, method, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &GatewayError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, &GatewayError{URL: url, Err: err}
	}
	for k, v := range c.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	c.logger.Debug("Stoloto", "Executing request", map[string]interface{}{"method": method, "url": url})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Stoloto", "Request error", map[string]interface{}{"url": url, "error": err.Error()})
		return nil, &GatewayError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Stoloto", "Upstream returned non-success status", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
		return nil, &GatewayError{URL: url, StatusCode: resp.StatusCode}
	}

	return body, nil
}

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, url)
}

// Close releases the underlying connection pool. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.httpClient.CloseIdleConnections()
	})
}
