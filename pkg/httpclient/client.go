// Package httpclient wraps net/http with bounded retries for the external
// collaborators (live search, completion API). Retries apply only to
// transient status codes; request bodies are recreated via GetBody.
package httpclient

import (
	"fmt"
	"math"
	"net/http"
	"time"
)

type Client struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithMaxRetries(max int) Option {
	return func(c *Client) {
		c.maxRetries = max
	}
}

func WithBaseDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = delay
	}
}

func New(opts ...Option) *Client {
	client := &Client{
		client:     &http.Client{Timeout: 30 * time.Second},
		maxRetries: 2,
		baseDelay:  500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// RetryableError reports that the request kept failing after all retries.
type RetryableError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s (HTTP %d): %v", e.Message, e.StatusCode, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

func retryable(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// Do executes the request, retrying transient failures with exponential
// backoff. Non-retryable responses are returned to the caller as-is.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("failed to recreate request body for retry: %w", err)
				}
				req.Body = body
			}
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.baseDelay
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			lastStatus = 0
			continue
		}

		if !retryable(resp.StatusCode) {
			return resp, nil
		}

		lastStatus = resp.StatusCode
		lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
		resp.Body.Close()
	}

	return nil, &RetryableError{
		StatusCode: lastStatus,
		Message:    fmt.Sprintf("max HTTP retries (%d) exceeded", c.maxRetries),
		Err:        lastErr,
	}
}
