// Package websearch wraps the external live-search collaborator. The
// service is opaque: free-text query in, ranked titled results out. Every
// consumer must cite the returned URLs.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/intelliwealth/advisor/pkg/httpclient"
)

// WebResult is one ranked result from the live-search service.
type WebResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Client is the live-search collaborator contract.
type Client interface {
	Search(ctx context.Context, query string) ([]WebResult, error)
}

// HTTPClient queries a JSON search endpoint: GET {base}?q=<query> returning
// {"results": [{"title", "snippet", "url"}, ...]}.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	maxResults int
	http       *httpclient.Client
}

type Option func(*HTTPClient)

func WithAPIKey(key string) Option {
	return func(c *HTTPClient) {
		c.apiKey = key
	}
}

func WithMaxResults(n int) Option {
	return func(c *HTTPClient) {
		c.maxResults = n
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.http = httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: timeout}),
			httpclient.WithMaxRetries(2),
		)
	}
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    baseURL,
		maxResults: 5,
		http:       httpclient.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Results []WebResult `json:"results"`
}

func (c *HTTPClient) Search(ctx context.Context, query string) ([]WebResult, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search service returned HTTP %d: %s", resp.StatusCode, body)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := parsed.Results
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return results, nil
}

var _ Client = (*HTTPClient)(nil)
