package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fed rate decision", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(searchResponse{Results: []WebResult{
			{Title: "Fed holds rates", Snippet: "The Federal Reserve held...", URL: "https://example.com/fed"},
			{Title: "Markets react", Snippet: "Stocks rose after...", URL: "https://example.com/markets"},
		}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithAPIKey("test-key"))
	results, err := c.Search(context.Background(), "fed rate decision")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Fed holds rates", results[0].Title)
	assert.Equal(t, "https://example.com/markets", results[1].URL)
}

func TestSearchCapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var results []WebResult
		for i := 0; i < 10; i++ {
			results = append(results, WebResult{Title: "t", URL: "u"})
		}
		json.NewEncoder(w).Encode(searchResponse{Results: results})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithMaxResults(3))
	results, err := c.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchPropagatesServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithTimeout(time.Second))
	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSearchRejectsBadEndpoint(t *testing.T) {
	c := NewHTTPClient("://not-a-url")
	_, err := c.Search(context.Background(), "anything")
	assert.Error(t, err)
}
