package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Path, "whey")
		assert.Equal(t, "amazon.com", r.URL.Query().Get("site"))

		_ = json.NewEncoder(w).Encode(searchResponse{
			Code: 200,
			Data: []Result{
				{Title: "MUTANT ISO Surge", URL: "https://www.amazon.com/dp/B01N5IYGQH", Content: "page content"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("key123", WithBaseURL(srv.URL))
	results, err := c.Search(context.Background(), "mutant whey", WithSiteFilter("amazon.com"))

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://www.amazon.com/dp/B01N5IYGQH", results[0].URL)
}

func TestSearch_NoResultsStatusIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no results", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	results, err := c.Search(context.Background(), "xyzzy")

	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "anything")

	assert.Error(t, err)
}
