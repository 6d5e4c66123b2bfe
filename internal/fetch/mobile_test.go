package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMobileURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.amazon.com/dp/B01N5IYGQH", "https://m.amazon.com/dp/B01N5IYGQH"},
		{"https://shop.example.com/item/1", "https://shop.example.com/item/1"},
		{"https://example.com/p/2", "https://example.com/p/2"},
		{"not a url at all", "not a url at all"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mobileURL(tt.in), tt.in)
	}
}

func TestMobileStrategy_Fetch_UsesMobileUserAgent(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	s := NewMobileStrategy(testLimiter(), "mobile-agent", 1<<20)
	out := s.Fetch(context.Background(), srv.URL)

	assert.Equal(t, OutcomeDocument, out.Kind)
	assert.Equal(t, "mobile-agent", gotAgent)
	assert.Equal(t, "mobile", out.Strategy)
}
