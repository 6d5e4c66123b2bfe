// Package geocode resolves place names (product origins, shipping
// destinations) to coordinates. A built-in country/region centroid table
// answers most lookups locally; an optional remote provider covers the
// rest. An unmatched place is a result, not an error.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Result holds the geocoding output for a place name.
type Result struct {
	Latitude  float64
	Longitude float64
	Source    string // "table" or "remote"
	Matched   bool
}

// Client resolves place names to coordinates.
type Client interface {
	Geocode(ctx context.Context, place string) (*Result, error)
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithRemoteURL enables a Nominatim-compatible remote provider as a
// fallback for places missing from the built-in table.
func WithRemoteURL(baseURL string) Option {
	return func(g *geocoder) {
		g.remoteURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client for remote lookups.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for remote lookups.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type geocoder struct {
	httpClient *http.Client
	remoteURL  string
	limiter    *rate.Limiter
}

// NewClient creates a geocoding Client.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(1, 1), // public Nominatim allows 1 req/s
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode resolves a place, trying the built-in table first, then the
// remote provider if configured. No match from any source returns
// Matched=false with a nil error.
func (g *geocoder) Geocode(ctx context.Context, place string) (*Result, error) {
	if lat, lon, ok := Lookup(place); ok {
		return &Result{Latitude: lat, Longitude: lon, Source: "table", Matched: true}, nil
	}

	if g.remoteURL != "" {
		r, err := g.geocodeRemote(ctx, place)
		if err == nil && r.Matched {
			return r, nil
		}
	}

	return &Result{Matched: false}, nil
}

type nominatimRow struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *geocoder) geocodeRemote(ctx context.Context, place string) (*Result, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := strings.TrimRight(g.remoteURL, "/") + "/search?format=json&limit=1&q=" + url.QueryEscape(place)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: create request")
	}
	req.Header.Set("User-Agent", "carbon-cli/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: remote lookup")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: remote status %d", resp.StatusCode)
	}

	var rows []nominatimRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, eris.Wrap(err, "geocode: unmarshal response")
	}
	if len(rows) == 0 {
		return &Result{Matched: false}, nil
	}

	var r Result
	if _, err := parseCoord(rows[0].Lat, &r.Latitude); err != nil {
		return nil, err
	}
	if _, err := parseCoord(rows[0].Lon, &r.Longitude); err != nil {
		return nil, err
	}
	r.Source = "remote"
	r.Matched = true
	return &r, nil
}

func parseCoord(s string, out *float64) (bool, error) {
	var v float64
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return false, eris.Wrapf(err, "geocode: bad coordinate %q", s)
	}
	*out = v
	return true, nil
}
