package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ecotrace/carbon-cli/internal/ratelimit"
)

// DirectStrategy fetches the listing URL as-is with a desktop user agent.
type DirectStrategy struct {
	client    *http.Client
	limiter   *ratelimit.HostLimiter
	userAgent string
	maxBody   int64
}

// NewDirectStrategy creates the highest-priority strategy.
func NewDirectStrategy(limiter *ratelimit.HostLimiter, userAgent string, maxBody int64) *DirectStrategy {
	return &DirectStrategy{
		client:    newHTTPClient(),
		limiter:   limiter,
		userAgent: userAgent,
		maxBody:   maxBody,
	}
}

func (s *DirectStrategy) Name() string { return "direct" }

// Fetch retrieves the URL through the shared host limiter.
func (s *DirectStrategy) Fetch(ctx context.Context, targetURL string) Outcome {
	return fetchOnce(ctx, s.client, s.limiter, s.Name(), targetURL, s.userAgent, s.maxBody)
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 20 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConnsPerHost: 4,
		},
	}
}

// fetchOnce performs one rate-limited GET and classifies the result into a
// tagged Outcome. It never returns a partial document: blocked or failed
// responses surface as their own outcome kinds.
func fetchOnce(ctx context.Context, client *http.Client, limiter *ratelimit.HostLimiter, strategy, targetURL, userAgent string, maxBody int64) Outcome {
	if err := limiter.WaitURL(ctx, targetURL); err != nil {
		return cancelled(strategy, targetURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return netFailure(strategy, targetURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return cancelled(strategy, targetURL, ctx.Err())
		}
		return netFailure(strategy, targetURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if maxBody <= 0 {
		maxBody = 2 * 1024 * 1024
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if ctx.Err() != nil {
			return cancelled(strategy, targetURL, ctx.Err())
		}
		return netFailure(strategy, targetURL, err)
	}

	if isBlocked, signal := DetectBlock(resp, body); isBlocked {
		return blocked(strategy, targetURL, signal)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return notFound(strategy, targetURL)
	case resp.StatusCode >= 500:
		return netFailure(strategy, targetURL, statusError(resp.StatusCode))
	case resp.StatusCode >= 400:
		return notFound(strategy, targetURL)
	}

	if len(body) < 200 {
		return netFailure(strategy, targetURL, errEmptyPage)
	}

	return document(strategy, targetURL, string(body))
}
