package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ecotrace/carbon-cli/internal/ratelimit"
)

// MobileStrategy fetches an alternate mobile rendering of the same listing.
// Mobile endpoints frequently sit behind lighter anti-bot rules and serve
// simpler markup.
type MobileStrategy struct {
	client    *http.Client
	limiter   *ratelimit.HostLimiter
	userAgent string
	maxBody   int64
}

// NewMobileStrategy creates the last-resort alternate-rendering strategy.
func NewMobileStrategy(limiter *ratelimit.HostLimiter, mobileUserAgent string, maxBody int64) *MobileStrategy {
	return &MobileStrategy{
		client:    newHTTPClient(),
		limiter:   limiter,
		userAgent: mobileUserAgent,
		maxBody:   maxBody,
	}
}

func (s *MobileStrategy) Name() string { return "mobile" }

// Fetch rewrites the host to its mobile variant and fetches with a mobile
// user agent. Hosts without a known mobile variant are fetched as-is; the
// user agent alone often changes the served markup.
func (s *MobileStrategy) Fetch(ctx context.Context, targetURL string) Outcome {
	return fetchOnce(ctx, s.client, s.limiter, s.Name(), mobileURL(targetURL), s.userAgent, s.maxBody)
}

// mobileURL rewrites www. hosts to their m. variant.
func mobileURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	if strings.HasPrefix(u.Host, "www.") {
		u.Host = "m." + strings.TrimPrefix(u.Host, "www.")
		return u.String()
	}
	return rawURL
}
