package fetch

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ecotrace/carbon-cli/internal/ratelimit"
	"github.com/ecotrace/carbon-cli/pkg/websearch"
)

// SearchStrategy resolves the listing through a search engine and fetches
// the canonical result URL. Useful when the direct URL is blocked or has
// moved behind a redirect the site refuses to serve to bots.
type SearchStrategy struct {
	search    websearch.Client
	client    *http.Client
	limiter   *ratelimit.HostLimiter
	userAgent string
	maxBody   int64
}

// NewSearchStrategy creates the search-mediated fallback strategy.
func NewSearchStrategy(search websearch.Client, limiter *ratelimit.HostLimiter, userAgent string, maxBody int64) *SearchStrategy {
	return &SearchStrategy{
		search:    search,
		client:    newHTTPClient(),
		limiter:   limiter,
		userAgent: userAgent,
		maxBody:   maxBody,
	}
}

func (s *SearchStrategy) Name() string { return "search" }

// Fetch queries the search API for the listing, then fetches the best
// matching result. Search failures classify as network failures so the
// chain can back off and move on.
func (s *SearchStrategy) Fetch(ctx context.Context, targetURL string) Outcome {
	query, site := searchQuery(targetURL)
	if query == "" {
		return notFound(s.Name(), targetURL)
	}

	results, err := s.search.Search(ctx, query, websearch.WithSiteFilter(site))
	if err != nil {
		if ctx.Err() != nil {
			return cancelled(s.Name(), targetURL, ctx.Err())
		}
		return netFailure(s.Name(), targetURL, err)
	}

	resolved := pickListingURL(results, targetURL)
	if resolved == "" {
		zap.L().Debug("fetch: search found no listing url",
			zap.String("url", targetURL),
			zap.String("query", query),
		)
		return notFound(s.Name(), targetURL)
	}

	// Some search backends return the page content inline; use it and skip
	// the second round trip when it looks like a full page.
	for _, r := range results {
		if r.URL == resolved && len(r.Content) > 2000 {
			return document(s.Name(), resolved, r.Content)
		}
	}

	return fetchOnce(ctx, s.client, s.limiter, s.Name(), resolved, s.userAgent, s.maxBody)
}

var listingPathRe = regexp.MustCompile(`/(dp|gp/product|itm|item|p)/`)

// searchQuery derives a search query and site filter from the listing URL.
// The query is the product slug from the URL path plus any listing ID.
func searchQuery(rawURL string) (query, site string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", ""
	}
	site = strings.TrimPrefix(u.Host, "www.")

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	var parts []string
	for _, seg := range segments {
		seg = strings.ReplaceAll(seg, "-", " ")
		seg = strings.ReplaceAll(seg, "_", " ")
		// Skip structural path segments (dp, gp, product, item ids are kept).
		switch strings.ToLower(seg) {
		case "dp", "gp", "product", "itm", "item", "p", "":
			continue
		}
		parts = append(parts, seg)
	}
	return strings.TrimSpace(strings.Join(parts, " ")), site
}

// pickListingURL returns the first search result that looks like a product
// listing page, preferring results on the original host.
func pickListingURL(results []websearch.Result, original string) string {
	origHost := ""
	if u, err := url.Parse(original); err == nil {
		origHost = strings.TrimPrefix(u.Host, "www.")
	}

	var fallback string
	for _, r := range results {
		u, err := url.Parse(r.URL)
		if err != nil || u.Host == "" {
			continue
		}
		if !listingPathRe.MatchString(u.Path) {
			continue
		}
		if strings.TrimPrefix(u.Host, "www.") == origHost {
			return r.URL
		}
		if fallback == "" {
			fallback = r.URL
		}
	}
	return fallback
}
