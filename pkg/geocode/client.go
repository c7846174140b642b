// Package geocode resolves street addresses to coordinates with the Google
// Geocoding API, backed by a flat JSON file cache so repeat runs avoid
// redundant API calls.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client geocodes addresses.
type Client interface {
	// Geocode resolves a single raw address. Addresses the provider cannot
	// resolve return an error carrying the provider status; the caller is
	// expected to log it and drop the record rather than abort.
	Geocode(ctx context.Context, address string) (Result, error)

	// Stats reports cache hits versus live API calls so far.
	Stats() Stats
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude  float64
	Longitude float64
	Cached    bool // true when served from the cache without a live call
}

// Stats counts cache hits versus live API calls for a run.
type Stats struct {
	CacheHits int
	LiveCalls int
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) { g.httpClient = hc }
}

// WithCache attaches a persistent address cache. Cache hits bypass both the
// API and the rate limiter.
func WithCache(c *Cache) Option {
	return func(g *geocoder) { g.cache = c }
}

// WithRateLimit sets the minimum spacing between live API calls.
func WithRateLimit(interval time.Duration) Option {
	return func(g *geocoder) { g.limiter = rate.NewLimiter(rate.Every(interval), 1) }
}

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(g *geocoder) { g.baseURL = u }
}

// WithRetryBase sets the unit for the denial backoff schedule; the waits are
// 1x, 2x, 3x the base across attempts.
func WithRetryBase(d time.Duration) Option {
	return func(g *geocoder) { g.retryBase = d }
}

// WithMaxRetries sets the number of attempts for denied requests.
func WithMaxRetries(n int) Option {
	return func(g *geocoder) { g.maxRetries = n }
}

type geocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *Cache
	maxRetries int
	retryBase  time.Duration
	stats      Stats
}

// NewClient creates a geocoding client. The defaults match the batch-run
// etiquette for the Google endpoint: one call per 100ms, a 10s request
// timeout, and up to 3 attempts with 2s/4s/6s waits when the API denies the
// request.
func NewClient(apiKey string, opts ...Option) Client {
	g := &geocoder{
		apiKey:     apiKey,
		baseURL:    googleGeocodeURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		maxRetries: 3,
		retryBase:  2 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Stats returns the cache-hit and live-call counters for this client.
func (g *geocoder) Stats() Stats {
	return g.stats
}
