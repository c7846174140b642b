// Package staticmap fetches rendered map images from the Google Static Maps
// API: delivery overview maps, per-group route maps, and the small location
// maps embedded in delivery handouts.
package staticmap

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	_ "image/jpeg"
	_ "image/png"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/staticmap"

// MaxURLLen is the Static Maps API limit on request URL length. Requests
// beyond it must be split across multiple maps.
const MaxURLLen = 8192

// Client fetches static map images.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a Static Maps client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the full request URL for a map request, including the API key.
func (c *Client) URL(req Request) string {
	return req.encode(c.baseURL, c.apiKey)
}

// FetchPNG fetches the raw encoded image bytes for a request.
func (c *Client) FetchPNG(ctx context.Context, req Request) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(req), nil)
	if err != nil {
		return nil, eris.Wrap(err, "staticmap: build request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "staticmap: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("staticmap: api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "staticmap: read body")
	}
	return body, nil
}

// Fetch fetches and decodes the map image for a request.
func (c *Client) Fetch(ctx context.Context, req Request) (image.Image, error) {
	body, err := c.FetchPNG(ctx, req)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "staticmap: decode image")
	}
	return img, nil
}
