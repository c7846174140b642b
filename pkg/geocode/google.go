package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// statusRequestDenied is the one Google status worth retrying: key
// propagation and quota hiccups show up as denials that clear within seconds.
const statusRequestDenied = "REQUEST_DENIED"

// googleGeocodeResponse is the JSON response from the Google Geocoding API.
type googleGeocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Geocode resolves a single address. The address is normalized first and
// checked against the cache; only live calls pass through the rate limiter.
// REQUEST_DENIED responses are retried with 1x/2x/3x backoff up to the
// configured attempt count. Any other non-OK status is a terminal error for
// this address only.
func (g *geocoder) Geocode(ctx context.Context, address string) (Result, error) {
	normalized := Normalize(address)

	if g.cache != nil {
		if coord, ok := g.cache.Get(normalized); ok {
			g.stats.CacheHits++
			return Result{Latitude: coord.Lat, Longitude: coord.Lng, Cached: true}, nil
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return Result{}, eris.Wrap(err, "geocode: rate limit")
	}
	g.stats.LiveCalls++

	var lastStatus, lastMessage string
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		resp, err := g.fetch(ctx, normalized)
		if err != nil {
			return Result{}, err
		}

		if resp.Status == "OK" && len(resp.Results) > 0 {
			loc := resp.Results[0].Geometry.Location
			if g.cache != nil {
				g.cache.Put(normalized, Coordinate{Lat: loc.Lat, Lng: loc.Lng})
			}
			return Result{Latitude: loc.Lat, Longitude: loc.Lng}, nil
		}

		lastStatus, lastMessage = resp.Status, resp.ErrorMessage
		if resp.Status != statusRequestDenied || attempt == g.maxRetries-1 {
			break
		}

		wait := time.Duration(attempt+1) * g.retryBase
		zap.L().Warn("geocode: request denied, backing off",
			zap.String("address", normalized),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
		)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, eris.Wrap(ctx.Err(), "geocode: canceled during backoff")
		case <-timer.C:
		}
	}

	if lastMessage != "" {
		return Result{}, eris.Errorf("geocode: could not geocode %q [status %s: %s]", normalized, lastStatus, lastMessage)
	}
	return Result{}, eris.Errorf("geocode: could not geocode %q [status %s]", normalized, lastStatus)
}

func (g *geocoder) fetch(ctx context.Context, address string) (*googleGeocodeResponse, error) {
	params := url.Values{
		"address": {address},
		"key":     {g.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	var decoded googleGeocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, eris.Wrap(err, "geocode: parse response")
	}
	return &decoded, nil
}
