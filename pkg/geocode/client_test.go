package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okResponse(lat, lng float64) string {
	return fmt.Sprintf(`{"status":"OK","results":[{"geometry":{"location":{"lat":%f,"lng":%f}}}]}`, lat, lng)
}

func TestGeocode_Success(t *testing.T) {
	var gotAddress, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		gotKey = r.URL.Query().Get("key")
		fmt.Fprint(w, okResponse(35.4676, -97.5164))
	}))
	defer srv.Close()

	g := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(time.Microsecond))
	result, err := g.Geocode(context.Background(), "501 N Walker Ave, OKC, OK 73102")

	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.InDelta(t, 35.4676, result.Latitude, 1e-9)
	assert.InDelta(t, -97.5164, result.Longitude, 1e-9)
	assert.Equal(t, "test-key", gotKey)
	// The normalized address is what goes over the wire.
	assert.Equal(t, "501 N Walker Ave, Oklahoma City, OK 73102", gotAddress)
	assert.Equal(t, Stats{LiveCalls: 1}, g.Stats())
}

func TestGeocode_SuccessPopulatesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okResponse(35.0, -97.0))
	}))
	defer srv.Close()

	cache := LoadCache(t.TempDir() + "/cache.json")
	g := NewClient("k", WithBaseURL(srv.URL), WithCache(cache), WithRateLimit(time.Microsecond))

	_, err := g.Geocode(context.Background(), "123 Main St, City, ST")
	require.NoError(t, err)

	coord, ok := cache.Get("123 Main St, City, ST")
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lat: 35.0, Lng: -97.0}, coord)
}

func TestGeocode_ZeroResultsIsTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	}))
	defer srv.Close()

	g := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(time.Microsecond))
	_, err := g.Geocode(context.Background(), "nowhere at all")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
	assert.Equal(t, int32(1), calls.Load(), "ZERO_RESULTS must not be retried")
}

func TestGeocode_RequestDeniedRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			fmt.Fprint(w, `{"status":"REQUEST_DENIED","results":[],"error_message":"not yet"}`)
			return
		}
		fmt.Fprint(w, okResponse(35.0, -97.0))
	}))
	defer srv.Close()

	g := NewClient("k",
		WithBaseURL(srv.URL),
		WithRateLimit(time.Microsecond),
		WithRetryBase(time.Millisecond),
	)
	result, err := g.Geocode(context.Background(), "123 Main St")

	require.NoError(t, err)
	assert.Equal(t, 35.0, result.Latitude)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGeocode_RequestDeniedExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"status":"REQUEST_DENIED","results":[],"error_message":"bad key"}`)
	}))
	defer srv.Close()

	g := NewClient("k",
		WithBaseURL(srv.URL),
		WithRateLimit(time.Microsecond),
		WithRetryBase(time.Millisecond),
	)
	_, err := g.Geocode(context.Background(), "123 Main St")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
	assert.Contains(t, err.Error(), "bad key")
	assert.Equal(t, int32(3), calls.Load())
}

func TestGeocode_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(time.Microsecond))
	_, err := g.Geocode(context.Background(), "123 Main St")
	assert.Error(t, err)
}
