package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocode_cache.json")

	c := LoadCache(path)
	assert.Zero(t, c.Len())

	c.Put("123 Main St, City, ST", Coordinate{Lat: 35.0, Lng: -97.0})
	require.NoError(t, c.Save())

	reloaded := LoadCache(path)
	require.Equal(t, 1, reloaded.Len())
	coord, ok := reloaded.Get("123 Main St, City, ST")
	require.True(t, ok)
	assert.Equal(t, 35.0, coord.Lat)
	assert.Equal(t, -97.0, coord.Lng)
}

func TestLoadCache_MissingFile(t *testing.T) {
	c := LoadCache(filepath.Join(t.TempDir(), "nope.json"))
	assert.Zero(t, c.Len())
}

func TestLoadCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocode_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := LoadCache(path)
	assert.Zero(t, c.Len())
}

func TestCache_ReadsExistingFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocode_cache.json")
	content := `{"123 Main St, City, ST": {"lat": 35.0, "lng": -97.0}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c := LoadCache(path)
	coord, ok := c.Get("123 Main St, City, ST")
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lat: 35.0, Lng: -97.0}, coord)
}

// A cached address must be served without touching the network.
func TestGeocode_CacheHitSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected API call for cached address")
	}))
	defer srv.Close()

	cache := LoadCache(filepath.Join(t.TempDir(), "cache.json"))
	cache.Put("123 Main St, City, ST", Coordinate{Lat: 35.0, Lng: -97.0})

	g := NewClient("test-key", WithBaseURL(srv.URL), WithCache(cache))
	result, err := g.Geocode(context.Background(), "123  Main  St, City, ST")

	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Equal(t, 35.0, result.Latitude)
	assert.Equal(t, -97.0, result.Longitude)
	assert.Equal(t, Stats{CacheHits: 1}, g.Stats())
}
