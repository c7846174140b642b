package geocode

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Coordinate is a cached geocoding result.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Cache is a flat JSON file mapping normalized addresses to coordinates. It
// is loaded once at startup, updated in memory on every successful live
// geocode, and written back wholesale at the end of the run. Writes are
// last-writer-wins; concurrent runs against the same file can lose entries.
type Cache struct {
	path    string
	entries map[string]Coordinate
}

// LoadCache reads the cache file at path. A missing or unreadable file is not
// an error: it is logged as a warning and an empty cache is returned, so a
// damaged cache never aborts a run.
func LoadCache(path string) *Cache {
	c := &Cache{path: path, entries: make(map[string]Coordinate)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("geocode: could not read cache file", zap.String("path", path), zap.Error(err))
		}
		return c
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		zap.L().Warn("geocode: could not parse cache file, starting empty",
			zap.String("path", path), zap.Error(err))
		c.entries = make(map[string]Coordinate)
	}
	return c
}

// Get returns the cached coordinate for a normalized address.
func (c *Cache) Get(normalized string) (Coordinate, bool) {
	coord, ok := c.entries[normalized]
	return coord, ok
}

// Put stores a coordinate for a normalized address.
func (c *Cache) Put(normalized string, coord Coordinate) {
	c.entries[normalized] = coord
}

// Len returns the number of cached addresses.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save writes the cache back to its file. Callers treat failures as
// warnings, not fatal errors.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "geocode: marshal cache")
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return eris.Wrap(err, "geocode: write cache file")
	}
	return nil
}
