package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tdic-outreach/mealroute/internal/store"
	"github.com/tdic-outreach/mealroute/pkg/geocode"
	"github.com/tdic-outreach/mealroute/pkg/staticmap"
)

// initStore opens the run history database and applies migrations.
func initStore(ctx context.Context) (*store.SQLiteStore, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// recordRun logs the invocation to run history. Failures are warnings: a
// broken history database should never fail the actual work.
func recordRun(ctx context.Context, run store.Run) {
	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("run history unavailable", zap.Error(err))
		return
	}
	defer st.Close() //nolint:errcheck

	if _, err := st.RecordRun(ctx, run); err != nil {
		zap.L().Warn("could not record run", zap.Error(err))
	}
}

// requireMapsKey fails fast before a command that needs the Google Maps API.
func requireMapsKey() error {
	if cfg.Maps.Key == "" {
		return eris.New("maps: api key not configured (set maps.key or MEALROUTE_MAPS_KEY)")
	}
	return nil
}

func newGeocoder(cache *geocode.Cache) geocode.Client {
	return geocode.NewClient(cfg.Maps.Key,
		geocode.WithCache(cache),
		geocode.WithRateLimit(time.Duration(cfg.Geocode.RateLimitMS)*time.Millisecond),
		geocode.WithMaxRetries(cfg.Geocode.MaxRetries),
		geocode.WithRetryBase(time.Duration(cfg.Geocode.RetryBaseSec)*time.Second),
	)
}

func newMapsClient() *staticmap.Client {
	return staticmap.NewClient(cfg.Maps.Key)
}
