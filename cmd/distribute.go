package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tdic-outreach/mealroute/internal/cluster"
	"github.com/tdic-outreach/mealroute/internal/groups"
	"github.com/tdic-outreach/mealroute/internal/model"
	"github.com/tdic-outreach/mealroute/internal/render"
	"github.com/tdic-outreach/mealroute/internal/roster"
	"github.com/tdic-outreach/mealroute/internal/store"
	"github.com/tdic-outreach/mealroute/pkg/geocode"
	"github.com/tdic-outreach/mealroute/pkg/staticmap"
)

var (
	distInput       string
	distOut         string
	distStrategy    string
	distDeliverers  int
	distMaxSize     int
	distMaxDistance float64
)

var distributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Geocode a roster and split it into delivery groups",
	Long:  "Reads the recipient roster, geocodes every address, clusters deliveries per language into deliverer groups, and writes the groups CSV plus an overview map.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if distInput == "" {
			return eris.New("distribute: --input is required")
		}
		if err := requireMapsKey(); err != nil {
			return err
		}

		opts, err := clusterOptions()
		if err != nil {
			return err
		}

		outDir := distOut
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return eris.Wrap(err, "distribute: create output dir")
		}

		deliveries, err := roster.Read(distInput, cfg.Columns)
		if err != nil {
			return err
		}
		zap.L().Info("roster loaded", zap.Int("deliveries", len(deliveries)))

		geocoded := geocodeAll(ctx, deliveries)
		if len(geocoded) == 0 {
			return eris.New("distribute: no deliveries could be geocoded")
		}

		grouped, err := groupDeliveries(geocoded, opts)
		if err != nil {
			return err
		}

		groupsPath := filepath.Join(outDir, "delivery_groups.csv")
		if err := groups.WriteCSV(groupsPath, grouped); err != nil {
			return err
		}

		if err := saveOverviewMap(ctx, outDir, geocoded, grouped); err != nil {
			zap.L().Warn("overview map failed", zap.Error(err))
		}

		groupCount := len(groups.ByGroup(grouped))
		zap.L().Info("distribution complete",
			zap.Int("deliveries", len(grouped)),
			zap.Int("groups", groupCount),
			zap.String("groups_csv", groupsPath))

		recordRun(ctx, store.Run{
			Command:    "distribute",
			Input:      distInput,
			Deliveries: len(grouped),
			Groups:     groupCount,
			Status:     store.RunStatusOK,
		})
		return nil
	},
}

func init() {
	distributeCmd.Flags().StringVarP(&distInput, "input", "i", "", "roster file (csv or xlsx)")
	distributeCmd.Flags().StringVarP(&distOut, "out", "o", "", "output directory (default from config)")
	distributeCmd.Flags().StringVar(&distStrategy, "strategy", "", "clustering strategy: greedy or kmeans (default from config)")
	distributeCmd.Flags().IntVar(&distDeliverers, "deliverers", 0, "number of groups for kmeans")
	distributeCmd.Flags().IntVar(&distMaxSize, "max-group-size", 0, "greedy: max deliveries per group (default from config)")
	distributeCmd.Flags().Float64Var(&distMaxDistance, "max-distance", 0, "greedy: max miles between any two stops in a group (default from config)")
	rootCmd.AddCommand(distributeCmd)
}

// clusterOptions merges flags over config and validates the combination.
func clusterOptions() (cluster.Options, error) {
	name := distStrategy
	if name == "" {
		name = cfg.Cluster.Strategy
	}
	strategy, err := cluster.ParseStrategy(name)
	if err != nil {
		return cluster.Options{}, err
	}

	opts := cluster.Options{
		Strategy:         strategy,
		MaxGroupSize:     cfg.Cluster.MaxGroupSize,
		MaxDistanceMiles: cfg.Cluster.MaxDistanceMiles,
		Deliverers:       cfg.Cluster.Deliverers,
	}
	if distMaxSize > 0 {
		opts.MaxGroupSize = distMaxSize
	}
	if distMaxDistance > 0 {
		opts.MaxDistanceMiles = distMaxDistance
	}
	if distDeliverers > 0 {
		opts.Deliverers = distDeliverers
	}

	if strategy == cluster.StrategyKMeans && opts.Deliverers < 1 {
		return cluster.Options{}, eris.New("distribute: kmeans needs --deliverers >= 1")
	}
	if strategy == cluster.StrategyGreedy && opts.MaxGroupSize < 1 {
		return cluster.Options{}, eris.New("distribute: max group size must be >= 1")
	}
	return opts, nil
}

// geocodeAll resolves every roster address, dropping records the provider
// cannot resolve. The cache is saved even when some lookups fail so partial
// progress carries to the next run.
func geocodeAll(ctx context.Context, deliveries []model.Delivery) []model.Delivery {
	cache := geocode.LoadCache(cfg.Geocode.CachePath)
	client := newGeocoder(cache)

	out := make([]model.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		res, err := client.Geocode(ctx, d.FullAddress())
		if err != nil {
			zap.L().Warn("geocode failed, dropping delivery",
				zap.String("id", d.ID),
				zap.String("address", d.FullAddress()),
				zap.Error(err))
			continue
		}
		d.Latitude = res.Latitude
		d.Longitude = res.Longitude
		out = append(out, d)
	}

	if err := cache.Save(); err != nil {
		zap.L().Warn("could not save geocode cache", zap.Error(err))
	}

	stats := client.Stats()
	zap.L().Info("geocoding complete",
		zap.Int("resolved", len(out)),
		zap.Int("dropped", len(deliveries)-len(out)),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("live_calls", stats.LiveCalls))
	return out
}

// groupDeliveries clusters per language and attaches letter group ids.
func groupDeliveries(deliveries []model.Delivery, opts cluster.Options) ([]model.GroupedDelivery, error) {
	points := make([]cluster.Point, len(deliveries))
	for i, d := range deliveries {
		points[i] = cluster.Point{
			ID:       d.ID,
			Lat:      d.Latitude,
			Lng:      d.Longitude,
			Category: d.Language,
		}
	}

	assignment, err := cluster.Partition(points, opts)
	if err != nil {
		return nil, err
	}

	grouped := make([]model.GroupedDelivery, len(deliveries))
	for i, d := range deliveries {
		id, err := cluster.GroupID(assignment[i])
		if err != nil {
			return nil, err
		}
		grouped[i] = model.GroupedDelivery{Group: id, Delivery: d}
	}
	return grouped, nil
}

func saveOverviewMap(ctx context.Context, outDir string, deliveries []model.Delivery, grouped []model.GroupedDelivery) error {
	assignment := make(cluster.Assignment, len(grouped))
	for i, g := range grouped {
		idx, err := cluster.ParseGroupID(g.Group)
		if err != nil {
			return err
		}
		assignment[i] = idx
	}

	maps := newMapsClient()
	img, err := maps.Fetch(ctx, render.Overview(deliveries, assignment))
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, "overview_map.png")
	return staticmap.SavePNG(path, staticmap.ResizeLetter(img))
}
