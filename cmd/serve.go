package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tdic-outreach/mealroute/internal/cluster"
	"github.com/tdic-outreach/mealroute/internal/groups"
	"github.com/tdic-outreach/mealroute/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  "Serves run history and an on-demand clustering endpoint for volunteer-facing tooling.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st),
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(st *store.SQLiteStore) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
		runs, err := st.ListRuns(req.Context(), store.RunFilter{
			Command: req.URL.Query().Get("command"),
		})
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		writeJSON(w, http.StatusOK, runs)
	})

	r.Get("/groups", handleGroups)

	r.Post("/cluster", handleCluster)

	// Raw run artifacts (maps, PDFs, CSVs) for review in a browser.
	filesDir := http.Dir(cfg.Output.Dir)
	r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(filesDir)))

	return r
}

// handleGroups returns the current delivery groups as JSON, grouped by id.
func handleGroups(w http.ResponseWriter, req *http.Request) {
	path := filepath.Join(cfg.Output.Dir, "delivery_groups.csv")
	grouped, err := groups.ReadCSV(path)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no groups file; run distribute first"})
		return
	}

	type stop struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Address string  `json:"address"`
		Phone   string  `json:"phone"`
		Meals   string  `json:"meals"`
		Lat     float64 `json:"lat"`
		Lng     float64 `json:"lng"`
	}
	out := make(map[string][]stop)
	for _, g := range groups.ByGroup(grouped) {
		for _, d := range g.Deliveries {
			out[g.ID] = append(out[g.ID], stop{
				ID:      d.ID,
				Name:    d.Name(),
				Address: d.FullAddress(),
				Phone:   d.Phone,
				Meals:   d.Meals,
				Lat:     d.Latitude,
				Lng:     d.Longitude,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type clusterRequest struct {
	Strategy         string  `json:"strategy"`
	MaxGroupSize     int     `json:"max_group_size"`
	MaxDistanceMiles float64 `json:"max_distance_miles"`
	Deliverers       int     `json:"deliverers"`
	Points           []struct {
		ID       string  `json:"id"`
		Lat      float64 `json:"lat"`
		Lng      float64 `json:"lng"`
		Category string  `json:"category"`
	} `json:"points"`
}

type clusterResponse struct {
	Groups      int               `json:"groups"`
	Assignments map[string]string `json:"assignments"`
}

// handleCluster runs the clustering strategies on caller-supplied points,
// without touching the roster or geocoding paths.
func handleCluster(w http.ResponseWriter, req *http.Request) {
	var body clusterRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(body.Points) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "points are required"})
		return
	}

	strategy, err := cluster.ParseStrategy(body.Strategy)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	opts := cluster.Options{
		Strategy:         strategy,
		MaxGroupSize:     body.MaxGroupSize,
		MaxDistanceMiles: body.MaxDistanceMiles,
		Deliverers:       body.Deliverers,
	}
	if opts.MaxGroupSize < 1 {
		opts.MaxGroupSize = cfg.Cluster.MaxGroupSize
	}
	if opts.MaxDistanceMiles <= 0 {
		opts.MaxDistanceMiles = cfg.Cluster.MaxDistanceMiles
	}

	points := make([]cluster.Point, len(body.Points))
	for i, p := range body.Points {
		points[i] = cluster.Point{ID: p.ID, Lat: p.Lat, Lng: p.Lng, Category: p.Category}
	}

	assignment, err := cluster.Partition(points, opts)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	resp := clusterResponse{
		Groups:      assignment.Groups(),
		Assignments: make(map[string]string, len(points)),
	}
	for i, p := range points {
		id, err := cluster.GroupID(assignment[i])
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		resp.Assignments[p.ID] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
