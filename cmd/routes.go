package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tdic-outreach/mealroute/internal/groups"
	"github.com/tdic-outreach/mealroute/internal/render"
	"github.com/tdic-outreach/mealroute/internal/store"
	"github.com/tdic-outreach/mealroute/pkg/staticmap"
)

var (
	routesGroups string
	routesOut    string
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Render route maps from a groups CSV",
	Long:  "Draws every delivery group as a colored route on a printable map, splitting across multiple maps when a single request would exceed the Static Maps URL limit.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := requireMapsKey(); err != nil {
			return err
		}

		outDir := routesOut
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		groupsPath := routesGroups
		if groupsPath == "" {
			groupsPath = filepath.Join(outDir, "delivery_groups.csv")
		}

		grouped, err := groups.ReadCSV(groupsPath)
		if err != nil {
			return err
		}
		if len(grouped) == 0 {
			return eris.New("routes: groups file has no usable rows")
		}
		byGroup := groups.ByGroup(grouped)

		maps := newMapsClient()
		parts := render.Routes(byGroup, func(req staticmap.Request) int {
			return len(maps.URL(req))
		})

		for _, part := range parts {
			img, err := maps.Fetch(ctx, part.Request)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, "route_map"+part.Suffix+".png")
			if err := staticmap.SavePNG(path, staticmap.ResizeLetter(img)); err != nil {
				return err
			}
			zap.L().Info("route map written", zap.String("path", path))
		}

		recordRun(ctx, store.Run{
			Command:    "routes",
			Input:      groupsPath,
			Deliveries: len(grouped),
			Groups:     len(byGroup),
			Status:     store.RunStatusOK,
		})
		return nil
	},
}

func init() {
	routesCmd.Flags().StringVarP(&routesGroups, "groups", "g", "", "groups CSV from distribute (default <out>/delivery_groups.csv)")
	routesCmd.Flags().StringVarP(&routesOut, "out", "o", "", "output directory (default from config)")
	rootCmd.AddCommand(routesCmd)
}
