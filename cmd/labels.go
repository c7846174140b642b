package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tdic-outreach/mealroute/internal/groups"
	"github.com/tdic-outreach/mealroute/internal/labels"
	"github.com/tdic-outreach/mealroute/internal/store"
)

var (
	labelsGroups string
	labelsOut    string
	labelsZoom   int
	labelsEvent  string
	labelsOrg    string
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Generate the printable delivery labels PDF",
	Long:  "Builds one handout page per delivery with recipient details, a location map, and Apple/Google Maps QR codes, in group order.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := requireMapsKey(); err != nil {
			return err
		}

		outDir := labelsOut
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		groupsPath := labelsGroups
		if groupsPath == "" {
			groupsPath = filepath.Join(outDir, "delivery_groups.csv")
		}

		grouped, err := groups.ReadCSV(groupsPath)
		if err != nil {
			return err
		}
		if len(grouped) == 0 {
			return eris.New("labels: groups file has no usable rows")
		}

		opts := labels.Options{
			OutputDir: outDir,
			Zoom:      cfg.Labels.Zoom,
			EventName: cfg.Labels.EventName,
			OrgName:   cfg.Labels.OrgName,
		}
		if labelsZoom > 0 {
			opts.Zoom = labelsZoom
		}
		if labelsEvent != "" {
			opts.EventName = labelsEvent
		}
		if labelsOrg != "" {
			opts.OrgName = labelsOrg
		}

		gen := labels.NewGenerator(newMapsClient(), opts)
		pdfPath, err := gen.Generate(ctx, grouped)
		if err != nil {
			return err
		}
		zap.L().Info("labels pdf written", zap.String("path", pdfPath))

		recordRun(ctx, store.Run{
			Command:    "labels",
			Input:      groupsPath,
			Deliveries: len(grouped),
			Groups:     len(groups.ByGroup(grouped)),
			Status:     store.RunStatusOK,
			Detail:     "version " + gen.Version(),
		})
		return nil
	},
}

func init() {
	labelsCmd.Flags().StringVarP(&labelsGroups, "groups", "g", "", "groups CSV from distribute (default <out>/delivery_groups.csv)")
	labelsCmd.Flags().StringVarP(&labelsOut, "out", "o", "", "output directory (default from config)")
	labelsCmd.Flags().IntVar(&labelsZoom, "zoom", 0, "location map zoom (default from config)")
	labelsCmd.Flags().StringVar(&labelsEvent, "event", "", "event name for the page header")
	labelsCmd.Flags().StringVar(&labelsOrg, "org", "", "organization name for the page header")
	rootCmd.AddCommand(labelsCmd)
}
