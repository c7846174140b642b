package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tdic-outreach/mealroute/internal/config"
	"github.com/tdic-outreach/mealroute/internal/roster"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml",
	Long:  "Writes the default configuration to config.yaml so the column layout, clustering bounds, and API key can be edited in one place.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		const path = "config.yaml"

		if !initForce {
			if _, err := os.Stat(path); err == nil {
				return eris.Errorf("init: %s already exists (use --force to overwrite)", path)
			}
		}

		starter := config.Config{
			Maps:    config.MapsConfig{Key: ""},
			Geocode: cfg.Geocode,
			Cluster: cfg.Cluster,
			Labels:  cfg.Labels,
			Columns: roster.DefaultColumns(),
			Output:  cfg.Output,
			Store:   cfg.Store,
			Server:  cfg.Server,
			Log:     cfg.Log,
		}

		data, err := yaml.Marshal(starter)
		if err != nil {
			return eris.Wrap(err, "init: marshal config")
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return eris.Wrap(err, "init: write config")
		}

		zap.L().Info("config written", zap.String("path", path))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config.yaml")
	rootCmd.AddCommand(initCmd)
}
