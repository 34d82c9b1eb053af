package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/commonsbots/geograph-sync/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "geograph-sync",
	Short: "Reconcile Commons geolocation templates with the Geograph database",
	Long:  "Reads location and attribution data for Geograph-sourced images from a Geograph database snapshot and updates the corresponding Wikimedia Commons file pages.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
