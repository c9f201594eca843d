package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arch-aerial/patrol-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Pipeline patrol photo classifier",
	Long:  "Assigns geotagged patrol photos to the pipeline right-of-way they depict, renames them for report generation, and emits per-photo KML markers.",
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
