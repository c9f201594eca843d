package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arch-aerial/patrol-cli/internal/config"
	"github.com/arch-aerial/patrol-cli/internal/engine"
	"github.com/arch-aerial/patrol-cli/internal/ledger"
)

var (
	classifyDir        string
	classifyClient     string
	classifyClientsDir string
	classifyArchive    string
	classifyNoLedger   bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify and rename the photos in a working directory",
	Long: "Backs up the directory's photos, matches each against the client's route corridors, " +
		"renames or duplicates matches, and writes one KML marker per assignment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive := classifyArchive
		if archive == "" {
			clientsDir := classifyClientsDir
			if clientsDir == "" {
				clientsDir = cfg.ClientsDir
			}
			settings, err := config.NewClientStore(clientsDir).Settings(classifyClient)
			if err != nil {
				return err
			}
			archive = settings.ArchivePath
		}

		opts := []engine.Option{
			engine.WithHooks(engine.Hooks{
				Progress: func(v float64) { fmt.Printf("\r%3.0f%%", v*100) },
				Status:   func(s string) { fmt.Printf("\n%s\n", s) },
			}),
		}

		if !classifyNoLedger {
			led, err := ledger.Open(classifyDir)
			if err != nil {
				return err
			}
			defer func() { _ = led.Close() }()
			if err := led.Migrate(cmd.Context()); err != nil {
				return err
			}
			opts = append(opts, engine.WithLedger(led))
		}

		summary, err := engine.New(classifyDir, classifyClient, archive, opts...).Run(cmd.Context())
		if err != nil {
			zap.L().Error("classification run failed", zap.Error(err))
			return eris.Wrap(err, "classify")
		}

		fmt.Printf("\n%d photos: %d tagged, %d unmatched, %d unlocatable, %d failed\n",
			summary.Photos, summary.Tagged, summary.Unmatched, summary.Unlocatable, summary.Failed)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyDir, "dir", ".", "working directory of photos")
	classifyCmd.Flags().StringVar(&classifyClient, "client", "", "client identifier token (required)")
	classifyCmd.Flags().StringVar(&classifyClientsDir, "clients-dir", "", "override the configured clients directory")
	classifyCmd.Flags().StringVar(&classifyArchive, "archive", "", "route archive path, bypassing the client config store")
	classifyCmd.Flags().BoolVar(&classifyNoLedger, "no-ledger", false, "skip the per-directory assignment ledger")
	_ = classifyCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(classifyCmd)
}
