package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arch-aerial/patrol-cli/internal/ledger"
)

var (
	ledgerDir   string
	ledgerLimit int
	ledgerRun   string
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show recorded runs and assignments for a working directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, err := ledger.Open(ledgerDir)
		if err != nil {
			return err
		}
		defer func() { _ = led.Close() }()
		if err := led.Migrate(cmd.Context()); err != nil {
			return err
		}

		if ledgerRun != "" {
			assignments, err := led.ListAssignments(cmd.Context(), ledgerRun)
			if err != nil {
				return err
			}
			for _, a := range assignments {
				fmt.Printf("%-50s %-20s %.6f, %.6f\n", a.FinalName, a.Route, a.Location.Lat, a.Location.Lon)
			}
			fmt.Printf("%d assignments\n", len(assignments))
			return nil
		}

		runs, err := led.ListRuns(cmd.Context(), ledgerLimit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			finished := "running"
			if r.FinishedAt != nil {
				finished = r.FinishedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%s  %-8s %s  %d photos: %d tagged, %d unmatched, %d unlocatable, %d failed\n",
				r.ID, r.Client, finished,
				r.Summary.Photos, r.Summary.Tagged, r.Summary.Unmatched,
				r.Summary.Unlocatable, r.Summary.Failed)
		}
		return nil
	},
}

func init() {
	ledgerCmd.Flags().StringVar(&ledgerDir, "dir", ".", "working directory holding the ledger")
	ledgerCmd.Flags().IntVar(&ledgerLimit, "limit", 20, "maximum runs to list")
	ledgerCmd.Flags().StringVar(&ledgerRun, "run", "", "list assignments for one run id")
	rootCmd.AddCommand(ledgerCmd)
}
