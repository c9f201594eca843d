package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arch-aerial/patrol-cli/internal/photo"
	"github.com/arch-aerial/patrol-cli/internal/tagger"
)

var inspectClient string

var inspectCmd = &cobra.Command{
	Use:   "inspect PHOTO",
	Short: "Print a photo's decoded GPS metadata and filename fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := photo.Read(args[0])

		fmt.Printf("photo:       %s\n", rec.Name)
		if rec.Location != nil {
			fmt.Printf("location:    %.6f, %.6f\n", rec.Location.Lat, rec.Location.Lon)
			fmt.Printf("maps:        https://maps.google.com/?q=%.6f,%.6f\n", rec.Location.Lat, rec.Location.Lon)
		} else {
			fmt.Println("location:    unlocatable")
		}
		if rec.CapturedAt != nil {
			fmt.Printf("captured at: %s\n", rec.CapturedAt.Format("2006-01-02 15:04:05"))
		}

		if inspectClient != "" {
			f := tagger.Parse(rec.Name, inspectClient)
			fmt.Printf("route id:    %s\n", f.RouteID)
			fmt.Printf("photo id:    %s\n", f.PhotoID)
			if f.Code != "" {
				fmt.Printf("code:        %s\n", f.Code)
			}
			if f.Status != "" {
				fmt.Printf("status:      %s\n", f.Status)
			}
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectClient, "client", "", "client token for filename field parsing")
	rootCmd.AddCommand(inspectCmd)
}
