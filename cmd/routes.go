package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arch-aerial/patrol-cli/internal/config"
	"github.com/arch-aerial/patrol-cli/internal/route"
)

var (
	routesClient     string
	routesClientsDir string
	routesArchive    string
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the route segments in a client's archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive := routesArchive
		if archive == "" {
			clientsDir := routesClientsDir
			if clientsDir == "" {
				clientsDir = cfg.ClientsDir
			}
			settings, err := config.NewClientStore(clientsDir).Settings(routesClient)
			if err != nil {
				return err
			}
			archive = settings.ArchivePath
		}

		segments, err := route.Load(archive)
		if err != nil {
			return err
		}

		for _, seg := range segments {
			fmt.Printf("%-40s %4d vertices  (%s)\n", route.Sanitize(seg.Name), len(seg.Coords), seg.Name)
		}
		fmt.Printf("%d route segments\n", len(segments))
		return nil
	},
}

func init() {
	routesCmd.Flags().StringVar(&routesClient, "client", "", "client identifier token")
	routesCmd.Flags().StringVar(&routesClientsDir, "clients-dir", "", "override the configured clients directory")
	routesCmd.Flags().StringVar(&routesArchive, "archive", "", "route archive path, bypassing the client config store")
	rootCmd.AddCommand(routesCmd)
}
