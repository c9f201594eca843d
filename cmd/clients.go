package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arch-aerial/patrol-cli/internal/config"
)

var clientsDirFlag string

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List configured clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := clientsDirFlag
		if dir == "" {
			dir = cfg.ClientsDir
		}
		store := config.NewClientStore(dir)
		clients, err := store.Clients()
		if err != nil {
			return err
		}
		for _, client := range clients {
			settings, err := store.Settings(client)
			if err != nil {
				fmt.Printf("%-10s (no route archive)\n", client)
				continue
			}
			fmt.Printf("%-10s %s\n", client, settings.ArchivePath)
		}
		return nil
	},
}

func init() {
	clientsCmd.Flags().StringVar(&clientsDirFlag, "clients-dir", "", "override the configured clients directory")
	rootCmd.AddCommand(clientsCmd)
}
