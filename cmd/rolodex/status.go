package main

import (
	"context"

	"github.com/aretw0/rolodex"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vault counters as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(rolodex.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer svc.Close(context.Background())

		return writeJSON(cmd.OutOrStdout(), svc.State())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
