package main

import (
	"fmt"

	"github.com/aretw0/rolodex"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rolodex",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rolodex version %s\n", rolodex.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
