package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/rolodex"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a rolodex vault",
	Long: `Initialize a new Rolodex vault. The system directory is created, and with
versioning enabled the directory also becomes a git repository.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Path == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get CWD: %w", err)
			}
			cfg.Path = cwd
		}

		svc, err := openService(rolodex.WithAutoInit(true))
		if err != nil {
			return err
		}
		if err := svc.Close(context.Background()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Initialized Rolodex vault in", cfg.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
