package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/rolodex"
	"github.com/aretw0/rolodex/pkg/adapters/ics"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all meetings as an iCalendar file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(rolodex.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer svc.Close(context.Background())

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" && exportOut != "-" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}

		exporter := ics.Exporter{
			Contacts: svc.GetContacts,
			Clock:    rolodex.ClockFunc(svc.Now),
		}
		meetings := svc.Snapshot().Meetings
		if err := exporter.Export(w, meetings); err != nil {
			return fmt.Errorf("failed to export meetings: %w", err)
		}
		if exportOut != "" && exportOut != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d meetings to %s\n", len(meetings), exportOut)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
}
