package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/rolodex"
	"github.com/spf13/cobra"
)

var (
	contactName  string
	contactNotes string
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage contacts",
}

var contactAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		ctx := context.Background()
		defer svc.Close(ctx)

		id, err := svc.AddContact(ctx, contactName, contactNotes)
		if err != nil {
			return fmt.Errorf("failed to add contact: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Contact %d added.\n", id)
		return nil
	},
}

var contactListCmd = &cobra.Command{
	Use:   "list [id...]",
	Short: "List contacts, optionally only the given ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		svc, err := openService(rolodex.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer svc.Close(context.Background())

		contacts, err := svc.GetContacts(ids...)
		if err != nil {
			return err
		}
		return renderContacts(cmd.OutOrStdout(), contacts)
	},
}

var contactFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find contacts whose name contains the given text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(rolodex.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer svc.Close(context.Background())

		return renderContacts(cmd.OutOrStdout(), svc.FindContacts(args[0]))
	},
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.AddCommand(contactAddCmd, contactListCmd, contactFindCmd)

	contactAddCmd.Flags().StringVar(&contactName, "name", "", "Contact name")
	contactAddCmd.Flags().StringVar(&contactNotes, "notes", "", "Notes about the contact")
	_ = contactAddCmd.MarkFlagRequired("name")
	_ = contactAddCmd.MarkFlagRequired("notes")

	contactCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
}
