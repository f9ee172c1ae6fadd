package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/rolodex"
	"github.com/spf13/cobra"
)

var (
	meetingWith    []int
	meetingAt      string
	meetingNotes   string
	meetingContact int
)

// dateLayouts are the accepted --at formats, tried in order. Layouts without a
// zone are read in the local time zone.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want RFC3339 or YYYY-MM-DD[ HH:MM])", v)
}

var meetingCmd = &cobra.Command{
	Use:   "meeting",
	Short: "Manage meetings",
}

var meetingScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule a future meeting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(meetingAt)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		ctx := context.Background()
		defer svc.Close(ctx)

		id, err := svc.AddFutureMeeting(ctx, meetingWith, date)
		if err != nil {
			return fmt.Errorf("failed to schedule meeting: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Meeting %d scheduled.\n", id)
		return nil
	},
}

var meetingLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a meeting that already took place",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(meetingAt)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		ctx := context.Background()
		defer svc.Close(ctx)

		id, err := svc.AddPastMeeting(ctx, meetingWith, date, meetingNotes)
		if err != nil {
			return fmt.Errorf("failed to record meeting: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Meeting %d recorded.\n", id)
		return nil
	},
}

var meetingNoteCmd = &cobra.Command{
	Use:   "note <id>",
	Short: "Append notes to a past meeting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		ctx := context.Background()
		defer svc.Close(ctx)

		if err := svc.AddMeetingNotes(ctx, id, meetingNotes); err != nil {
			return fmt.Errorf("failed to add notes: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Notes added to meeting %d.\n", id)
		return nil
	},
}

var meetingGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a meeting of either kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		svc, err := openService(rolodex.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer svc.Close(context.Background())

		m, ok := svc.GetMeeting(id)
		if !ok {
			return fmt.Errorf("meeting %d not found", id)
		}
		return renderMeetings(cmd.OutOrStdout(), svc.Now(), []rolodex.Meeting{m})
	},
}

// listCmd builds a per-contact listing command over one of the service queries.
func listCmd(use, short string, query func(*rolodex.Service, *rolodex.Contact) ([]rolodex.Meeting, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(rolodex.WithReadOnly(true))
			if err != nil {
				return err
			}
			defer svc.Close(context.Background())

			contacts, err := svc.GetContacts(meetingContact)
			if err != nil {
				return err
			}
			meetings, err := query(svc, &contacts[0])
			if err != nil {
				return err
			}
			return renderMeetings(cmd.OutOrStdout(), svc.Now(), meetings)
		},
	}
	cmd.Flags().IntVar(&meetingContact, "contact", 0, "Contact id")
	_ = cmd.MarkFlagRequired("contact")
	return cmd
}

var meetingFutureCmd = listCmd("future", "List future meetings with a contact, soonest first",
	(*rolodex.Service).GetFutureMeetingList)

var meetingPastCmd = listCmd("past", "List past meetings with a contact, oldest first",
	(*rolodex.Service).GetPastMeetingListFor)

var meetingOnCmd = &cobra.Command{
	Use:   "on <date>",
	Short: "List the meetings held on a calendar day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDate(args[0])
		if err != nil {
			return err
		}
		svc, err := openService(rolodex.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer svc.Close(context.Background())

		meetings, err := svc.GetMeetingListOn(day)
		if err != nil {
			return err
		}
		return renderMeetings(cmd.OutOrStdout(), svc.Now(), meetings)
	},
}

func init() {
	rootCmd.AddCommand(meetingCmd)
	meetingCmd.AddCommand(meetingScheduleCmd, meetingLogCmd, meetingNoteCmd,
		meetingGetCmd, meetingFutureCmd, meetingPastCmd, meetingOnCmd)

	for _, cmd := range []*cobra.Command{meetingScheduleCmd, meetingLogCmd} {
		cmd.Flags().IntSliceVar(&meetingWith, "with", nil, "Participant contact ids")
		cmd.Flags().StringVar(&meetingAt, "at", "", "Meeting date (RFC3339 or YYYY-MM-DD[ HH:MM])")
		_ = cmd.MarkFlagRequired("with")
		_ = cmd.MarkFlagRequired("at")
	}
	meetingLogCmd.Flags().StringVar(&meetingNotes, "notes", "", "What was discussed")
	meetingNoteCmd.Flags().StringVar(&meetingNotes, "notes", "", "Notes to append")
	_ = meetingLogCmd.MarkFlagRequired("notes")
	_ = meetingNoteCmd.MarkFlagRequired("notes")

	meetingCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
}
