package main

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/rolodex"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

var outputJSON bool

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func renderContacts(w io.Writer, contacts []rolodex.Contact) error {
	if outputJSON {
		return writeJSON(w, contacts)
	}
	table := newTable(w, "ID", "Name", "Notes")
	for _, c := range contacts {
		table.Append([]string{strconv.Itoa(c.ID), c.Name, oneLine(c.Notes)})
	}
	table.Render()
	return nil
}

func renderMeetings(w io.Writer, now time.Time, meetings []rolodex.Meeting) error {
	if outputJSON {
		return writeJSON(w, meetings)
	}
	table := newTable(w, "ID", "Date", "Kind", "Participants", "Notes")
	for _, m := range meetings {
		ids := lo.Map(m.Participants, func(id int, _ int) string { return strconv.Itoa(id) })
		table.Append([]string{
			strconv.Itoa(m.ID),
			m.Date.Format(time.RFC3339),
			string(rolodex.Classify(m.Date, now)),
			strings.Join(ids, ","),
			oneLine(m.NotesText()),
		})
	}
	table.Render()
	return nil
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, rolodex.NotesDelimiter, " | ")
}
