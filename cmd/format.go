package cmd

import (
	"fmt"
	"strings"

	"tally/internal/entry"
	"tally/internal/service"
	"tally/internal/timeutil"
)

// formatDuration formats minutes as a human-readable string
func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// formatStart renders an entry's start timestamp for list output. Unparseable
// timestamps are shown raw rather than hidden.
func formatStart(iso string) string {
	ts, err := timeutil.ParseISO(iso)
	if err != nil {
		return iso
	}
	return ts.Format("2006-01-02 15:04")
}

// statusMarker renders the workflow and session state of an entry.
// "live" means the session is still running; otherwise open/done reflects
// the billing flag.
func statusMarker(e entry.Entry) string {
	if e.IsOpen() {
		return "live"
	}
	if e.IsDone() {
		return "done"
	}
	return "open"
}

// firstNoteLine returns the first line of a note, truncated for list output
func firstNoteLine(note string) string {
	if i := strings.IndexByte(note, '\n'); i >= 0 {
		note = note[:i]
	}
	if len(note) > 40 {
		note = note[:37] + "..."
	}
	return note
}

// renderEntries writes a fixed-width listing of entries with a total line
func renderEntries(entries []entry.Entry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No entries found")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "%5s  %-16s  %-20s  %7s  %5s  %-4s  %s\n",
		"ID", "START", "CLIENT", "BILLED", "HOURS", "ST", "NOTE")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 78))

	for _, e := range entries {
		client := e.Client
		if len(client) > 20 {
			client = client[:17] + "..."
		}
		_, _ = fmt.Fprintf(deps.Stdout, "%5d  %-16s  %-20s  %7s  %5s  %-4s  %s\n",
			e.ID,
			formatStart(e.StartISO),
			client,
			formatDuration(e.RoundedMinutes),
			e.RoundedHours,
			statusMarker(e),
			firstNoteLine(e.Note))
	}

	total := service.TotalRoundedMinutes(entries)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 78))
	_, _ = fmt.Fprintf(deps.Stdout, "Total billed: %s (%d %s)\n",
		formatDuration(total), len(entries), pluralize("entry", "entries", len(entries)))
}

// renderEntry writes a full single-entry view
func renderEntry(e *entry.Entry) {
	_, _ = fmt.Fprintf(deps.Stdout, "Entry %d\n", e.ID)
	_, _ = fmt.Fprintf(deps.Stdout, "  Client:   %s (%s)\n", e.Client, e.ClientKey)
	_, _ = fmt.Fprintf(deps.Stdout, "  Start:    %s\n", e.StartISO)
	if e.IsOpen() {
		_, _ = fmt.Fprintln(deps.Stdout, "  End:      (still running)")
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "  End:      %s\n", e.EndISO)
		_, _ = fmt.Fprintf(deps.Stdout, "  Duration: %dm raw, %dm billed (%s h)\n",
			e.Minutes, e.RoundedMinutes, e.RoundedHours)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "  Status:   %s\n", statusMarker(*e))
	if e.InvoiceNumber != "" {
		_, _ = fmt.Fprintf(deps.Stdout, "  Invoice:  %s\n", e.InvoiceNumber)
	}
	if e.Note != "" {
		_, _ = fmt.Fprintf(deps.Stdout, "  Note:     %s\n", strings.ReplaceAll(e.Note, "\n", "\n            "))
	}
}

// pluralize returns the singular or plural form of a word based on count
func pluralize(singular, plural string, count int) string {
	if count == 1 {
		return singular
	}
	return plural
}
