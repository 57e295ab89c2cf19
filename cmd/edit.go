package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/storage"
)

var (
	editClient    string
	editKey       string
	editStart     string
	editEnd       string
	editNote      string
	editCompleted int
	editInvoice   string
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit fields of an existing entry",
	Long: `Edit fields of an existing entry. Only the flags you pass are changed.

Changing --start or --end recomputes the entry's duration from the new
timestamps. When a changed timestamp does not parse as ISO-8601 the
recorded duration is kept rather than zeroed.

Examples:
  tally edit 12 --note 'corrected scope'
  tally edit 12 --end 2025-01-15T10:30:00-06:00
  tally edit 12 --client 'Acme Corp' --key acme-billing`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		editEntry(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editClient, "client", "", "new client name")
	editCmd.Flags().StringVar(&editKey, "key", "", "new client key")
	editCmd.Flags().StringVar(&editStart, "start", "", "new start timestamp, ISO-8601 with offset")
	editCmd.Flags().StringVar(&editEnd, "end", "", "new end timestamp, ISO-8601 with offset; empty reopens the session")
	editCmd.Flags().StringVar(&editNote, "note", "", "replacement note text")
	editCmd.Flags().IntVar(&editCompleted, "completed", 0, "completed flag, 0 or 1")
	editCmd.Flags().StringVar(&editInvoice, "invoice", "", "new invoice number")
}

// editEntry applies the changed flags to an entry
func editEntry(cmd *cobra.Command, args []string) {
	id, ok := parseEntryID(args[0])
	if !ok {
		return
	}

	changes := map[string]interface{}{}
	if cmd.Flags().Changed("client") {
		changes["client"] = editClient
	}
	if cmd.Flags().Changed("key") {
		changes["client_key"] = editKey
	}
	if cmd.Flags().Changed("start") {
		changes["start_iso"] = editStart
	}
	if cmd.Flags().Changed("end") {
		changes["end_iso"] = editEnd
	}
	if cmd.Flags().Changed("note") {
		changes["note"] = editNote
	}
	if cmd.Flags().Changed("completed") {
		changes["completed"] = editCompleted
	}
	if cmd.Flags().Changed("invoice") {
		changes["invoice_number"] = editInvoice
	}

	if len(changes) == 0 {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: At least one field flag is required")
		_, _ = fmt.Fprintln(deps.Stderr, "Usage: tally edit <id> [--client ...] [--key ...] [--start ...] [--end ...] [--note ...] [--completed 0|1] [--invoice ...]")
		deps.Exit(1)
		return
	}

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	e, err := services.Entry.Patch(context.Background(), id, changes)
	if errors.Is(err, storage.ErrNotFound) {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: No entry with id %d\n", id)
		deps.Exit(1)
		return
	}
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to edit entry")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Updated entry %d\n", e.ID)
	renderEntry(e)
}
