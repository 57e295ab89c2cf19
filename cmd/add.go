package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/service"
)

var (
	addDate    string
	addFrom    string
	addTo      string
	addKey     string
	addNote    string
	addInvoice string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <client>",
	Short: "Record a finished session directly",
	Long: `Record a completed work session without going through start/stop.

The date uses mm/dd/yyyy and the clock times accept flexible shapes:
'4:30 PM', '4 PM', '16:30', '1630' or '16'. An end time at or before the
start time means the session ran past midnight.

Examples:
  tally add Acme --date 1/15/2025 --from '9 AM' --to '9:52 AM'
  tally add Acme --date 1/15/2025 --from '11 PM' --to '1 AM' --note 'release night'`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		addEntry(args)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addDate, "date", "", "session date, mm/dd/yyyy (required)")
	addCmd.Flags().StringVar(&addFrom, "from", "", "start clock time (required)")
	addCmd.Flags().StringVar(&addTo, "to", "", "end clock time (required)")
	addCmd.Flags().StringVar(&addKey, "key", "", "explicit client key, overriding the roster")
	addCmd.Flags().StringVar(&addNote, "note", "", "note for the entry")
	addCmd.Flags().StringVar(&addInvoice, "invoice", "", "invoice number for the entry")
	_ = addCmd.MarkFlagRequired("date")
	_ = addCmd.MarkFlagRequired("from")
	_ = addCmd.MarkFlagRequired("to")
}

// addEntry records a manual entry
func addEntry(args []string) {
	client := strings.TrimSpace(strings.Join(args, " "))

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	e, err := services.Entry.AddManual(context.Background(), service.ManualParams{
		Client:     client,
		ClientKey:  addKey,
		Date:       addDate,
		StartClock: addFrom,
		EndClock:   addTo,
		Note:       addNote,
		Invoice:    addInvoice,
	})
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to add entry")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use --date 1/15/2025 --from '9 AM' --to '9:52 AM'")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Added entry %d for %s: %dm worked, %s billed (%s h)\n",
		e.ID, e.Client, e.Minutes, formatDuration(e.RoundedMinutes), e.RoundedHours)
}
