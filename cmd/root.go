package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/service"
)

// Listing flags shared by the root command and export
var (
	listClient string
	listKey    string
	listStatus string
	listText   string
	listSince  string
	listUntil  string
	listSort   string
	listLimit  int
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "A billable work session tracker",
	Long: `tally tracks billable work sessions per client and rounds them to
quarter-hour increments for invoicing.

Usage:
  tally start <client>                     Start a work session
  tally stop [client]                      Stop the newest open session
  tally                                    List entries (open work first)
  tally --client Acme --since 2025-01-01   Filter the listing
  tally add <client> --date 1/15/2025 --from '9 AM' --to '9:52 AM'
                                           Record a finished session directly
  tally done <id>                          Toggle an entry's completed flag
  tally invoice <id> <number>              Stamp an entry with an invoice number
  tally export entries.csv                 Export entries as CSV
  tally import entries.csv                 Import entries from CSV
  tally serve                              Serve the HTTP API
  tally tui                                Launch the interactive terminal UI

Filters: --client, --key, --status open|done, --q, --since/--until (YYYY-MM-DD)
Sorts:   --sort id_asc|start_asc|start_desc|open_first_newest`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listCommandEntries()
	},
}

func init() {
	rootCmd.Flags().StringVar(&listClient, "client", "", "filter by exact client name")
	rootCmd.Flags().StringVar(&listKey, "key", "", "filter by exact client key")
	rootCmd.Flags().StringVar(&listStatus, "status", "", "filter by workflow status: open or done")
	rootCmd.Flags().StringVar(&listText, "q", "", "substring search across client, key, note and invoice")
	rootCmd.Flags().StringVar(&listSince, "since", "", "earliest start date, YYYY-MM-DD inclusive")
	rootCmd.Flags().StringVar(&listUntil, "until", "", "latest start date, YYYY-MM-DD inclusive")
	rootCmd.Flags().StringVar(&listSort, "sort", "", "sort order: id_asc, start_asc, start_desc or open_first_newest")
	rootCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum entries to list (default from config)")
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"tally version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// listQueryParams assembles the shared listing flags into query parameters
func listQueryParams() service.QueryParams {
	return service.QueryParams{
		Client:    listClient,
		ClientKey: listKey,
		Status:    listStatus,
		Text:      listText,
		Since:     listSince,
		Until:     listUntil,
		Sort:      listSort,
		Limit:     listLimit,
	}
}

// listCommandEntries runs the listing query and renders the result
func listCommandEntries() {
	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	entries, err := services.Query.List(context.Background(), listQueryParams())
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to list entries")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	renderEntries(entries)
}
