package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export entries as CSV",
	Long: `Export entries as CSV, to a file or to stdout when no file is given.

The same filter and sort flags as the listing apply, so an export is exactly
the rows a listing with those flags would show.

Examples:
  tally export entries.csv
  tally export --client Acme --since 2025-01-01 january.csv
  tally export --status done | less`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exportEntries(args)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&listClient, "client", "", "filter by exact client name")
	exportCmd.Flags().StringVar(&listKey, "key", "", "filter by exact client key")
	exportCmd.Flags().StringVar(&listStatus, "status", "", "filter by workflow status: open or done")
	exportCmd.Flags().StringVar(&listText, "q", "", "substring search across client, key, note and invoice")
	exportCmd.Flags().StringVar(&listSince, "since", "", "earliest start date, YYYY-MM-DD inclusive")
	exportCmd.Flags().StringVar(&listUntil, "until", "", "latest start date, YYYY-MM-DD inclusive")
	exportCmd.Flags().StringVar(&listSort, "sort", "", "sort order for the exported rows")
	exportCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum entries to export (default from config)")
}

// exportEntries writes matching entries as CSV
func exportEntries(args []string) {
	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	out := deps.Stdout
	toFile := len(args) == 1
	if toFile {
		f, err := os.Create(args[0])
		if err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to create export file")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the directory exists and is writable: %s\n", args[0])
			deps.Exit(1)
			return
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	n, err := services.Interchange.ExportCSV(context.Background(), out, listQueryParams())
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to export entries")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if toFile {
		_, _ = fmt.Fprintf(deps.Stdout, "Exported %d %s to %s\n",
			n, pluralize("entry", "entries", n), args[0])
	}
}
