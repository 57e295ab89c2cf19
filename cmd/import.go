package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from CSV",
	Long: `Import entries from a CSV file. Every imported row becomes a new entry;
ids in the file are ignored, so importing never overwrites existing rows.

The importer is tolerant: it accepts both the export column names and
spreadsheet-styled variants ('Client Key', 'Invoice'), skips rows without a
client name, and records unparseable durations as zero instead of rejecting
the file.

Example:
  tally import entries.csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		importEntries(args)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importEntries reads a CSV file into the database
func importEntries(args []string) {
	f, err := os.Open(args[0])
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to open import file")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the file exists and is readable: %s\n", args[0])
		deps.Exit(1)
		return
	}
	defer func() { _ = f.Close() }()

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	result, err := services.Interchange.ImportCSV(context.Background(), f)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to import entries")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that the file is valid CSV with a header row")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Imported %d %s",
		result.Imported, pluralize("entry", "entries", result.Imported))
	if result.Skipped > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, " (%d skipped without a client name)", result.Skipped)
	}
	_, _ = fmt.Fprintln(deps.Stdout)
}
