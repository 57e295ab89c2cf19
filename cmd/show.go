package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tally/internal/storage"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one entry in full",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showEntry(args)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// parseEntryID parses an entry id argument, reporting failure itself.
// The second return is false after Exit has been called.
func parseEntryID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid entry id '%s'. The id must be a number\n", arg)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: List entries with 'tally' to see ids")
		deps.Exit(1)
		return 0, false
	}
	return id, true
}

// showEntry renders a single entry by id
func showEntry(args []string) {
	id, ok := parseEntryID(args[0])
	if !ok {
		return
	}

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	e, err := services.Entry.Get(context.Background(), id)
	if errors.Is(err, storage.ErrNotFound) {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: No entry with id %d\n", id)
		deps.Exit(1)
		return
	}
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read entry")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	renderEntry(e)
}
