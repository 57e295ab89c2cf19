package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/storage"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle an entry's completed flag",
	Long: `Toggle the billing workflow flag on an entry. The flag marks whether the
work has been billed; it is independent of whether the session is still
running.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		toggleDone(args)
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

// toggleDone flips the completed flag on an entry
func toggleDone(args []string) {
	id, ok := parseEntryID(args[0])
	if !ok {
		return
	}

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	e, err := services.Entry.ToggleCompleted(context.Background(), id)
	if errors.Is(err, storage.ErrNotFound) {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: No entry with id %d\n", id)
		deps.Exit(1)
		return
	}
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to update entry")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if e.IsDone() {
		_, _ = fmt.Fprintf(deps.Stdout, "Entry %d marked done\n", e.ID)
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "Entry %d reopened\n", e.ID)
	}
}
