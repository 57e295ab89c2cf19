package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/storage"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry permanently",
	Long: `Delete an entry permanently. Deletion is physical and immediate; there is
no undo. The command asks for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleteEntry(args)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without confirmation")
}

// deleteEntry removes an entry after confirmation
func deleteEntry(args []string) {
	id, ok := parseEntryID(args[0])
	if !ok {
		return
	}

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	ctx := context.Background()

	e, err := services.Entry.Get(ctx, id)
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

	if !deleteYes {
		_, _ = fmt.Fprintf(deps.Stdout, "Delete entry %d (%s, %s billed)? [y/N] ",
			e.ID, e.Client, formatDuration(e.RoundedMinutes))

		answer, _ := bufio.NewReader(deps.Stdin).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			_, _ = fmt.Fprintln(deps.Stdout, "Cancelled")
			return
		}
	}

	if err := services.Entry.Delete(ctx, id); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to delete entry")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Deleted entry %d\n", id)
}
