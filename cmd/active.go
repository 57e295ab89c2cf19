package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var activeKey string

// activeCmd represents the active command
var activeCmd = &cobra.Command{
	Use:   "active [client]",
	Short: "List open work sessions",
	Long: `List all open work sessions, newest first. With a client name (and
optionally --key) only that client's sessions are shown.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listActiveSessions(args)
	},
}

func init() {
	rootCmd.AddCommand(activeCmd)
	activeCmd.Flags().StringVar(&activeKey, "key", "", "filter by exact client key")
}

// listActiveSessions renders the open sessions
func listActiveSessions(args []string) {
	client := strings.TrimSpace(strings.Join(args, " "))

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	open, err := services.Session.Active(context.Background(), client, activeKey)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to list open sessions")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if len(open) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No open sessions")
		return
	}

	for _, e := range open {
		_, _ = fmt.Fprintf(deps.Stdout, "[%d] %s (%s) since %s\n",
			e.ID, e.Client, e.ClientKey, formatStart(e.StartISO))
	}
}
