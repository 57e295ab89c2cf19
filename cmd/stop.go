package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/service"
)

var (
	stopKey  string
	stopNote string
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop [client]",
	Short: "Stop the newest open session",
	Long: `Stop the most recently started open session and record its duration,
rounded to the nearest quarter hour for billing.

Without arguments the newest open session of any client is stopped. With a
client name (and optionally --key) only that client's sessions are
considered. A --note is appended to the session's existing note.

Examples:
  tally stop
  tally stop Acme --note 'wrapped up review'`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stopSession(args)
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
	stopCmd.Flags().StringVar(&stopKey, "key", "", "only stop sessions with this client key")
	stopCmd.Flags().StringVar(&stopNote, "note", "", "note to append to the session")
}

// stopSession closes the newest matching open session
func stopSession(args []string) {
	client := strings.TrimSpace(strings.Join(args, " "))

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	e, err := services.Session.Stop(context.Background(), client, stopKey, stopNote)
	if errors.Is(err, service.ErrNoActiveSession) {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: No active session to stop")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: List open sessions with 'tally active'")
		deps.Exit(1)
		return
	}
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to stop session")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Stopped session %d for %s: %dm worked, %s billed (%s h)\n",
		e.ID, e.Client, e.Minutes, formatDuration(e.RoundedMinutes), e.RoundedHours)
}
