package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	startKey  string
	startNote string
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <client>",
	Short: "Start a work session for a client",
	Long: `Start a new work session for the given client. The session stays open
until 'tally stop'.

The client key is resolved from --key when given, then from the roster
mapping, and otherwise by slugging the client name. Starting never closes
other sessions; overlapping sessions are allowed and billed independently.

Examples:
  tally start Acme
  tally start Acme Corp --note 'sprint planning'
  tally start Acme --key acme-billing`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		startSession(args)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringVar(&startKey, "key", "", "explicit client key, overriding the roster")
	startCmd.Flags().StringVar(&startNote, "note", "", "initial note for the session")
}

// startSession opens a new session for the named client
func startSession(args []string) {
	client := strings.TrimSpace(strings.Join(args, " "))
	if client == "" {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Client name cannot be empty")
		_, _ = fmt.Fprintln(deps.Stderr, "Usage: tally start <client>")
		deps.Exit(1)
		return
	}

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	e, err := services.Session.Start(context.Background(), client, startKey, startNote)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to start session")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Started session %d for %s (%s) at %s\n",
		e.ID, e.Client, e.ClientKey, e.StartISO)
}
