package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve the JSON HTTP API for automation against the entry database.

The listen address comes from the config file (listen_addr, default
127.0.0.1:8080) and can be overridden with --addr. When api_token is set in
the config, requests must carry it as a bearer token; with no token the API
is open, which is only sensible on a loopback address.

Endpoints:
  POST   /api/sessions/start     Start a session
  POST   /api/sessions/stop      Stop the newest matching open session
  GET    /api/sessions/active    List open sessions
  GET    /api/entries            List entries (same filters as the CLI)
  POST   /api/entries            Record a finished session directly
  GET    /api/entries/:id        Fetch one entry
  PATCH  /api/entries/:id        Edit fields of an entry
  DELETE /api/entries/:id        Delete an entry
  GET    /api/clients            List client metadata
  PUT    /api/clients/:name      Merge attributes into a client
  GET    /api/export.csv         Export entries as CSV`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overriding the config")
}

// runServer starts the HTTP API and blocks until the listener fails
func runServer() {
	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	addr := services.Config.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(services, services.Config.APIToken)

	_, _ = fmt.Fprintf(deps.Stdout, "Serving API on http://%s\n", addr)
	if err := srv.Run(addr); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: HTTP server stopped")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the address is free: %s\n", addr)
		deps.Exit(1)
	}
}
