package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/clients"
)

// clientsCmd represents the clients command
var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List clients and their metadata",
	Long: `List the clients recorded in the metadata table with their attributes.

The table is a free-form document: each client carries whatever attributes
have been set on it (rate, contact, tier, ...). The listing shows the union
of attribute columns across all clients.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listClients()
	},
}

// clientsSetCmd represents the clients set command
var clientsSetCmd = &cobra.Command{
	Use:   "set <name> <key=value>...",
	Short: "Set metadata attributes on a client",
	Long: `Set one or more metadata attributes on a client, creating the client when
it does not exist. Attributes not named are preserved.

Examples:
  tally clients set Acme rate=150 contact=pat
  tally clients set 'Globex Inc' tier=gold`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setClientAttributes(args)
	},
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsSetCmd)
}

// listClients renders the client metadata table
func listClients() {
	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	table := services.Clients.Load()
	if len(table) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No clients recorded")
		_, _ = fmt.Fprintln(deps.Stdout, "Hint: Add one with 'tally clients set <name> <key=value>'")
		return
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := table.Columns()
	for _, name := range names {
		_, _ = fmt.Fprintf(deps.Stdout, "%s\n", name)
		for _, col := range columns {
			if v, ok := table[name][col]; ok {
				_, _ = fmt.Fprintf(deps.Stdout, "  %s: %v\n", col, v)
			}
		}
	}
}

// setClientAttributes parses key=value arguments and merges them into a client
func setClientAttributes(args []string) {
	name := args[0]

	attrs := clients.Attributes{}
	for _, pair := range args[1:] {
		key, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(key) == "" {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid attribute '%s'\n", pair)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Attributes are key=value pairs, e.g. rate=150")
			deps.Exit(1)
			return
		}
		attrs[strings.TrimSpace(key)] = value
	}

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	merged, err := services.Clients.Upsert(name, attrs)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to save client")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Saved %s (%d %s)\n",
		name, len(merged), pluralize("attribute", "attributes", len(merged)))
}
