package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal UI: an entries browser with live search
and quick session control.

Keyboard shortcuts:
  j/k or arrows: Move through entries
  /: Search (substring across client, key, note and invoice)
  d: Toggle the selected entry's completed flag
  s: Stop the selected open session
  r: Refresh
  q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI initializes the service layer and runs the terminal UI
func runTUI() {
	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	if err := tui.Run(services); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Terminal UI exited with an error")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
	}
}
