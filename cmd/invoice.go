package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/storage"
)

// invoiceCmd represents the invoice command
var invoiceCmd = &cobra.Command{
	Use:   "invoice <id> [number]",
	Short: "Stamp an entry with an invoice number",
	Long: `Stamp an entry with an invoice number. Omitting the number clears an
existing stamp.

Examples:
  tally invoice 12 INV-2025-003
  tally invoice 12`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		stampInvoice(args)
	},
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
}

// stampInvoice sets or clears an entry's invoice number
func stampInvoice(args []string) {
	id, ok := parseEntryID(args[0])
	if !ok {
		return
	}

	number := ""
	if len(args) == 2 {
		number = args[1]
	}

	services := openServices()
	if services == nil {
		return
	}
	defer func() { _ = services.Close() }()

	e, err := services.Entry.SetInvoice(context.Background(), id, number)
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

	if e.InvoiceNumber == "" {
		_, _ = fmt.Fprintf(deps.Stdout, "Cleared invoice number on entry %d\n", e.ID)
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "Entry %d invoiced as %s\n", e.ID, e.InvoiceNumber)
	}
}
