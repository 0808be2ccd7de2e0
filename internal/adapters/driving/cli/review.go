package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui"
	"github.com/custodia-labs/voucherbill/internal/adapters/driving/watch"
)

var reviewOutput string

var reviewCmd = &cobra.Command{
	Use:   "review <voucher.pdf|record.json>",
	Short: "Review and correct a parsed voucher",
	Long: `Opens an interactive form pre-filled with the fields recovered from a
voucher. Saving writes the edited record as JSON; the record can then be
passed to "invoice generate".

A voucher.pdf is saved to voucher.voucher.json by default. A saved record
is edited in place unless --output is given.

Controls:
  tab/↓, shift+tab/↑  Move between fields
  ctrl+s              Save the record
  ctrl+g              Generate an invoice
  ctrl+r              Discard edits
  f1                  Toggle help
  esc, ctrl+c         Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewOutput, "output", "o", "", "where to save the edited record")
	rootCmd.AddCommand(reviewCmd)
}

// reviewOutputPath picks where the edited record is saved.
func reviewOutputPath(source, output string) string {
	if output != "" {
		return output
	}
	if isPDF(source) {
		return watch.OutputPath(source)
	}
	return source
}

func runReview(cmd *cobra.Command, args []string) (err error) {
	// Restore the terminal with a readable trace if the UI panics.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if voucherService == nil {
		return errVoucherNotConfigured
	}

	source := args[0]
	ports := tui.NewPorts(voucherService, invoiceService)
	app, err := tui.NewApp(ports, source, reviewOutputPath(source, reviewOutput))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if app.Saved() {
		cmd.Printf("Record saved to %s\n", reviewOutputPath(source, reviewOutput))
	}
	if inv := app.Invoice(); inv != nil {
		cmd.Printf("Invoice %s created\n", inv.Number)
	}
	return nil
}
