package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <register.xlsx>",
	Short: "Export the invoice register as a spreadsheet",
	Long: `Writes every invoice in the register to an Excel workbook with an
Invoices sheet and a Line Items sheet. Use "-" to write to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	if invoiceService == nil {
		return errInvoiceNotConfigured
	}

	path := args[0]
	if path == "-" {
		return invoiceService.Export(cmd.Context(), cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := invoiceService.Export(cmd.Context(), f); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	cmd.Printf("Register written to %s\n", path)
	return nil
}
