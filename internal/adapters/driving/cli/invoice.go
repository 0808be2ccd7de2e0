package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

var (
	invoiceNumber   string
	invoicePayment  string
	invoiceNoRender bool
	invoiceJSON     bool
	cleanupDays     int
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Generate and manage invoices",
	Long: `Commands for numbering, rendering and listing invoices.

Invoice numbers have the form INV-000600 and are allocated from a counter
kept in the invoice register.`,
}

var invoiceGenerateCmd = &cobra.Command{
	Use:   "generate <voucher.pdf|record.json>",
	Short: "Generate an invoice from a voucher or saved record",
	Long: `Generates an invoice from a voucher PDF, or from a record saved by
"parse" or "review" ("-" reads the record from stdin).

The next invoice number is allocated unless --number is given. The
invoice is rendered as a PDF in the configured output directory and
recorded in the register.`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoiceGenerate,
}

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices in the register",
	RunE:  runInvoiceList,
}

var invoiceNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next invoice number without allocating it",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceNext,
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show <number>",
	Short: "Show an invoice",
	Long:  `Shows an invoice by number. The INV- prefix may be omitted.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceShow,
}

var invoiceCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old rendered invoices",
	Long: `Deletes rendered invoice documents older than the retention period from
the output directory. The register itself is not changed.

The retention period defaults to the invoice.retention_days setting.`,
	Args: cobra.NoArgs,
	RunE: runInvoiceCleanup,
}

func init() {
	invoiceGenerateCmd.Flags().StringVar(&invoiceNumber, "number", "", "use this invoice number instead of the next one")
	invoiceGenerateCmd.Flags().StringVar(&invoicePayment, "payment", "", "payment received, overriding the record")
	invoiceGenerateCmd.Flags().BoolVar(&invoiceNoRender, "no-render", false, "record the invoice without rendering a PDF")
	invoiceListCmd.Flags().BoolVar(&invoiceJSON, "json", false, "output as JSON")
	invoiceShowCmd.Flags().BoolVar(&invoiceJSON, "json", false, "output as JSON")
	invoiceCleanupCmd.Flags().IntVar(&cleanupDays, "days", -1, "retention period in days (default from settings)")

	invoiceCmd.AddCommand(invoiceGenerateCmd)
	invoiceCmd.AddCommand(invoiceListCmd)
	invoiceCmd.AddCommand(invoiceNextCmd)
	invoiceCmd.AddCommand(invoiceShowCmd)
	invoiceCmd.AddCommand(invoiceCleanupCmd)
	rootCmd.AddCommand(invoiceCmd)
}

func runInvoiceGenerate(cmd *cobra.Command, args []string) error {
	if invoiceService == nil {
		return errInvoiceNotConfigured
	}

	rec, err := loadRecord(cmd, args[0])
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	inv, err := invoiceService.Generate(cmd.Context(), rec, domain.GenerateOptions{
		Number:          invoiceNumber,
		PaymentReceived: invoicePayment,
		Render:          !invoiceNoRender,
	})
	if err != nil {
		return fmt.Errorf("failed to generate invoice: %w", err)
	}

	cmd.Printf("Invoice %s created\n", inv.Number)
	cmd.Printf("  Total:       %s\n", domain.FormatRand(inv.Total))
	cmd.Printf("  Paid:        %s\n", domain.FormatRand(inv.PaymentReceived))
	cmd.Printf("  Balance due: %s\n", domain.FormatRand(inv.Outstanding()))
	if inv.FilePath != "" {
		cmd.Printf("  File:        %s\n", inv.FilePath)
	}
	return nil
}

// invoiceSummary is the JSON form of a register row.
type invoiceSummary struct {
	Number        string `json:"number"`
	IssuedAt      string `json:"issued_at"`
	VoucherNumber string `json:"voucher_number"`
	BillTo        string `json:"bill_to"`
	Total         string `json:"total"`
	Outstanding   string `json:"outstanding"`
	FilePath      string `json:"file_path,omitempty"`
}

func summarise(inv *domain.Invoice) invoiceSummary {
	return invoiceSummary{
		Number:        inv.Number,
		IssuedAt:      inv.IssuedAt.Format(time.RFC3339),
		VoucherNumber: inv.Record.VoucherNumber,
		BillTo:        inv.Record.BillingCompany,
		Total:         inv.Total.StringFixed(2),
		Outstanding:   inv.Outstanding().StringFixed(2),
		FilePath:      inv.FilePath,
	}
}

func runInvoiceList(cmd *cobra.Command, _ []string) error {
	if invoiceService == nil {
		return errInvoiceNotConfigured
	}

	invoices, err := invoiceService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list invoices: %w", err)
	}

	if invoiceJSON {
		rows := make([]invoiceSummary, len(invoices))
		for i := range invoices {
			rows[i] = summarise(&invoices[i])
		}
		return writeJSON(cmd, rows, true, false)
	}

	if len(invoices) == 0 {
		cmd.Println("No invoices found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tISSUED\tVOUCHER\tBILL TO\tTOTAL\tDUE")
	for i := range invoices {
		inv := &invoices[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.Number,
			inv.IssuedAt.Format("2006-01-02"),
			inv.Record.VoucherNumber,
			inv.Record.BillingCompany,
			domain.FormatRand(inv.Total),
			domain.FormatRand(inv.Outstanding()),
		)
	}
	return w.Flush()
}

func runInvoiceNext(cmd *cobra.Command, _ []string) error {
	if invoiceService == nil {
		return errInvoiceNotConfigured
	}

	number, err := invoiceService.PeekNumber(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read invoice counter: %w", err)
	}
	cmd.Println(number)
	return nil
}

func runInvoiceShow(cmd *cobra.Command, args []string) error {
	if invoiceService == nil {
		return errInvoiceNotConfigured
	}

	inv, err := invoiceService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoiceJSON {
		return writeJSON(cmd, struct {
			invoiceSummary
			PaymentReceived string               `json:"payment_received"`
			Record          domain.VoucherRecord `json:"record"`
		}{summarise(inv), inv.PaymentReceived.StringFixed(2), inv.Record}, true, false)
	}

	rec := &inv.Record
	cmd.Printf("Invoice %s\n", inv.Number)
	cmd.Printf("  Issued:      %s\n", inv.IssuedAt.Format("2006-01-02 15:04"))
	cmd.Printf("  Voucher:     %s\n", rec.VoucherNumber)
	cmd.Printf("  Guest:       %s\n", rec.PassengerNames)
	cmd.Printf("  Stay:        %s to %s (%s nights)\n", rec.CheckIn, rec.CheckOut, rec.LengthOfStay)
	cmd.Printf("  Bill to:     %s\n", rec.BillingCompany)
	cmd.Println()
	for _, item := range rec.LineItems {
		cmd.Printf("  %-40s %3d x %12s = %12s\n",
			item.Description, item.Qty, domain.FormatRand(item.UnitPrice), domain.FormatRand(item.Total))
	}
	cmd.Println()
	cmd.Printf("  Total:       %s\n", domain.FormatRand(inv.Total))
	cmd.Printf("  Paid:        %s\n", domain.FormatRand(inv.PaymentReceived))
	cmd.Printf("  Balance due: %s\n", domain.FormatRand(inv.Outstanding()))
	if inv.FilePath != "" {
		cmd.Printf("  File:        %s\n", inv.FilePath)
	}
	return nil
}

func runInvoiceCleanup(cmd *cobra.Command, _ []string) error {
	if invoiceService == nil {
		return errInvoiceNotConfigured
	}

	days := cleanupDays
	if days < 0 {
		days = domain.DefaultRetentionDays
		if settingsService != nil {
			settings, err := settingsService.Get()
			if err != nil {
				return fmt.Errorf("failed to get settings: %w", err)
			}
			days = settings.Invoice.RetentionDays
		}
	}
	if days == 0 {
		cmd.Println("Retention is 0 days; keeping all invoices.")
		return nil
	}

	removed, err := invoiceService.Cleanup(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	cmd.Printf("Removed %d invoice document(s) older than %d day(s).\n", removed, days)
	return nil
}
