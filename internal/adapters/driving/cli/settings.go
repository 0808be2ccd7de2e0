package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

var (
	issuerFlags domain.Issuer

	invoiceFloor     int
	invoiceOutputDir string
	invoiceRetention int
	pdfAllPages      bool
	watchRateSetting int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure text extraction, invoice numbering and output, and
the issuer details printed on invoices.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsBackendCmd = &cobra.Command{
	Use:   "backend <auto|pdftotext|native>",
	Short: "Set the PDF text backend",
	Long: `Set how text is extracted from voucher PDFs.

Available backends:
  auto       - pdftotext when installed, otherwise the built-in reader
  pdftotext  - poppler's pdftotext (best layout fidelity)
  native     - built-in reader (no external tools)`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"auto", "pdftotext", "native"},
	RunE:      runSettingsBackend,
}

var settingsIssuerCmd = &cobra.Command{
	Use:   "issuer",
	Short: "Set the issuer details printed on invoices",
	Long: `Set the business details printed in the invoice header and payment
section. Flags that are not given keep their current value. A name is
required; without an issuer, invoices use the supplier details found on
the voucher.`,
	Args: cobra.NoArgs,
	RunE: runSettingsIssuer,
}

var settingsInvoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Set invoice numbering and output options",
	Args:  cobra.NoArgs,
	RunE:  runSettingsInvoice,
}

func init() {
	f := settingsIssuerCmd.Flags()
	f.StringVar(&issuerFlags.Name, "name", "", "business name")
	f.StringVar(&issuerFlags.Tagline, "tagline", "", "tagline under the name")
	f.StringVar(&issuerFlags.Address, "address", "", "postal address")
	f.StringVar(&issuerFlags.Phone, "phone", "", "phone number")
	f.StringVar(&issuerFlags.Email, "email", "", "email address")
	f.StringVar(&issuerFlags.BankName, "bank", "", "bank name")
	f.StringVar(&issuerFlags.AccountName, "account-name", "", "bank account name")
	f.StringVar(&issuerFlags.AccountNumber, "account-number", "", "bank account number")
	f.StringVar(&issuerFlags.BranchCode, "branch-code", "", "bank branch code")

	g := settingsInvoiceCmd.Flags()
	g.IntVar(&invoiceFloor, "floor", 0, "counter value numbering starts above")
	g.StringVar(&invoiceOutputDir, "output-dir", "", "directory for rendered invoices")
	g.IntVar(&invoiceRetention, "retention-days", 0, "days to keep rendered invoices (0 keeps all)")
	g.BoolVar(&pdfAllPages, "all-pages", false, "extract text from every voucher page")
	g.IntVar(&watchRateSetting, "watch-rate", 0, "vouchers parsed per second by watch")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	settingsCmd.AddCommand(settingsIssuerCmd)
	settingsCmd.AddCommand(settingsInvoiceCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[PDF]")
	cmd.Printf("  Backend: %s\n", settings.PDF.Backend.Description())
	cmd.Printf("  All pages: %s\n", yesNo(settings.PDF.AllPages))
	cmd.Println()

	cmd.Println("[Invoice]")
	cmd.Printf("  Number floor: %d (next starts at %s)\n",
		settings.Invoice.Floor, domain.FormatInvoiceNumber(settings.Invoice.Floor+1))
	outputDir := settings.Invoice.OutputDir
	if outputDir == "" {
		outputDir = "(default)"
	}
	cmd.Printf("  Output dir: %s\n", outputDir)
	if settings.Invoice.RetentionDays == 0 {
		cmd.Println("  Retention: keep all")
	} else {
		cmd.Printf("  Retention: %d days\n", settings.Invoice.RetentionDays)
	}
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Rate: %d per second\n", settings.Watch.RatePerSecond)
	cmd.Println()

	cmd.Println("[Issuer]")
	if !settings.Issuer.IsConfigured() {
		cmd.Println("  Status: not configured (voucher supplier details are used)")
		return nil
	}
	iss := settings.Issuer
	for _, row := range []struct{ label, value string }{
		{"Name", iss.Name},
		{"Tagline", iss.Tagline},
		{"Address", iss.Address},
		{"Phone", iss.Phone},
		{"Email", iss.Email},
		{"Bank", iss.BankName},
		{"Account name", iss.AccountName},
		{"Account number", iss.AccountNumber},
		{"Branch code", iss.BranchCode},
	} {
		if row.value != "" {
			cmd.Printf("  %s: %s\n", row.label, row.value)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func runSettingsBackend(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	backend := domain.PDFBackend(args[0])
	if err := settingsService.SetPDFBackend(backend); err != nil {
		return fmt.Errorf("failed to set backend: %w", err)
	}
	cmd.Printf("PDF backend set to %s\n", backend.Description())
	return nil
}

func runSettingsIssuer(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	iss := settings.Issuer
	flags := cmd.Flags()
	for _, f := range []struct {
		name string
		dst  *string
		src  string
	}{
		{"name", &iss.Name, issuerFlags.Name},
		{"tagline", &iss.Tagline, issuerFlags.Tagline},
		{"address", &iss.Address, issuerFlags.Address},
		{"phone", &iss.Phone, issuerFlags.Phone},
		{"email", &iss.Email, issuerFlags.Email},
		{"bank", &iss.BankName, issuerFlags.BankName},
		{"account-name", &iss.AccountName, issuerFlags.AccountName},
		{"account-number", &iss.AccountNumber, issuerFlags.AccountNumber},
		{"branch-code", &iss.BranchCode, issuerFlags.BranchCode},
	} {
		if flags.Changed(f.name) {
			*f.dst = f.src
		}
	}

	if err := settingsService.SetIssuer(iss); err != nil {
		return fmt.Errorf("failed to set issuer: %w", err)
	}
	cmd.Printf("Issuer set to %s\n", iss.Name)
	return nil
}

func runSettingsInvoice(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	flags := cmd.Flags()
	changed := false
	if flags.Changed("floor") {
		settings.Invoice.Floor = invoiceFloor
		changed = true
	}
	if flags.Changed("output-dir") {
		settings.Invoice.OutputDir = invoiceOutputDir
		changed = true
	}
	if flags.Changed("retention-days") {
		if invoiceRetention < 0 {
			return fmt.Errorf("%w: retention days must not be negative", domain.ErrInvalidInput)
		}
		settings.Invoice.RetentionDays = invoiceRetention
		changed = true
	}
	if flags.Changed("all-pages") {
		settings.PDF.AllPages = pdfAllPages
		changed = true
	}
	if flags.Changed("watch-rate") {
		if watchRateSetting <= 0 {
			return fmt.Errorf("%w: watch rate must be positive", domain.ErrInvalidInput)
		}
		settings.Watch.RatePerSecond = watchRateSetting
		changed = true
	}
	if !changed {
		return cmd.Help()
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings saved.")
	return nil
}
