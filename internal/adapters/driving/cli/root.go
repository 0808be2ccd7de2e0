// Package cli provides the voucherbill command-line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driving"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

var (
	version = "dev"

	verbose   bool
	configDir string

	voucherService  driving.VoucherService
	invoiceService  driving.InvoiceService
	settingsService driving.SettingsService
	ruleStore       driven.RuleStore

	bootstrap Bootstrap
	shutdown  func() error
)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

// Services holds the services the commands run against.
type Services struct {
	Voucher  driving.VoucherService
	Invoice  driving.InvoiceService
	Settings driving.SettingsService
	Rules    driven.RuleStore

	// Close releases resources held by the services. Optional.
	Close func() error
}

// Bootstrap builds services for a configuration directory. An empty
// directory selects the default location.
type Bootstrap func(ctx context.Context, configDir string) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "voucherbill",
	Short: "Turn accommodation vouchers into invoices",
	Long: `voucherbill reads travel-agency accommodation vouchers (PDF), recovers the
booking and billing fields, and produces numbered invoices.

Parsed records can be reviewed and corrected interactively, exported as a
spreadsheet register, or served to AI assistants over MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.voucherbill)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services before a command runs.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices installs services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		voucherService, invoiceService, settingsService, ruleStore, shutdown = nil, nil, nil, nil, nil
		return
	}
	voucherService = s.Voucher
	invoiceService = s.Invoice
	settingsService = s.Settings
	ruleStore = s.Rules
	shutdown = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	if shutdown != nil {
		if cerr := shutdown(); cerr != nil {
			logger.Warn("shutdown: %v", cerr)
		}
		shutdown = nil
	}
	return err
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}

	svcs, err := bootstrap(cmd.Context(), configDir)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	SetServices(svcs)
	return nil
}
