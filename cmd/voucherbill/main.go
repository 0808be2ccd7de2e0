// Command voucherbill turns accommodation vouchers into invoices.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/voucherbill/internal/adapters/driven/config/file"
	"github.com/custodia-labs/voucherbill/internal/adapters/driven/export/xlsx"
	"github.com/custodia-labs/voucherbill/internal/adapters/driven/pdftext"
	"github.com/custodia-labs/voucherbill/internal/adapters/driven/render/pdf"
	"github.com/custodia-labs/voucherbill/internal/adapters/driven/schema"
	"github.com/custodia-labs/voucherbill/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/voucherbill/internal/adapters/driving/cli"
	"github.com/custodia-labs/voucherbill/internal/core/services"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters and services for a configuration directory.
func bootstrap(_ context.Context, configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config directory: %w", err)
		}
		configDir = dir
	}
	logger.Section("Bootstrap")
	logger.Debug("config directory: %s", configDir)

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	ruleStore, err := file.NewRuleStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	text, err := pdftext.New(settings.PDF.Backend)
	if err != nil {
		return nil, fmt.Errorf("pdf backend: %w", err)
	}
	logger.Debug("pdf backend: %s", text.Name())

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("record schema: %w", err)
	}

	voucherService := services.NewVoucherService(text, ruleStore,
		services.WithValidator(validator),
		services.WithAllPages(settings.PDF.AllPages),
	)

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("open invoice register: %w", err)
	}
	logger.Debug("invoice register: %s", store.Path())

	invoiceService := services.NewInvoiceService(services.InvoiceServiceConfig{
		Store:     store.InvoiceStore(),
		Renderer:  pdf.NewRenderer(),
		Exporter:  xlsx.NewExporter(),
		Settings:  settingsService,
		OutputDir: filepath.Join(configDir, "invoices"),
	})

	return &cli.Services{
		Voucher:  voucherService,
		Invoice:  invoiceService,
		Settings: settingsService,
		Rules:    ruleStore,
		Close:    store.Close,
	}, nil
}
