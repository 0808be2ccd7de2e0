package services

import (
	"fmt"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyPDFBackend        = "pdf.backend"
	keyPDFAllPages       = "pdf.all_pages"
	keyInvoiceFloor      = "invoice.floor"
	keyInvoiceOutputDir  = "invoice.output_dir"
	keyInvoiceRetention  = "invoice.retention_days"
	keyWatchRate         = "watch.rate_per_second"
	keyIssuerName        = "issuer.name"
	keyIssuerTagline     = "issuer.tagline"
	keyIssuerAddress     = "issuer.address"
	keyIssuerPhone       = "issuer.phone"
	keyIssuerEmail       = "issuer.email"
	keyIssuerBankName    = "issuer.bank_name"
	keyIssuerAccountName = "issuer.account_name"
	keyIssuerAccountNo   = "issuer.account_number"
	keyIssuerBranchCode  = "issuer.branch_code"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		PDF: domain.PDFSettings{
			Backend:  s.getBackend(defaults.PDF.Backend),
			AllPages: s.getBool(keyPDFAllPages, defaults.PDF.AllPages),
		},
		Invoice: domain.InvoiceSettings{
			Floor:         s.getInt(keyInvoiceFloor, defaults.Invoice.Floor),
			OutputDir:     s.getString(keyInvoiceOutputDir, defaults.Invoice.OutputDir),
			RetentionDays: s.getInt(keyInvoiceRetention, defaults.Invoice.RetentionDays),
		},
		Watch: domain.WatchSettings{
			RatePerSecond: s.getInt(keyWatchRate, defaults.Watch.RatePerSecond),
		},
		Issuer: domain.Issuer{
			Name:          s.configStore.GetString(keyIssuerName),
			Tagline:       s.configStore.GetString(keyIssuerTagline),
			Address:       s.configStore.GetString(keyIssuerAddress),
			Phone:         s.configStore.GetString(keyIssuerPhone),
			Email:         s.configStore.GetString(keyIssuerEmail),
			BankName:      s.configStore.GetString(keyIssuerBankName),
			AccountName:   s.configStore.GetString(keyIssuerAccountName),
			AccountNumber: s.configStore.GetString(keyIssuerAccountNo),
			BranchCode:    s.configStore.GetString(keyIssuerBranchCode),
		},
	}

	if settings.Invoice.Floor < 0 {
		settings.Invoice.Floor = defaults.Invoice.Floor
	}
	if settings.Invoice.RetentionDays < 0 {
		settings.Invoice.RetentionDays = defaults.Invoice.RetentionDays
	}
	if settings.Watch.RatePerSecond <= 0 {
		settings.Watch.RatePerSecond = defaults.Watch.RatePerSecond
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if !settings.PDF.Backend.IsValid() {
		return fmt.Errorf("%w: pdf backend %q", domain.ErrInvalidInput, settings.PDF.Backend)
	}
	if settings.Invoice.Floor < 0 {
		return fmt.Errorf("%w: invoice floor must not be negative", domain.ErrInvalidInput)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyPDFBackend, settings.PDF.Backend.String()},
		{keyPDFAllPages, settings.PDF.AllPages},
		{keyInvoiceFloor, settings.Invoice.Floor},
		{keyInvoiceOutputDir, settings.Invoice.OutputDir},
		{keyInvoiceRetention, settings.Invoice.RetentionDays},
		{keyWatchRate, settings.Watch.RatePerSecond},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return s.saveIssuer(settings.Issuer)
}

// SetPDFBackend updates the text extraction backend.
func (s *SettingsService) SetPDFBackend(backend domain.PDFBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: pdf backend %q", domain.ErrInvalidInput, backend)
	}
	if err := s.configStore.Set(keyPDFBackend, backend.String()); err != nil {
		return fmt.Errorf("save pdf backend: %w", err)
	}
	return nil
}

// SetIssuer updates the invoice issuer details.
func (s *SettingsService) SetIssuer(issuer domain.Issuer) error {
	if !issuer.IsConfigured() {
		return fmt.Errorf("%w: issuer name is required", domain.ErrInvalidInput)
	}
	return s.saveIssuer(issuer)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) saveIssuer(issuer domain.Issuer) error {
	values := map[string]string{
		keyIssuerName:        issuer.Name,
		keyIssuerTagline:     issuer.Tagline,
		keyIssuerAddress:     issuer.Address,
		keyIssuerPhone:       issuer.Phone,
		keyIssuerEmail:       issuer.Email,
		keyIssuerBankName:    issuer.BankName,
		keyIssuerAccountName: issuer.AccountName,
		keyIssuerAccountNo:   issuer.AccountNumber,
		keyIssuerBranchCode:  issuer.BranchCode,
	}
	for key, value := range values {
		if value == "" {
			if _, exists := s.configStore.Get(key); !exists {
				continue
			}
		}
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.PDFBackend) domain.PDFBackend {
	val := s.configStore.GetString(keyPDFBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.PDFBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
