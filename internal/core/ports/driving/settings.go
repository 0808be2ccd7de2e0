package driving

import "github.com/custodia-labs/voucherbill/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetPDFBackend updates the text extraction backend.
	SetPDFBackend(backend domain.PDFBackend) error

	// SetIssuer updates the invoice issuer details.
	SetIssuer(issuer domain.Issuer) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
