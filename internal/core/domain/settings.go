package domain

const unknownDescription = "Unknown"

// PDFBackend selects how text is pulled out of voucher PDFs.
type PDFBackend string

// Available PDF text backends.
const (
	// PDFBackendAuto prefers pdftotext and falls back to the built-in reader.
	PDFBackendAuto PDFBackend = "auto"

	// PDFBackendPoppler shells out to pdftotext.
	PDFBackendPoppler PDFBackend = "pdftotext"

	// PDFBackendNative uses the pure Go reader.
	PDFBackendNative PDFBackend = "native"
)

// IsValid returns true if the backend is recognised.
func (b PDFBackend) IsValid() bool {
	switch b {
	case PDFBackendAuto, PDFBackendPoppler, PDFBackendNative:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b PDFBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b PDFBackend) Description() string {
	switch b {
	case PDFBackendAuto:
		return "Auto (pdftotext, then built-in reader)"
	case PDFBackendPoppler:
		return "pdftotext (poppler)"
	case PDFBackendNative:
		return "Built-in reader"
	default:
		return unknownDescription
	}
}

// PDFSettings holds text extraction configuration.
type PDFSettings struct {
	// Backend selects the extractor.
	Backend PDFBackend

	// AllPages extracts every page instead of only the first.
	AllPages bool
}

// DefaultRetentionDays is how long rendered invoices are kept by cleanup.
const DefaultRetentionDays = 7

// InvoiceSettings holds invoice numbering and output configuration.
type InvoiceSettings struct {
	// Floor is the counter value numbering starts above.
	Floor int

	// OutputDir is where rendered invoices are written.
	OutputDir string

	// RetentionDays is the age in days after which cleanup removes rendered
	// invoices. Zero keeps all.
	RetentionDays int
}

// WatchSettings holds inbox watcher configuration.
type WatchSettings struct {
	// RatePerSecond limits how many vouchers are parsed per second.
	RatePerSecond int
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	PDF     PDFSettings
	Invoice InvoiceSettings
	Watch   WatchSettings
	Issuer  Issuer
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		PDF: PDFSettings{
			Backend: PDFBackendAuto,
		},
		Invoice: InvoiceSettings{
			Floor:         DefaultInvoiceFloor,
			RetentionDays: DefaultRetentionDays,
		},
		Watch: WatchSettings{
			RatePerSecond: 2,
		},
	}
}
