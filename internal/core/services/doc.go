// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// VoucherService turns PDFs into records, InvoiceService numbers and
// renders invoices, and SettingsService reads and writes configuration.
package services
