// Package tui provides the interactive review form for parsed vouchers.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/voucherbill/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Voucher parses the voucher under review. Required.
	Voucher driving.VoucherService

	// Invoice generates an invoice from the reviewed record. Optional;
	// when nil the generate action reports that invoicing is unavailable.
	Invoice driving.InvoiceService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(voucher driving.VoucherService, invoice driving.InvoiceService) *Ports {
	return &Ports{
		Voucher: voucher,
		Invoice: invoice,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Voucher == nil {
		return ErrMissingVoucherService
	}
	return nil
}
