package mcp

import (
	"github.com/custodia-labs/voucherbill/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Voucher parses and normalises vouchers.
	Voucher driving.VoucherService

	// Invoice exposes the invoice register. Optional.
	Invoice driving.InvoiceService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Voucher == nil {
		return ErrMissingVoucherService
	}
	return nil
}
