// Package mcp provides an MCP (Model Context Protocol) server adapter for
// voucherbill. It lets AI assistants parse vouchers and read the invoice
// register.
package mcp

import "errors"

// ErrMissingVoucherService is returned when the voucher service is not provided.
var ErrMissingVoucherService = errors.New("mcp: voucher service is required")
