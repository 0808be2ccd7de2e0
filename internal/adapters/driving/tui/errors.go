package tui

import "errors"

// ErrMissingVoucherService is returned when the voucher service is not provided.
var ErrMissingVoucherService = errors.New("tui: voucher service is required")

// ErrMissingSource is returned when no voucher path is given.
var ErrMissingSource = errors.New("tui: voucher path is required")

// ErrMissingOutput is returned when no output path is given.
var ErrMissingOutput = errors.New("tui: output path is required")

// ErrInvoicingUnavailable is returned when generate is requested without
// an invoice service.
var ErrInvoicingUnavailable = errors.New("tui: invoicing is not configured")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
