package cli

import "errors"

var (
	errVoucherNotConfigured  = errors.New("voucher service not configured")
	errInvoiceNotConfigured  = errors.New("invoice service not configured")
	errSettingsNotConfigured = errors.New("settings service not configured")
	errRulesNotConfigured    = errors.New("rule store not configured")
)
