// Package domain defines the core business entities for voucherbill.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - VoucherRecord: The structured result of parsing one voucher
//   - LineItem: One billable row on an invoice
//   - Invoice: A numbered invoice built from a voucher record
//   - Rules: Correction table and detector order used by the parser
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. Besides the standard library it
// only imports github.com/shopspring/decimal for monetary values. All other
// packages depend on domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, shopspring/decimal
//   - Cannot Import: Any internal/ package
package domain
