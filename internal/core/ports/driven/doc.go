// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Pulls plain text out of a voucher PDF
//   - RuleStore: Correction table, detector order and currencies
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - InvoiceStore: Invoice counter and register. Without it invoices cannot be numbered.
//   - InvoiceRenderer: Writes invoice documents. Without it only the register is updated.
//   - RegisterExporter: Spreadsheet export of the register.
//   - RecordValidator: Checks parsed records against the record schema.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
