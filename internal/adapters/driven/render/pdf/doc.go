// Package pdf renders invoices as A4 PDF documents using gofpdf.
//
// The layout follows a fixed order: issuer header, invoice number and
// date, bill-to and voucher details, the line item table, totals and
// the payment section with bank details.
package pdf
