// Package xlsx exports the invoice register as an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

// Verify interface compliance.
var _ driven.RegisterExporter = (*Exporter)(nil)

// Sheet names in the exported workbook.
const (
	InvoiceSheet  = "Invoices"
	LineItemSheet = "Line Items"
)

// numFmtMoney is the built-in "#,##0.00" number format.
const numFmtMoney = 4

var invoiceHeaders = []string{
	"Invoice No",
	"Date",
	"Voucher No",
	"Guest",
	"Billing Company",
	"Check-in",
	"Check-out",
	"Nights",
	"Total",
	"Payment Received",
	"Outstanding",
	"File",
}

var lineItemHeaders = []string{
	"Invoice No",
	"Description",
	"Qty",
	"Unit Price",
	"Total",
}

// Exporter writes the invoice register as XLSX.
type Exporter struct{}

// NewExporter creates an XLSX exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes one row per invoice on the Invoices sheet and one row per
// line item on the Line Items sheet.
func (e *Exporter) Export(ctx context.Context, invoices []domain.Invoice, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", InvoiceSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(LineItemSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	if err := writeHeader(f, InvoiceSheet, invoiceHeaders, headerStyle); err != nil {
		return err
	}
	if err := writeHeader(f, LineItemSheet, lineItemHeaders, headerStyle); err != nil {
		return err
	}

	itemRow := 2
	for i := range invoices {
		if err := ctx.Err(); err != nil {
			return err
		}
		inv := &invoices[i]
		rec := &inv.Record
		row := i + 2

		issued := ""
		if !inv.IssuedAt.IsZero() {
			issued = inv.IssuedAt.Format("2006-01-02")
		}
		values := []any{
			inv.Number,
			issued,
			rec.VoucherNumber,
			rec.PassengerNames,
			rec.BillingCompany,
			rec.CheckIn,
			rec.CheckOut,
			rec.LengthOfStay,
			inv.Total.InexactFloat64(),
			inv.PaymentReceived.InexactFloat64(),
			inv.Outstanding().InexactFloat64(),
			inv.FilePath,
		}
		if err := writeRow(f, InvoiceSheet, row, values); err != nil {
			return err
		}

		for _, item := range rec.LineItems {
			values := []any{
				inv.Number,
				item.Description,
				item.Qty,
				item.UnitPrice.InexactFloat64(),
				item.Total.InexactFloat64(),
			}
			if err := writeRow(f, LineItemSheet, itemRow, values); err != nil {
				return err
			}
			itemRow++
		}
	}

	if len(invoices) > 0 {
		_ = f.SetCellStyle(InvoiceSheet, "I2", fmt.Sprintf("K%d", len(invoices)+1), moneyStyle)
	}
	if itemRow > 2 {
		_ = f.SetCellStyle(LineItemSheet, "D2", fmt.Sprintf("E%d", itemRow-1), moneyStyle)
	}

	_ = f.SetColWidth(InvoiceSheet, "A", "C", 14)
	_ = f.SetColWidth(InvoiceSheet, "D", "E", 28)
	_ = f.SetColWidth(InvoiceSheet, "F", "H", 12)
	_ = f.SetColWidth(InvoiceSheet, "I", "K", 16)
	_ = f.SetColWidth(InvoiceSheet, "L", "L", 48)
	_ = f.SetColWidth(LineItemSheet, "A", "A", 14)
	_ = f.SetColWidth(LineItemSheet, "B", "B", 48)
	_ = f.SetColWidth(LineItemSheet, "C", "E", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	logger.Debug("exported %d invoices, %d line items", len(invoices), itemRow-2)
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
