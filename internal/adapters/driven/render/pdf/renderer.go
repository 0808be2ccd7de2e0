package pdf

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.InvoiceRenderer = (*Renderer)(nil)

// Page geometry in millimetres.
const (
	margin     = 10.0
	pageWidth  = 190.0
	lineHeight = 6.0

	colDesc  = 100.0
	colQty   = 20.0
	colPrice = 35.0
	colTotal = 35.0
)

// Renderer writes invoices as PDF.
type Renderer struct {
	// Title is printed above the invoice number.
	Title string
}

// NewRenderer creates a PDF renderer with the default title.
func NewRenderer() *Renderer {
	return &Renderer{Title: "TAX INVOICE"}
}

// Extension returns ".pdf".
func (r *Renderer) Extension() string {
	return ".pdf"
}

// Render writes the invoice to w.
func (r *Renderer) Render(ctx context.Context, inv *domain.Invoice, issuer domain.Issuer, w io.Writer) error {
	if inv == nil {
		return fmt.Errorf("%w: nil invoice", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, 15)
	doc.SetTitle(inv.Number, true)
	doc.AddPage()

	p := &page{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	p.header(fromIssuer(issuer, &inv.Record))
	p.invoiceHeading(r.Title, inv)
	p.parties(&inv.Record)
	p.items(inv.Record.LineItems)
	p.totals(inv)
	p.payment(issuer)

	if err := doc.Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return nil
}

// fromIssuer returns the configured issuer, or the supplier printed on
// the voucher when no issuer has been set up.
func fromIssuer(issuer domain.Issuer, rec *domain.VoucherRecord) domain.Issuer {
	if issuer.IsConfigured() {
		return issuer
	}
	return domain.Issuer{
		Name:    rec.CompanyName,
		Tagline: rec.CompanyTagline,
		Address: rec.CompanyAddress,
		Phone:   rec.CompanyPhone,
		Email:   rec.CompanyEmail,
	}
}

// page wraps a document with the translator for the core fonts.
type page struct {
	doc *gofpdf.Fpdf
	tr  func(string) string
}

func (p *page) cell(w, h float64, txt, border string, ln int, align string, fill bool) {
	p.doc.CellFormat(w, h, p.tr(txt), border, ln, align, fill, 0, "")
}

func (p *page) sectionTitle(title string) {
	p.doc.SetFont("Arial", "B", 11)
	p.doc.SetFillColor(240, 240, 240)
	p.cell(pageWidth, 8, title, "1", 1, "L", true)
	p.doc.SetFont("Arial", "", 10)
}

func (p *page) header(from domain.Issuer) {
	name := from.Name
	if name == "" {
		name = "Invoice"
	}
	p.doc.SetFont("Arial", "B", 16)
	p.cell(pageWidth, 9, name, "", 1, "C", false)

	p.doc.SetFont("Arial", "I", 10)
	if from.Tagline != "" {
		p.cell(pageWidth, 5, from.Tagline, "", 1, "C", false)
	}

	p.doc.SetFont("Arial", "", 9)
	if from.Address != "" {
		p.cell(pageWidth, 5, from.Address, "", 1, "C", false)
	}
	var contact []string
	if from.Phone != "" {
		contact = append(contact, "Tel: "+from.Phone)
	}
	if from.Email != "" {
		contact = append(contact, "Email: "+from.Email)
	}
	if len(contact) > 0 {
		p.cell(pageWidth, 5, strings.Join(contact, "   "), "", 1, "C", false)
	}
	p.doc.Ln(4)
}

func (p *page) invoiceHeading(title string, inv *domain.Invoice) {
	p.doc.SetFont("Arial", "B", 14)
	p.cell(pageWidth/2, 8, title, "", 0, "L", false)

	p.doc.SetFont("Arial", "", 10)
	p.cell(pageWidth/2, 8, "Invoice No: "+inv.Number, "", 1, "R", false)
	if !inv.IssuedAt.IsZero() {
		p.cell(pageWidth, 6, "Date: "+inv.IssuedAt.Format("2006/01/02"), "", 1, "R", false)
	}
	p.doc.Ln(2)
}

func (p *page) parties(rec *domain.VoucherRecord) {
	p.sectionTitle("BILL TO")
	p.field("Company", rec.BillingCompany)
	p.field("Address", rec.BillingAddress)
	p.field("Tel", rec.BillingPhone)
	p.field("Fax", rec.BillingFax)
	p.field("Email", rec.BillingEmail)
	p.field("VAT No", rec.BillingVATNumber)
	p.doc.Ln(3)

	p.sectionTitle("BOOKING DETAILS")
	p.field("Voucher No", rec.VoucherNumber)
	p.field("Reservation No", rec.ReservationNumber)
	p.field("Guest", rec.PassengerNames)
	p.field("Check-in", rec.CheckIn)
	p.field("Check-out", rec.CheckOut)
	p.field("Nights", rec.LengthOfStay)
	p.field("Rooms", rec.NumberOfRooms)
	p.field("Meal Plan", rec.MealPlan)
	p.doc.Ln(3)
}

// field prints a label and value row. Empty values are skipped.
func (p *page) field(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	p.doc.SetFont("Arial", "B", 10)
	p.cell(40, lineHeight, label+":", "", 0, "L", false)
	p.doc.SetFont("Arial", "", 10)
	p.doc.MultiCell(pageWidth-40, lineHeight, p.tr(value), "", "L", false)
}

func (p *page) tableHeader() {
	p.doc.SetFont("Arial", "B", 10)
	p.doc.SetFillColor(200, 200, 200)
	p.cell(colDesc, 8, "DESCRIPTION", "1", 0, "L", true)
	p.cell(colQty, 8, "QTY", "1", 0, "C", true)
	p.cell(colPrice, 8, "UNIT PRICE", "1", 0, "R", true)
	p.cell(colTotal, 8, "TOTAL", "1", 1, "R", true)
	p.doc.SetFont("Arial", "", 10)
}

func (p *page) items(items []domain.LineItem) {
	p.tableHeader()

	_, pageH := p.doc.GetPageSize()
	_, _, _, bottom := p.doc.GetMargins()

	for _, item := range items {
		desc := p.tr(item.Description)
		lines := p.doc.SplitLines([]byte(desc), colDesc)
		h := float64(max(1, len(lines))) * lineHeight

		if p.doc.GetY()+h > pageH-bottom {
			p.doc.AddPage()
			p.tableHeader()
		}

		x, y := p.doc.GetXY()
		p.doc.MultiCell(colDesc, lineHeight, desc, "1", "L", false)
		p.doc.SetXY(x+colDesc, y)
		p.cell(colQty, h, strconv.Itoa(item.Qty), "1", 0, "C", false)
		p.cell(colPrice, h, domain.FormatRand(item.UnitPrice), "1", 0, "R", false)
		p.cell(colTotal, h, domain.FormatRand(item.Total), "1", 1, "R", false)
	}
}

func (p *page) totals(inv *domain.Invoice) {
	label := colDesc + colQty + colPrice

	p.doc.SetFont("Arial", "B", 10)
	p.doc.SetFillColor(240, 240, 240)
	p.cell(label, 8, "INVOICE TOTAL", "1", 0, "R", true)
	p.cell(colTotal, 8, domain.FormatRand(inv.Total), "1", 1, "R", true)

	p.doc.SetFont("Arial", "", 10)
	p.cell(label, 7, "Payment Received", "1", 0, "R", false)
	p.cell(colTotal, 7, domain.FormatRand(inv.PaymentReceived), "1", 1, "R", false)

	outstanding := inv.Outstanding()
	p.doc.SetFont("Arial", "B", 10)
	if outstanding.IsZero() {
		p.doc.SetFillColor(200, 255, 200)
	} else {
		p.doc.SetFillColor(255, 220, 220)
	}
	p.cell(label, 8, "BALANCE DUE", "1", 0, "R", true)
	p.cell(colTotal, 8, domain.FormatRand(outstanding), "1", 1, "R", true)
	p.doc.Ln(6)
}

func (p *page) payment(issuer domain.Issuer) {
	if issuer.BankName == "" && issuer.AccountNumber == "" {
		return
	}
	p.sectionTitle("PAYMENT DETAILS")
	p.field("Bank Name", issuer.BankName)
	p.field("Account Name", issuer.AccountName)
	p.field("Account Number", issuer.AccountNumber)
	p.field("Branch Code", issuer.BranchCode)
}
