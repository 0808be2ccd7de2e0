package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder line item used when nothing billable could be recovered,
// so an invoice can still be rendered and corrected by a reviewer.
const (
	PlaceholderDescription = "Room Booking"
	PlaceholderUnitPrice   = "500.00"
)

// AncillaryFallback names an ancillary charge recorded without a description.
const AncillaryFallback = "Ancillary Charges"

// LineItem is one billable row on an invoice.
// Total is authoritative over Qty * UnitPrice when both are known.
type LineItem struct {
	Description string
	Qty         int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// NewLineItem creates a line item whose total is qty * unitPrice.
func NewLineItem(description string, qty int, unitPrice decimal.Decimal) LineItem {
	return LineItem{
		Description: description,
		Qty:         qty,
		UnitPrice:   unitPrice,
		Total:       unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// PlaceholderItem returns the default line item used when a voucher yields
// no billable rows.
func PlaceholderItem() LineItem {
	price := decimal.RequireFromString(PlaceholderUnitPrice)
	return LineItem{
		Description: PlaceholderDescription,
		Qty:         1,
		UnitPrice:   price,
		Total:       price,
	}
}

// lineItemJSON is the wire form of a LineItem.
// Money is written as a JSON number with two fractional digits.
type lineItemJSON struct {
	Description string      `json:"description"`
	Qty         int         `json:"qty"`
	UnitPrice   json.Number `json:"unit_price"`
	Total       json.Number `json:"total"`
}

// MarshalJSON implements json.Marshaler.
func (li LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineItemJSON{
		Description: li.Description,
		Qty:         li.Qty,
		UnitPrice:   json.Number(li.UnitPrice.StringFixed(2)),
		Total:       json.Number(li.Total.StringFixed(2)),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// Money may be given as a JSON number or a string.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description string          `json:"description"`
		Qty         int             `json:"qty"`
		UnitPrice   decimal.Decimal `json:"unit_price"`
		Total       decimal.Decimal `json:"total"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	li.Description = raw.Description
	li.Qty = raw.Qty
	li.UnitPrice = raw.UnitPrice
	li.Total = raw.Total
	return nil
}

// VoucherRecord is the structured result of parsing a single voucher.
// Every field defaults to its zero value, so a field that was not found
// and a field that was never set are the same state.
type VoucherRecord struct {
	CheckIn        string `json:"check_in"`
	CheckOut       string `json:"check_out"`
	LengthOfStay   string `json:"length_of_stay"`
	VoucherNumber  string `json:"voucher_number"`
	PassengerNames string `json:"passenger_names"`
	CustomerName   string `json:"customer_name"`
	PartySize      string `json:"party_size"`

	ReservationNumber string `json:"reservation_number"`
	NumberOfRooms     string `json:"number_of_rooms"`
	RoomType          string `json:"room_type"`
	MealPlan          string `json:"meal_plan"`

	// Primary service slot.
	Description  string `json:"description"`
	UOM          string `json:"uom"`
	Qty          string `json:"qty"`
	CurrencyRate string `json:"currency_rate"`
	RateIncl     string `json:"rate_incl"`
	MaxTotal     string `json:"max_total"`

	// Ancillary slot.
	AncillaryDescription string `json:"ancillary_description"`
	AncillaryCharges     string `json:"ancillary_charges"`

	TotalPaymentReceived string `json:"total_payment_received"`

	BillingCompany   string `json:"billing_company"`
	BillingAddress   string `json:"billing_address"`
	BillingPhone     string `json:"billing_phone"`
	BillingFax       string `json:"billing_fax"`
	BillingEmail     string `json:"billing_email"`
	BillingVATNumber string `json:"billing_vat_number"`

	CompanyName      string `json:"company_name"`
	CompanyTagline   string `json:"company_tagline"`
	CompanyAddress   string `json:"company_address"`
	CompanyPhone     string `json:"company_phone"`
	CompanyFax       string `json:"company_fax"`
	CompanyEmail     string `json:"company_email"`
	CompanyVATNumber string `json:"company_vat_number"`
	SupplierCode     string `json:"supplier_code"`

	AdditionalServices  []LineItem `json:"additional_services"`
	AdditionalAncillary []LineItem `json:"additional_ancillary"`
	LineItems           []LineItem `json:"line_items"`
}

// NewVoucherRecord returns a record with every scalar empty and every
// list initialised.
func NewVoucherRecord() VoucherRecord {
	return VoucherRecord{
		AdditionalServices:  []LineItem{},
		AdditionalAncillary: []LineItem{},
		LineItems:           []LineItem{},
	}
}

// InvoiceTotal is the sum of all line item totals.
// It is computed on every call and never stored.
func (r *VoucherRecord) InvoiceTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.LineItems {
		total = total.Add(item.Total)
	}
	return total
}

// PrimaryItem builds the primary service row from the scalar service slot.
// It reports false unless both a description and a rate are present.
// The printed total wins over qty * rate when it parses.
func (r *VoucherRecord) PrimaryItem() (LineItem, bool) {
	if strings.TrimSpace(r.Description) == "" || strings.TrimSpace(r.RateIncl) == "" {
		return LineItem{}, false
	}
	qty, err := strconv.Atoi(strings.TrimSpace(r.Qty))
	if err != nil || qty <= 0 {
		qty = 1
	}
	rate, _ := ParseAmount(r.RateIncl)
	item := NewLineItem(r.Description, qty, rate)
	if total, ok := ParseAmount(r.MaxTotal); ok {
		item.Total = total
	}
	return item, true
}

// AncillaryItem builds the ancillary row from the scalar ancillary slot.
func (r *VoucherRecord) AncillaryItem() (LineItem, bool) {
	if strings.TrimSpace(r.AncillaryCharges) == "" {
		return LineItem{}, false
	}
	charge, _ := ParseAmount(r.AncillaryCharges)
	desc := r.AncillaryDescription
	if strings.TrimSpace(desc) == "" {
		desc = AncillaryFallback
	}
	return LineItem{Description: desc, Qty: 1, UnitPrice: charge, Total: charge}, true
}

// AssembleLineItems rebuilds LineItems from the service slots in order:
// primary service, ancillary, additional services, additional ancillary.
// The placeholder item is used when none of them yields a row.
func (r *VoucherRecord) AssembleLineItems() {
	items := make([]LineItem, 0, 2+len(r.AdditionalServices)+len(r.AdditionalAncillary))
	if item, ok := r.PrimaryItem(); ok {
		items = append(items, item)
	}
	if item, ok := r.AncillaryItem(); ok {
		items = append(items, item)
	}
	items = append(items, r.AdditionalServices...)
	items = append(items, r.AdditionalAncillary...)
	if len(items) == 0 {
		items = append(items, PlaceholderItem())
	}
	r.LineItems = items
}

// MarshalJSON implements json.Marshaler and adds the derived invoice_total.
func (r VoucherRecord) MarshalJSON() ([]byte, error) {
	type plain VoucherRecord
	return json.Marshal(struct {
		plain
		InvoiceTotal json.Number `json:"invoice_total"`
	}{
		plain:        plain(r),
		InvoiceTotal: json.Number(r.InvoiceTotal().StringFixed(2)),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// The derived invoice_total is ignored and nil lists are initialised.
func (r *VoucherRecord) UnmarshalJSON(data []byte) error {
	type plain VoucherRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = VoucherRecord(p)
	if r.AdditionalServices == nil {
		r.AdditionalServices = []LineItem{}
	}
	if r.AdditionalAncillary == nil {
		r.AdditionalAncillary = []LineItem{}
	}
	if r.LineItems == nil {
		r.LineItems = []LineItem{}
	}
	return nil
}

// ParseAmount parses a monetary string such as "R 35 758.00", "1,688.50"
// or "ZAR 300". Currency markers, spaces and thousands separators are
// stripped. Unparseable or negative input yields zero and false.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "ZAR")
	s = strings.TrimPrefix(s, "R")
	s = strings.NewReplacer(" ", "", ",", "", "\u00a0", "").Replace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
