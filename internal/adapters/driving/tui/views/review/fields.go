package review

import "github.com/custodia-labs/voucherbill/internal/core/domain"

// fieldDef binds a form row to a record field.
type fieldDef struct {
	section string
	label   string
	ref     func(*domain.VoucherRecord) *string
}

// formFields lists the editable scalar fields in display order.
// Line items are shown read-only below the form.
var formFields = []fieldDef{
	{"Stay", "Check In", func(r *domain.VoucherRecord) *string { return &r.CheckIn }},
	{"Stay", "Check Out", func(r *domain.VoucherRecord) *string { return &r.CheckOut }},
	{"Stay", "Length of Stay", func(r *domain.VoucherRecord) *string { return &r.LengthOfStay }},

	{"Guest", "Voucher Number", func(r *domain.VoucherRecord) *string { return &r.VoucherNumber }},
	{"Guest", "Passenger Names", func(r *domain.VoucherRecord) *string { return &r.PassengerNames }},
	{"Guest", "Customer Name", func(r *domain.VoucherRecord) *string { return &r.CustomerName }},
	{"Guest", "Party Size", func(r *domain.VoucherRecord) *string { return &r.PartySize }},

	{"Booking", "Reservation Number", func(r *domain.VoucherRecord) *string { return &r.ReservationNumber }},
	{"Booking", "Number of Rooms", func(r *domain.VoucherRecord) *string { return &r.NumberOfRooms }},
	{"Booking", "Room Type", func(r *domain.VoucherRecord) *string { return &r.RoomType }},
	{"Booking", "Meal Plan", func(r *domain.VoucherRecord) *string { return &r.MealPlan }},

	{"Service", "Description", func(r *domain.VoucherRecord) *string { return &r.Description }},
	{"Service", "UOM", func(r *domain.VoucherRecord) *string { return &r.UOM }},
	{"Service", "Qty", func(r *domain.VoucherRecord) *string { return &r.Qty }},
	{"Service", "Currency Rate", func(r *domain.VoucherRecord) *string { return &r.CurrencyRate }},
	{"Service", "Rate Incl", func(r *domain.VoucherRecord) *string { return &r.RateIncl }},
	{"Service", "Max Total", func(r *domain.VoucherRecord) *string { return &r.MaxTotal }},
	{"Service", "Ancillary", func(r *domain.VoucherRecord) *string { return &r.AncillaryDescription }},
	{"Service", "Ancillary Charges", func(r *domain.VoucherRecord) *string { return &r.AncillaryCharges }},

	{"Bill To", "Company", func(r *domain.VoucherRecord) *string { return &r.BillingCompany }},
	{"Bill To", "Address", func(r *domain.VoucherRecord) *string { return &r.BillingAddress }},
	{"Bill To", "Phone", func(r *domain.VoucherRecord) *string { return &r.BillingPhone }},
	{"Bill To", "Fax", func(r *domain.VoucherRecord) *string { return &r.BillingFax }},
	{"Bill To", "Email", func(r *domain.VoucherRecord) *string { return &r.BillingEmail }},
	{"Bill To", "VAT Number", func(r *domain.VoucherRecord) *string { return &r.BillingVATNumber }},

	{"Supplier", "Company", func(r *domain.VoucherRecord) *string { return &r.CompanyName }},
	{"Supplier", "Tagline", func(r *domain.VoucherRecord) *string { return &r.CompanyTagline }},
	{"Supplier", "Address", func(r *domain.VoucherRecord) *string { return &r.CompanyAddress }},
	{"Supplier", "Phone", func(r *domain.VoucherRecord) *string { return &r.CompanyPhone }},
	{"Supplier", "Fax", func(r *domain.VoucherRecord) *string { return &r.CompanyFax }},
	{"Supplier", "Email", func(r *domain.VoucherRecord) *string { return &r.CompanyEmail }},
	{"Supplier", "VAT Number", func(r *domain.VoucherRecord) *string { return &r.CompanyVATNumber }},
	{"Supplier", "Supplier Code", func(r *domain.VoucherRecord) *string { return &r.SupplierCode }},

	{"Payment", "Payment Received", func(r *domain.VoucherRecord) *string { return &r.TotalPaymentReceived }},
}

// cloneRecord returns a deep copy of rec.
func cloneRecord(rec *domain.VoucherRecord) *domain.VoucherRecord {
	out := *rec
	out.AdditionalServices = append([]domain.LineItem{}, rec.AdditionalServices...)
	out.AdditionalAncillary = append([]domain.LineItem{}, rec.AdditionalAncillary...)
	out.LineItems = append([]domain.LineItem{}, rec.LineItems...)
	return &out
}
