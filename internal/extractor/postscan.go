package extractor

import (
	"regexp"
	"strconv"
	"time"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/logger"
	"github.com/custodia-labs/voucherbill/internal/normaliser"
)

// DateLayout is the voucher date format.
const DateLayout = "2006/01/02"

// voucherFallbackRe finds a voucher code when no labelled line was seen.
var voucherFallbackRe = regexp.MustCompile(`\bVoucher\b(?:\s*(?:No|Nr|#))?[\s.:#]*([A-Z]\d{5,})\b`)

// finish runs the post-scan steps on a populated builder.
func finish(b *builder, cleaned string) {
	rec := &b.rec

	if days, ok := stayLength(rec.CheckIn, rec.CheckOut); ok {
		rec.LengthOfStay = strconv.Itoa(days)
	}

	if rec.VoucherNumber == "" {
		if m := voucherFallbackRe.FindStringSubmatch(cleaned); m != nil {
			logger.Debug("extractor: voucher number %s from fallback", m[1])
			rec.VoucherNumber = m[1]
		}
	}

	rec.CustomerName = rec.PassengerNames

	rec.CompanyName = normaliser.CleanCompanyInfo(rec.CompanyName)
	rec.CompanyAddress = normaliser.CleanCompanyInfo(rec.CompanyAddress)
	rec.BillingCompany = normaliser.CleanCompanyInfo(rec.BillingCompany)
	rec.BillingAddress = normaliser.CleanCompanyInfo(rec.BillingAddress)

	qty := 1
	if n, err := strconv.Atoi(rec.LengthOfStay); err == nil && n > 0 {
		qty = n
	}
	for _, t := range b.transport {
		b.addService(domain.NewLineItem(t.description, qty, t.rate))
	}

	assembleItems(b)
}

// stayLength is the whole number of days from check-in to check-out,
// negative when check-out precedes check-in. It reports false when either
// date is missing or malformed.
func stayLength(checkIn, checkOut string) (int, bool) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return 0, false
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return 0, false
	}
	return int(out.Sub(in).Hours() / 24), true
}

// assembleItems re-cleans every service description and rebuilds the
// ordered line items from the service slots.
func assembleItems(b *builder) {
	rec := &b.rec
	norm := b.cfg.norm

	if rec.Description != "" {
		rec.Description = norm.NormaliseLine(rec.Description)
	}
	if rec.AncillaryDescription != "" {
		rec.AncillaryDescription = norm.NormaliseLine(rec.AncillaryDescription)
	}
	for i := range rec.AdditionalServices {
		rec.AdditionalServices[i].Description = norm.NormaliseLine(rec.AdditionalServices[i].Description)
	}
	for i := range rec.AdditionalAncillary {
		rec.AdditionalAncillary[i].Description = norm.NormaliseLine(rec.AdditionalAncillary[i].Description)
	}

	_, primary := rec.PrimaryItem()
	_, ancillary := rec.AncillaryItem()
	if !primary && !ancillary && len(rec.AdditionalServices) == 0 && len(rec.AdditionalAncillary) == 0 {
		logger.Debug("extractor: no billable rows, using placeholder")
	}
	rec.AssembleLineItems()
}
