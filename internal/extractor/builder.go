package extractor

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// contactBlock tells contact detectors which party the current lines
// belong to.
type contactBlock int

const (
	blockCompany contactBlock = iota
	blockBilling
)

// pendingTransport is a transport charge whose quantity depends on the
// length of stay, which is only known after the scan.
type pendingTransport struct {
	description string
	rate        decimal.Decimal
}

// builder accumulates a record during one extraction.
type builder struct {
	cfg       *Config
	rec       domain.VoucherRecord
	block     contactBlock
	transport []pendingTransport
}

func newBuilder(cfg *Config) *builder {
	return &builder{
		cfg: cfg,
		rec: domain.NewVoucherRecord(),
	}
}

// setIfEmpty assigns value to *field only when the field is unset and
// value is not blank.
func setIfEmpty(field *string, value string) {
	value = strings.TrimSpace(value)
	if *field == "" && value != "" {
		*field = value
	}
}

// hasServiceLike reports whether any additional service description
// contains substr.
func (b *builder) hasServiceLike(substr string) bool {
	for _, item := range b.rec.AdditionalServices {
		if strings.Contains(item.Description, substr) {
			return true
		}
	}
	return false
}

func (b *builder) addService(item domain.LineItem) {
	b.rec.AdditionalServices = append(b.rec.AdditionalServices, item)
}

func (b *builder) addAncillary(item domain.LineItem) {
	b.rec.AdditionalAncillary = append(b.rec.AdditionalAncillary, item)
}

// setPhone stores a phone number on the active contact block.
func (b *builder) setPhone(v string) {
	if b.block == blockBilling {
		setIfEmpty(&b.rec.BillingPhone, v)
		return
	}
	setIfEmpty(&b.rec.CompanyPhone, v)
}

func (b *builder) setFax(v string) {
	if b.block == blockBilling {
		setIfEmpty(&b.rec.BillingFax, v)
		return
	}
	setIfEmpty(&b.rec.CompanyFax, v)
}

func (b *builder) setEmail(v string) {
	if b.block == blockBilling {
		setIfEmpty(&b.rec.BillingEmail, v)
		return
	}
	setIfEmpty(&b.rec.CompanyEmail, v)
}

func (b *builder) setVAT(v string) {
	if b.block == blockBilling {
		setIfEmpty(&b.rec.BillingVATNumber, v)
		return
	}
	setIfEmpty(&b.rec.CompanyVATNumber, v)
}

func (b *builder) setAddress(v string) {
	if b.block == blockBilling {
		setIfEmpty(&b.rec.BillingAddress, v)
		return
	}
	setIfEmpty(&b.rec.CompanyAddress, v)
}
