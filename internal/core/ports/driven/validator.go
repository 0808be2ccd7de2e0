package driven

import "github.com/custodia-labs/voucherbill/internal/core/domain"

// RecordValidator checks a parsed record against the published record schema.
type RecordValidator interface {
	// Validate returns domain.ErrSchemaViolation wrapped with details when
	// the record does not conform.
	Validate(record *domain.VoucherRecord) error
}
