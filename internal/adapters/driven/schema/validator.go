// Package schema validates voucher records against the published record
// JSON schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.RecordValidator = (*Validator)(nil)

//go:embed record.schema.json
var recordSchema []byte

const schemaURL = "record.schema.json"

// Schema returns the raw record schema document.
func Schema() []byte {
	return bytes.Clone(recordSchema)
}

// Validator checks records against the compiled schema.
// Safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(recordSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate checks a record. Violations wrap domain.ErrSchemaViolation.
func (v *Validator) Validate(record *domain.VoucherRecord) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks a serialised record, such as one edited by hand.
func (v *Validator) ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: invalid character after top-level value", domain.ErrInvalidInput)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaViolation, err)
	}
	return nil
}
