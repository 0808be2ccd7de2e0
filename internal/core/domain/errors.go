package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInputError indicates the voucher could not be opened or yielded no text.
	// It is the only error the parser returns to its callers.
	ErrInputError = errors.New("input error")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown file type or backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrToolNotFound indicates an external command-line tool is missing.
	ErrToolNotFound = errors.New("tool not found")

	// ErrRenderFailed indicates an invoice document could not be produced.
	ErrRenderFailed = errors.New("render failed")

	// ErrSchemaViolation indicates a record does not match the record schema.
	ErrSchemaViolation = errors.New("schema violation")
)
