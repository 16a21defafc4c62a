package parser

import (
	"errors"
	"fmt"

	"github.com/gkwa/noblenewtonia/codec"
	"github.com/gkwa/noblenewtonia/inflate"
)

// MissingFieldError indicates a record lacks its required payload field.
type MissingFieldError struct {
	Field string
	Name  string
}

func (e *MissingFieldError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("missing_field: record %q has no %s", e.Name, e.Field)
	}
	return fmt.Sprintf("missing_field: record has no %s", e.Field)
}

// MalformedInputError indicates the top-level JSON shape is unrecognized.
type MalformedInputError struct {
	Detail string
}

func (e *MalformedInputError) Error() string {
	return "malformed_input: " + e.Detail
}

// ErrorTypeLabel maps record-level errors to a stable metrics label.
func ErrorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return "missing_field"
	}
	var malformed *MalformedInputError
	if errors.As(err, &malformed) {
		return "malformed_input"
	}
	var encoding *codec.EncodingError
	if errors.As(err, &encoding) {
		return "encoding"
	}
	var decompression *inflate.DecompressionError
	if errors.As(err, &decompression) {
		return "decompression"
	}
	return "other"
}
