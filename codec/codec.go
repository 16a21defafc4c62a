// Package codec converts between base64 text and raw bytes.
package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodingError indicates malformed base64 input.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Errorf("encoding: %w", e.Err).Error()
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Decode converts padded standard base64 text to raw bytes.
// Surrounding whitespace is tolerated; anything outside the base64
// alphabet is an EncodingError.
func Decode(text string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, &EncodingError{Err: err}
	}
	return data, nil
}

// Encode converts raw bytes to padded standard base64 text.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
