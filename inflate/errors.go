package inflate

import (
	"fmt"
	"strings"
)

// DecompressionError indicates the selected codec rejected the stream.
// When the auto chain exhausts every candidate, Format is "any" and
// Attempts carries one failure message per candidate in trial order.
type DecompressionError struct {
	Format   string
	Err      error
	Attempts []string
}

func (e *DecompressionError) Error() string {
	if len(e.Attempts) > 0 {
		return fmt.Sprintf("decompression (%s): all formats failed: %s", e.Format, strings.Join(e.Attempts, "; "))
	}
	return fmt.Errorf("decompression (%s): %w", e.Format, e.Err).Error()
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}
