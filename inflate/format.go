package inflate

import "fmt"

// Format selects the decompression codec.
type Format string

const (
	// FormatAuto tries gzip, then zlib-wrapped deflate, then raw deflate.
	FormatAuto Format = "auto"
	// FormatDeflate is deflate with a zlib header and trailing checksum.
	FormatDeflate Format = "deflate"
	// FormatRaw is a bare deflate bitstream without header or trailer.
	FormatRaw Format = "raw"
	// FormatGzip is the gzip container with magic bytes and trailing CRC32.
	FormatGzip Format = "gzip"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatAuto, FormatDeflate, FormatRaw, FormatGzip:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected auto, deflate, raw, or gzip)", s)
	}
}
