// Package inflate decompresses gzip, zlib-wrapped deflate, and raw deflate
// streams, with trial-based format auto-detection.
package inflate

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const previewLen = 16

// candidate pairs a format with its decoder. The auto chain walks these in
// order: gzip first because its magic bytes give the cheapest rule-in/out,
// zlib-wrapped deflate next for its header check, raw deflate last since it
// has no self-describing header and accepts almost anything.
type candidate struct {
	format Format
	decode func([]byte) ([]byte, error)
}

var autoChain = []candidate{
	{FormatGzip, gunzip},
	{FormatDeflate, inflateZlib},
	{FormatRaw, inflateRaw},
}

// Decompress applies the requested codec to data. With FormatAuto the
// candidates are tried in fixed order and the first success wins; if all
// fail the error aggregates every attempt's message.
func Decompress(data []byte, format Format) ([]byte, error) {
	slog.Debug("decompressing",
		slog.Int("input_bytes", len(data)),
		slog.String("format", string(format)),
		slog.String("preview", preview(data)),
	)

	if format != FormatAuto {
		out, err := decodeOne(data, format)
		if err != nil {
			return nil, &DecompressionError{Format: string(format), Err: err}
		}
		return out, nil
	}

	attempts := make([]string, 0, len(autoChain))
	for _, c := range autoChain {
		out, err := c.decode(data)
		if err == nil {
			slog.Debug("auto-detect succeeded",
				slog.String("format", string(c.format)),
				slog.Int("output_bytes", len(out)),
			)
			return out, nil
		}
		attempts = append(attempts, fmt.Sprintf("%s: %v", c.format, err))
	}
	return nil, &DecompressionError{Format: "any", Attempts: attempts}
}

func decodeOne(data []byte, format Format) ([]byte, error) {
	for _, c := range autoChain {
		if c.format == format {
			return c.decode(data)
		}
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func inflateZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func inflateRaw(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}

func preview(data []byte) string {
	n := len(data)
	if n > previewLen {
		n = previewLen
	}
	return fmt.Sprintf("% x", data[:n])
}
