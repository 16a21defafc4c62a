// Package pipeline runs the sequential batch processor: base64 decode,
// decompress, normalize, and write, with per-record error isolation.
package pipeline

import (
	"log/slog"
	"math/rand"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gkwa/noblenewtonia/codec"
	"github.com/gkwa/noblenewtonia/inflate"
	"github.com/gkwa/noblenewtonia/models"
	"github.com/gkwa/noblenewtonia/parser"
)

const decodeCacheSize = 256

type payloadResult struct {
	inputBytes int
	data       []byte
}

// Processor walks records strictly in order, one at a time. Per-record
// failures are logged with their 1-based index, counted, and never abort
// the remaining sequence.
type Processor struct {
	format  inflate.Format
	metrics *Metrics
	cache   *lru.Cache[string, payloadResult]
	stats   models.BatchStats
}

// NewProcessor builds a processor for one run. metrics may be nil.
func NewProcessor(format inflate.Format, metrics *Metrics) *Processor {
	cache, _ := lru.New[string, payloadResult](decodeCacheSize)
	return &Processor{
		format:  format,
		metrics: metrics,
		cache:   cache,
	}
}

// DecodePayload base64-decodes and decompresses one payload, accumulating
// byte counters. Duplicate payloads within a run are served from an LRU
// cache without a second decompression.
func (p *Processor) DecodePayload(payload string) ([]byte, error) {
	key := strings.TrimSpace(payload)
	if res, ok := p.cache.Get(key); ok {
		p.metrics.IncCacheHit()
		p.metrics.AddInputBytes(res.inputBytes)
		p.metrics.AddOutputBytes(len(res.data))
		p.stats.TotalInputBytes += int64(res.inputBytes)
		p.stats.TotalOutputBytes += int64(len(res.data))
		return res.data, nil
	}

	raw, err := codec.Decode(payload)
	if err != nil {
		return nil, err
	}
	p.stats.TotalInputBytes += int64(len(raw))
	p.metrics.AddInputBytes(len(raw))

	data, err := inflate.Decompress(raw, p.format)
	if err != nil {
		return nil, err
	}
	p.stats.TotalOutputBytes += int64(len(data))
	p.metrics.AddOutputBytes(len(data))

	p.cache.Add(key, payloadResult{inputBytes: len(raw), data: data})
	return data, nil
}

// ProcessRecords decompresses every record's payload in source order and
// returns the normalized outputs. Failed records are skipped; survivors
// keep their original relative order.
func (p *Processor) ProcessRecords(records []*models.Record) []*models.Record {
	outputs := make([]*models.Record, 0, len(records))
	for i, rec := range records {
		p.stats.TotalProcessed++
		out, err := p.processRecord(rec)
		if err != nil {
			p.fail(i+1, err)
			continue
		}
		p.stats.SuccessCount++
		p.metrics.IncRecord()
		outputs = append(outputs, out)
	}
	return outputs
}

// ProcessLines decompresses newline-delimited base64 payloads, handing each
// result to the writer. A write failure is isolated per record just like a
// decode failure.
func (p *Processor) ProcessLines(lines []string, w PayloadWriter) {
	for i, line := range lines {
		p.stats.TotalProcessed++
		data, err := p.DecodePayload(line)
		if err != nil {
			p.fail(i+1, err)
			continue
		}
		if err := w.Write(i+1, data); err != nil {
			p.fail(i+1, err)
			continue
		}
		p.stats.SuccessCount++
		p.metrics.IncRecord()
	}
}

// Stats returns the counters accumulated so far.
func (p *Processor) Stats() models.BatchStats {
	return p.stats
}

func (p *Processor) processRecord(rec *models.Record) (*models.Record, error) {
	if err := parser.ValidateRecord(rec); err != nil {
		return nil, err
	}
	data, err := p.DecodePayload(rec.RawHTML)
	if err != nil {
		return nil, err
	}
	out := *rec
	out.RawHTML = string(data)
	if out.RawTextContent == "" {
		out.RawTextContent = parser.ExtractText(out.RawHTML)
	}
	return &out, nil
}

func (p *Processor) fail(index int, err error) {
	// Error level: quiet mode suppresses informational output only, never
	// record failures.
	slog.Error("record failed",
		slog.Int("record", index),
		slog.Any("error", err),
	)
	p.stats.ErrorCount++
	p.metrics.IncError(parser.ErrorTypeLabel(err))
}

// Sample picks n records uniformly at random via a partial Fisher-Yates
// shuffle; the result order is the shuffle order, not the source order.
// When n covers the whole input, the input comes back unchanged.
func Sample(records []*models.Record, n int) []*models.Record {
	if n <= 0 || n >= len(records) {
		return records
	}
	picked := make([]*models.Record, len(records))
	copy(picked, records)
	for i := 0; i < n; i++ {
		j := i + rand.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:n]
}
