package pipeline

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gkwa/noblenewtonia/codec"
	"github.com/gkwa/noblenewtonia/inflate"
	"github.com/gkwa/noblenewtonia/models"
)

func zlibB64(t *testing.T, text string) string {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write([]byte(text)); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return codec.Encode(buf.Bytes())
}

type mockPayloadWriter struct {
	indices []int
	data    [][]byte
	failAt  int
	closed  bool
}

func (mw *mockPayloadWriter) Write(index int, data []byte) error {
	if mw.failAt != 0 && index == mw.failAt {
		return fmt.Errorf("simulated write failure")
	}
	mw.indices = append(mw.indices, index)
	copied := make([]byte, len(data))
	copy(copied, data)
	mw.data = append(mw.data, copied)
	return nil
}

func (mw *mockPayloadWriter) Close() error {
	mw.closed = true
	return nil
}

func TestProcessRecordsDecompresses(t *testing.T) {
	proc := NewProcessor(inflate.FormatAuto, nil)
	records := []*models.Record{
		{ID: "test-id-1", Name: "Test Product 1", RawHTML: zlibB64(t, "hi")},
	}

	outputs := proc.ProcessRecords(records)
	if len(outputs) != 1 {
		t.Fatalf("outputs=%d, want 1", len(outputs))
	}
	if outputs[0].RawHTML != "hi" {
		t.Fatalf("rawHtml=%q, want %q", outputs[0].RawHTML, "hi")
	}
	if outputs[0].ID != "test-id-1" || outputs[0].Name != "Test Product 1" {
		t.Fatalf("metadata lost: %+v", outputs[0])
	}
	// Input record keeps its compressed payload; only the output changed.
	if records[0].RawHTML == "hi" {
		t.Fatal("input record mutated")
	}
}

func TestProcessRecordsMissingFieldIsolation(t *testing.T) {
	proc := NewProcessor(inflate.FormatAuto, NewMetrics())
	records := []*models.Record{
		{Name: "first", RawHTML: zlibB64(t, "one")},
		{Name: "broken"},
		{Name: "third", RawHTML: zlibB64(t, "three")},
	}

	outputs := proc.ProcessRecords(records)
	stats := proc.Stats()

	if stats.TotalProcessed != 3 {
		t.Fatalf("totalProcessed=%d, want 3", stats.TotalProcessed)
	}
	if stats.SuccessCount != 2 || stats.ErrorCount != 1 {
		t.Fatalf("success=%d error=%d, want 2/1", stats.SuccessCount, stats.ErrorCount)
	}
	if len(outputs) != 2 {
		t.Fatalf("outputs=%d, want 2", len(outputs))
	}
	if outputs[0].RawHTML != "one" || outputs[1].RawHTML != "three" {
		t.Fatalf("survivors out of order: %q, %q", outputs[0].RawHTML, outputs[1].RawHTML)
	}
}

func TestProcessRecordsBadPayloadIsolated(t *testing.T) {
	proc := NewProcessor(inflate.FormatAuto, nil)
	records := []*models.Record{
		{Name: "bad base64", RawHTML: "!!!"},
		{Name: "bad stream", RawHTML: codec.Encode([]byte{0x06, 0x00, 0x00})},
		{Name: "good", RawHTML: zlibB64(t, "ok")},
	}

	outputs := proc.ProcessRecords(records)
	stats := proc.Stats()

	if stats.ErrorCount != 2 || stats.SuccessCount != 1 {
		t.Fatalf("error=%d success=%d, want 2/1", stats.ErrorCount, stats.SuccessCount)
	}
	if len(outputs) != 1 || outputs[0].RawHTML != "ok" {
		t.Fatalf("unexpected outputs: %+v", outputs)
	}
}

func TestProcessRecordsExtractsText(t *testing.T) {
	proc := NewProcessor(inflate.FormatAuto, nil)
	records := []*models.Record{
		{Name: "page", RawHTML: zlibB64(t, "<html><body><p>Hello World</p></body></html>")},
	}

	outputs := proc.ProcessRecords(records)
	if len(outputs) != 1 {
		t.Fatalf("outputs=%d, want 1", len(outputs))
	}
	if outputs[0].RawTextContent != "Hello World" {
		t.Fatalf("rawTextContent=%q, want %q", outputs[0].RawTextContent, "Hello World")
	}
}

// Record failures must survive an error-only logger: quiet mode
// suppresses informational output, never failure diagnostics.
func TestRecordFailureLoggedAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})))
	defer slog.SetDefault(prev)

	proc := NewProcessor(inflate.FormatAuto, nil)
	proc.ProcessRecords([]*models.Record{
		{Name: "ok", RawHTML: zlibB64(t, "fine")},
		{Name: "broken"},
	})

	out := buf.String()
	if !strings.Contains(out, "record failed") {
		t.Fatalf("expected failure diagnostic, got %q", out)
	}
	if !strings.Contains(out, "record=2") {
		t.Fatalf("expected 1-based record index in diagnostic, got %q", out)
	}
}

func TestDecodePayloadCachesDuplicates(t *testing.T) {
	proc := NewProcessor(inflate.FormatAuto, nil)
	payload := zlibB64(t, "repeated")

	first, err := proc.DecodePayload(payload)
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	second, err := proc.DecodePayload(payload)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("cache returned different data: %q vs %q", first, second)
	}

	stats := proc.Stats()
	if stats.TotalOutputBytes != 2*int64(len(first)) {
		t.Fatalf("outputBytes=%d, want %d", stats.TotalOutputBytes, 2*len(first))
	}
}

// The Prometheus byte counters track BatchStats even when duplicate
// payloads are served from the cache.
func TestDecodePayloadCacheKeepsMetricsInSync(t *testing.T) {
	metrics := NewMetrics()
	proc := NewProcessor(inflate.FormatAuto, metrics)
	payload := zlibB64(t, "repeated")

	for i := 0; i < 2; i++ {
		if _, err := proc.DecodePayload(payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}

	stats := proc.Stats()
	if got := int64(testutil.ToFloat64(metrics.InputBytesTotal)); got != stats.TotalInputBytes {
		t.Fatalf("metric inputBytes=%d, stats=%d", got, stats.TotalInputBytes)
	}
	if got := int64(testutil.ToFloat64(metrics.OutputBytesTotal)); got != stats.TotalOutputBytes {
		t.Fatalf("metric outputBytes=%d, stats=%d", got, stats.TotalOutputBytes)
	}
	if hits := testutil.ToFloat64(metrics.CacheHitsTotal); hits != 1 {
		t.Fatalf("cacheHits=%v, want 1", hits)
	}
}

func TestProcessLines(t *testing.T) {
	proc := NewProcessor(inflate.FormatAuto, NewMetrics())
	lines := []string{
		zlibB64(t, "one"),
		zlibB64(t, "two"),
		zlibB64(t, "three"),
	}
	writer := &mockPayloadWriter{}

	proc.ProcessLines(lines, writer)
	stats := proc.Stats()

	if stats.SuccessCount != 3 || stats.ErrorCount != 0 {
		t.Fatalf("success=%d error=%d, want 3/0", stats.SuccessCount, stats.ErrorCount)
	}
	if len(writer.indices) != 3 {
		t.Fatalf("writes=%d, want 3", len(writer.indices))
	}
	for i, want := range []string{"one", "two", "three"} {
		if writer.indices[i] != i+1 {
			t.Fatalf("write %d has index %d, want %d", i, writer.indices[i], i+1)
		}
		if string(writer.data[i]) != want {
			t.Fatalf("write %d = %q, want %q", i, writer.data[i], want)
		}
	}
}

func TestProcessLinesWriteFailureIsolated(t *testing.T) {
	proc := NewProcessor(inflate.FormatAuto, nil)
	lines := []string{
		zlibB64(t, "one"),
		zlibB64(t, "two"),
		zlibB64(t, "three"),
	}
	writer := &mockPayloadWriter{failAt: 2}

	proc.ProcessLines(lines, writer)
	stats := proc.Stats()

	if stats.SuccessCount != 2 || stats.ErrorCount != 1 {
		t.Fatalf("success=%d error=%d, want 2/1", stats.SuccessCount, stats.ErrorCount)
	}
	if len(writer.indices) != 2 || writer.indices[0] != 1 || writer.indices[1] != 3 {
		t.Fatalf("unexpected write indices: %v", writer.indices)
	}
}

func TestSampleSubset(t *testing.T) {
	records := make([]*models.Record, 10)
	for i := range records {
		records[i] = &models.Record{ID: fmt.Sprintf("r%d", i)}
	}

	sampled := Sample(records, 4)
	if len(sampled) != 4 {
		t.Fatalf("sampled=%d, want 4", len(sampled))
	}

	members := make(map[string]bool, len(records))
	for _, rec := range records {
		members[rec.ID] = true
	}
	seen := make(map[string]bool, len(sampled))
	for _, rec := range sampled {
		if !members[rec.ID] {
			t.Fatalf("sampled record %q not in source set", rec.ID)
		}
		if seen[rec.ID] {
			t.Fatalf("duplicate record %q in sample", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestSampleCoversWholeSet(t *testing.T) {
	records := make([]*models.Record, 10)
	for i := range records {
		records[i] = &models.Record{ID: fmt.Sprintf("r%d", i)}
	}

	// With enough single-record draws every position should be reachable;
	// seeing several distinct picks rules out a positional bias.
	picked := make(map[string]bool)
	for i := 0; i < 200; i++ {
		picked[Sample(records, 1)[0].ID] = true
	}
	if len(picked) < 3 {
		t.Fatalf("only %d distinct records picked across 200 draws", len(picked))
	}
}

func TestSampleWholeInputUnchanged(t *testing.T) {
	records := []*models.Record{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	for _, n := range []int{3, 5, 0} {
		got := Sample(records, n)
		if len(got) != 3 {
			t.Fatalf("n=%d: len=%d, want 3", n, len(got))
		}
		for i, rec := range got {
			if rec.ID != records[i].ID {
				t.Fatalf("n=%d: order changed at %d: %q", n, i, rec.ID)
			}
		}
	}
}
