package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the decompression pipeline.
type Metrics struct {
	Registry         *prometheus.Registry
	RecordsTotal     prometheus.Counter
	ErrorsTotal      *prometheus.CounterVec
	InputBytesTotal  prometheus.Counter
	OutputBytesTotal prometheus.Counter
	CacheHitsTotal   prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "decompressor_records_total",
			Help: "Total number of records successfully decompressed.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decompressor_errors_total",
			Help: "Total number of per-record errors by type.",
		},
		[]string{"error_type"},
	)
	inputBytes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "decompressor_input_bytes_total",
			Help: "Total compressed bytes consumed.",
		},
	)
	outputBytes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "decompressor_output_bytes_total",
			Help: "Total decompressed bytes produced.",
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "decompressor_cache_hits_total",
			Help: "Total duplicate payloads served from the decode cache.",
		},
	)

	registry.MustRegister(records, errorsTotal, inputBytes, outputBytes, cacheHits)

	return &Metrics{
		Registry:         registry,
		RecordsTotal:     records,
		ErrorsTotal:      errorsTotal,
		InputBytesTotal:  inputBytes,
		OutputBytesTotal: outputBytes,
		CacheHitsTotal:   cacheHits,
	}
}

// IncRecord increments the processed records counter.
func (m *Metrics) IncRecord() {
	if m == nil {
		return
	}
	m.RecordsTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// AddInputBytes records compressed bytes consumed.
func (m *Metrics) AddInputBytes(n int) {
	if m == nil {
		return
	}
	m.InputBytesTotal.Add(float64(n))
}

// AddOutputBytes records decompressed bytes produced.
func (m *Metrics) AddOutputBytes(n int) {
	if m == nil {
		return
	}
	m.OutputBytesTotal.Add(float64(n))
}

// IncCacheHit increments the decode cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}
