// Package metrics provides storage observability for chunkstore using
// Prometheus metrics.
//
// # Overview
//
// The metrics package provides:
//   - A StorageCollector bundling the counters, gauges and histograms
//     recorded by tables, chunks and dictionary compression
//   - A lazily registered default collector for process-wide use
//   - A Timer for measuring operation durations
//
// # Basic Usage
//
//	collector := metrics.Default()
//	table, _ := storage.NewTable(65535, storage.WithMetrics(collector))
//
//	// Tests register against their own registry
//	collector := metrics.NewStorageCollector(prometheus.NewRegistry())
//
// A nil *StorageCollector is valid and records nothing.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StorageCollector wraps the Prometheus metrics recorded by the storage layer.
type StorageCollector struct {
	rowsAppended       *prometheus.CounterVec   // Rows appended per table
	appendErrors       *prometheus.CounterVec   // Rejected appends per error type
	chunksAllocated    *prometheus.CounterVec   // Chunks allocated per table
	dictionaryBuilds   *prometheus.CounterVec   // Dictionary segments built per data type
	dictionaryLatency  *prometheus.HistogramVec // Dictionary build latency
	segmentMemoryBytes *prometheus.GaugeVec     // Estimated segment memory per encoding
}

// NewStorageCollector creates a collector whose metrics are registered
// with reg.
func NewStorageCollector(reg prometheus.Registerer) *StorageCollector {
	factory := promauto.With(reg)
	return &StorageCollector{
		rowsAppended: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunkstore_rows_appended_total",
				Help: "Total number of rows appended to tables",
			},
			[]string{"table"},
		),
		appendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunkstore_append_errors_total",
				Help: "Total number of rejected row appends",
			},
			[]string{"table", "error_type"},
		),
		chunksAllocated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunkstore_chunks_allocated_total",
				Help: "Total number of chunks allocated",
			},
			[]string{"table"},
		),
		dictionaryBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunkstore_dictionary_builds_total",
				Help: "Total number of dictionary segments built",
			},
			[]string{"data_type"},
		),
		dictionaryLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "chunkstore_dictionary_build_latency_nanoseconds",
				Help: "Dictionary segment build latency in nanoseconds",
				Buckets: []float64{
					1000,  // 1μs
					10000, // 10μs
					1e5,   // 100μs
					1e6,   // 1ms
					1e7,   // 10ms
					1e8,   // 100ms
					1e9,   // 1s
				},
			},
			[]string{"data_type"},
		),
		segmentMemoryBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chunkstore_segment_memory_bytes",
				Help: "Estimated memory of the most recently measured segments",
			},
			[]string{"table", "encoding"},
		),
	}
}

var (
	defaultCollector *StorageCollector
	defaultOnce      sync.Once
)

// Default returns the process-wide collector registered with
// prometheus.DefaultRegisterer.
func Default() *StorageCollector {
	defaultOnce.Do(func() {
		defaultCollector = NewStorageCollector(prometheus.DefaultRegisterer)
	})
	return defaultCollector
}

// RowAppended records one appended row.
func (c *StorageCollector) RowAppended(table string) {
	if c == nil {
		return
	}
	c.rowsAppended.WithLabelValues(table).Inc()
}

// AppendRejected records one append that returned an error.
func (c *StorageCollector) AppendRejected(table, errorType string) {
	if c == nil {
		return
	}
	c.appendErrors.WithLabelValues(table, errorType).Inc()
}

// ChunkAllocated records one newly allocated chunk.
func (c *StorageCollector) ChunkAllocated(table string) {
	if c == nil {
		return
	}
	c.chunksAllocated.WithLabelValues(table).Inc()
}

// DictionaryBuilt records one dictionary build and its duration.
func (c *StorageCollector) DictionaryBuilt(dataType string, d time.Duration) {
	if c == nil {
		return
	}
	c.dictionaryBuilds.WithLabelValues(dataType).Inc()
	c.dictionaryLatency.WithLabelValues(dataType).Observe(float64(d.Nanoseconds()))
}

// SetSegmentMemory sets the estimated memory for a table and encoding.
func (c *StorageCollector) SetSegmentMemory(table, encoding string, bytes int) {
	if c == nil {
		return
	}
	c.segmentMemoryBytes.WithLabelValues(table, encoding).Set(float64(bytes))
}

// SegmentMemory returns the gauge behind SetSegmentMemory. A nil collector
// returns an unregistered gauge that always reads zero.
func (c *StorageCollector) SegmentMemory(table, encoding string) prometheus.Gauge {
	if c == nil {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chunkstore_segment_memory_bytes",
			Help: "Estimated memory of the most recently measured segments",
		})
	}
	return c.segmentMemoryBytes.WithLabelValues(table, encoding)
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It can be called
// multiple times.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
