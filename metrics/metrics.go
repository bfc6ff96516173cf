// Package metrics holds the Prometheus collectors for tool calls, the code
// sandbox and the data dictionary.
//
// All methods are safe on a nil *Metrics, so components can take one
// optionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the set of collectors registered for one process.
type Metrics struct {
	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
	detectedFiles prometheus.Counter
	dictBuilds    *prometheus.CounterVec
	datasetReads  prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg
// registers nothing, which suits tests that build many instances.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wick_tool_calls_total",
			Help: "Total tool calls by tool and outcome.",
		}, []string{"tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wick_tool_call_duration_seconds",
			Help:    "Tool call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		detectedFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wick_sandbox_detected_files_total",
			Help: "Files detected in monitored directories after code execution.",
		}),
		dictBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wick_datadict_builds_total",
			Help: "Data dictionary builds by result.",
		}, []string{"result"}),
		datasetReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wick_datadict_dataset_reads_total",
			Help: "Dataset files read while building the data dictionary.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on registration failure.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.toolCalls, m.toolDuration, m.detectedFiles, m.dictBuilds, m.datasetReads}
}

// ObserveToolCall records one tool call.
func (m *Metrics) ObserveToolCall(tool, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// AddDetectedFiles counts files picked up by the sandbox directory monitor.
func (m *Metrics) AddDetectedFiles(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.detectedFiles.Add(float64(n))
}

// ObserveDictBuild records a data dictionary build attempt.
func (m *Metrics) ObserveDictBuild(result string) {
	if m == nil {
		return
	}
	m.dictBuilds.WithLabelValues(result).Inc()
}

// IncDatasetReads counts one dataset file read.
func (m *Metrics) IncDatasetReads() {
	if m == nil {
		return
	}
	m.datasetReads.Inc()
}

// DatasetReads returns the collector for dataset reads.
func (m *Metrics) DatasetReads() prometheus.Counter { return m.datasetReads }

// ToolCalls returns the tool call counter.
func (m *Metrics) ToolCalls() *prometheus.CounterVec { return m.toolCalls }

// DetectedFiles returns the sandbox detected-files counter.
func (m *Metrics) DetectedFiles() prometheus.Counter { return m.detectedFiles }
