package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/agentharness/tool"
)

// Namespace prefixes every harness metric.
const Namespace = "agentharness"

// Status label values.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusUnknown = "unknown_tool"
)

// ToolMetrics records tool dispatches. It implements tool.Observer.
type ToolMetrics struct {
	callsTotal   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	resultCount  *prometheus.HistogramVec
}

// NewToolMetrics creates the tool collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewToolMetrics(reg prometheus.Registerer) (*ToolMetrics, error) {
	m := &ToolMetrics{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool dispatches",
			},
			[]string{"tool", "status"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Tool dispatch duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"tool"},
		),
		resultCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "tool_result_count",
				Help:      "Value of meta.count for envelopes that carry one",
				Buckets:   []float64{0, 1, 2, 3, 5, 10, 25, 50},
			},
			[]string{"tool"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.callsTotal, m.callDuration, m.resultCount} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("register tool metrics: %w", err)
			}
		}
	}

	return m, nil
}

// ObserveToolCall implements tool.Observer.
func (m *ToolMetrics) ObserveToolCall(call tool.ToolCall) {
	status := StatusOK
	switch {
	case !call.Known:
		status = StatusUnknown
	case !call.Envelope.OK:
		status = StatusFailed
	}

	// Unknown names are caller-controlled; collapse them to bound cardinality.
	name := call.Name
	if !call.Known {
		name = StatusUnknown
	}

	m.callsTotal.WithLabelValues(name, status).Inc()
	m.callDuration.WithLabelValues(name).Observe(call.Duration.Seconds())
	if c := call.Envelope.Meta.Count; c != nil {
		m.resultCount.WithLabelValues(name).Observe(float64(*c))
	}
}

var _ tool.Observer = (*ToolMetrics)(nil)
