package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector records handoff execution metrics.
type Collector struct {
	handoffsTotal   *prometheus.CounterVec
	handoffDuration *prometheus.HistogramVec

	agentInvocationsTotal *prometheus.CounterVec
	agentInvocationTime   *prometheus.HistogramVec

	escalationsTotal    prometheus.Counter
	synthesisConfidence prometheus.Histogram

	logger *zap.Logger
}

// NewCollector registers the handoff metrics under namespace with the
// default prometheus registry.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.handoffsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handoffs_total",
			Help:      "Total number of executed handoffs",
		},
		[]string{"mode", "status"},
	)

	c.handoffDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handoff_duration_seconds",
			Help:      "Handoff execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"mode"},
	)

	c.agentInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_invocations_total",
			Help:      "Total number of agent invocations",
		},
		[]string{"agent", "status"},
	)

	c.agentInvocationTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_invocation_duration_seconds",
			Help:      "Agent invocation duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"agent"},
	)

	c.escalationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Total number of handoffs escalated for human input",
		},
	)

	c.synthesisConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesis_confidence",
			Help:      "Confidence of synthesized results",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// RecordHandoff records one completed handoff.
func (c *Collector) RecordHandoff(mode string, success bool, duration time.Duration) {
	c.handoffsTotal.WithLabelValues(mode, statusLabel(success)).Inc()
	c.handoffDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordInvocation records one agent invocation.
func (c *Collector) RecordInvocation(agent string, success bool, duration time.Duration) {
	c.agentInvocationsTotal.WithLabelValues(agent, statusLabel(success)).Inc()
	c.agentInvocationTime.WithLabelValues(agent).Observe(duration.Seconds())
}

// RecordEscalation records a handoff escalated for human input.
func (c *Collector) RecordEscalation() {
	c.escalationsTotal.Inc()
}

// RecordSynthesisConfidence records the confidence of a synthesized result.
func (c *Collector) RecordSynthesisConfidence(confidence float64) {
	c.synthesisConfidence.Observe(confidence)
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
