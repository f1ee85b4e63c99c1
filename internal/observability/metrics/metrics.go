// Package metrics defines Prometheus instrumentation for the honeypot
// pipeline. All methods are safe on a nil receiver so callers never need
// nil checks when metrics are disabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HoneypotMetrics tracks turn processing, detection outcomes and the value of
// extracted intelligence.
type HoneypotMetrics struct {
	turnsProcessed   *prometheus.CounterVec
	turnDuration     prometheus.Histogram
	qualityScore     prometheus.Histogram
	recordsExtracted *prometheus.CounterVec
	conversations    prometheus.Gauge
}

// NewHoneypotMetrics constructs and registers the honeypot metric set.
func NewHoneypotMetrics(reg prometheus.Registerer) *HoneypotMetrics {
	m := &HoneypotMetrics{
		turnsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Name:      "turns_processed_total",
			Help:      "Turns processed, by classified scam type and detection outcome.",
		}, []string{"scam_type", "detected"}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "honeypot",
			Name:      "turn_duration_seconds",
			Help:      "Wall time spent processing a single turn.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		qualityScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "honeypot",
			Name:      "intelligence_quality_score",
			Help:      "Quality score of a conversation's intelligence after each turn.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		recordsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Name:      "records_extracted_total",
			Help:      "Intelligence records extracted, by kind.",
		}, []string{"kind"}),
		conversations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "honeypot",
			Name:      "conversations_active",
			Help:      "Conversations held in the store.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.turnsProcessed, m.turnDuration, m.qualityScore, m.recordsExtracted, m.conversations)
	}
	return m
}

// ObserveTurn records one processed turn.
func (m *HoneypotMetrics) ObserveTurn(scamType string, detected bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "false"
	if detected {
		outcome = "true"
	}
	m.turnsProcessed.WithLabelValues(scamType, outcome).Inc()
	m.turnDuration.Observe(duration.Seconds())
}

// ObserveQualityScore records the conversation's quality score after a turn.
func (m *HoneypotMetrics) ObserveQualityScore(score float64) {
	if m == nil {
		return
	}
	m.qualityScore.Observe(score)
}

// AddRecordsExtracted counts newly extracted records of one kind.
func (m *HoneypotMetrics) AddRecordsExtracted(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.recordsExtracted.WithLabelValues(kind).Add(float64(n))
}

// ConversationStarted bumps the active conversation gauge.
func (m *HoneypotMetrics) ConversationStarted() {
	if m == nil {
		return
	}
	m.conversations.Inc()
}
