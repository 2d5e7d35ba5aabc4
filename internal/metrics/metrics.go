// Package metrics exposes Prometheus counters for fusion rounds, alerts and dialogue turns.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	fusionRounds      *prometheus.CounterVec
	compositeScores   prometheus.Histogram
	alertsRaised      *prometheus.CounterVec
	alertsSuppressed  prometheus.Counter
	narrativeFailures *prometheus.CounterVec
	dialogueTurns     *prometheus.CounterVec
	storeFailures     *prometheus.CounterVec
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fusionRounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindscreen",
			Name:      "fusion_rounds_total",
			Help:      "Completed fusion rounds by guidance tier and number of active modalities.",
		}, []string{"tier", "modalities"}),
		compositeScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mindscreen",
			Name:      "composite_score",
			Help:      "Distribution of fused composite risk scores.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		alertsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindscreen",
			Name:      "alerts_raised_total",
			Help:      "Escalation alerts written to the record store, by alert tier.",
		}, []string{"tier"}),
		alertsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mindscreen",
			Name:      "alerts_suppressed_total",
			Help:      "Alerts skipped because the session already had one for the same tier.",
		}),
		narrativeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindscreen",
			Name:      "narrative_failures_total",
			Help:      "Narrative generator calls that failed, by purpose.",
		}, []string{"purpose"}),
		dialogueTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindscreen",
			Name:      "dialogue_turns_total",
			Help:      "Screening dialogue turns by stage.",
		}, []string{"stage"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindscreen",
			Name:      "store_failures_total",
			Help:      "Best-effort record store writes that failed, by operation.",
		}, []string{"op"}),
	}
	reg.MustRegister(
		m.fusionRounds,
		m.compositeScores,
		m.alertsRaised,
		m.alertsSuppressed,
		m.narrativeFailures,
		m.dialogueTurns,
		m.storeFailures,
	)
	return m
}

func (m *Metrics) FusionRound(tier string, modalities int, composite float64) {
	if m == nil {
		return
	}
	m.fusionRounds.WithLabelValues(tier, strconv.Itoa(modalities)).Inc()
	m.compositeScores.Observe(composite)
}

func (m *Metrics) AlertRaised(tier string) {
	if m == nil {
		return
	}
	m.alertsRaised.WithLabelValues(tier).Inc()
}

func (m *Metrics) AlertSuppressed() {
	if m == nil {
		return
	}
	m.alertsSuppressed.Inc()
}

func (m *Metrics) NarrativeFailure(purpose string) {
	if m == nil {
		return
	}
	m.narrativeFailures.WithLabelValues(purpose).Inc()
}

func (m *Metrics) DialogueTurn(stage string) {
	if m == nil {
		return
	}
	m.dialogueTurns.WithLabelValues(stage).Inc()
}

func (m *Metrics) StoreFailure(op string) {
	if m == nil {
		return
	}
	m.storeFailures.WithLabelValues(op).Inc()
}
