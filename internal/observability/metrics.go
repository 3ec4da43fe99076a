// Package observability holds the Prometheus instruments of the settlement engine.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"giftregistry/internal/domain"
)

// Article outcomes of a settlement run.
const (
	OutcomeSettled = "settled"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Run results of a settlement run.
const (
	RunCompleted = "completed"
	RunAborted   = "aborted"
)

// SettlementMetrics records settlement activity. A nil *SettlementMetrics is a no-op.
type SettlementMetrics struct {
	articles    *prometheus.CounterVec
	transferred *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
}

// NewSettlementMetrics creates the settlement instruments and registers them on reg.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	m := &SettlementMetrics{
		articles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftregistry",
			Subsystem: "settlement",
			Name:      "articles_total",
			Help:      "Articles processed by settlement runs, by phase and outcome.",
		}, []string{"phase", "outcome"}),
		transferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftregistry",
			Subsystem: "settlement",
			Name:      "transferred_minor_units_total",
			Help:      "Amount transferred to organizers in minor currency units.",
		}, []string{"phase", "currency"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftregistry",
			Subsystem: "settlement",
			Name:      "runs_total",
			Help:      "Settlement runs, by phase and result.",
		}, []string{"phase", "result"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "giftregistry",
			Subsystem: "settlement",
			Name:      "run_duration_seconds",
			Help:      "Duration of settlement runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
	}
	reg.MustRegister(m.articles, m.transferred, m.runs, m.runDuration)
	return m
}

// ArticleProcessed counts one article outcome.
func (m *SettlementMetrics) ArticleProcessed(phase domain.SettlementPhase, outcome string) {
	if m == nil {
		return
	}
	m.articles.WithLabelValues(string(phase), outcome).Inc()
}

// Transferred adds a successful transfer amount.
func (m *SettlementMetrics) Transferred(phase domain.SettlementPhase, amount domain.Money) {
	if m == nil {
		return
	}
	m.transferred.WithLabelValues(string(phase), amount.Currency).Add(float64(amount.Amount))
}

// RunFinished records the result and duration of a run.
func (m *SettlementMetrics) RunFinished(phase domain.SettlementPhase, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(phase), result).Inc()
	m.runDuration.WithLabelValues(string(phase)).Observe(d.Seconds())
}
