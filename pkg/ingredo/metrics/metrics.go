// Package metrics provides Prometheus collectors for the analyzer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Analyzer contains Prometheus metrics for scan analysis. A nil *Analyzer is
// valid and records nothing.
type Analyzer struct {
	scansTotal       *prometheus.CounterVec
	tokensTotal      *prometheus.CounterVec
	matchTierTotal   *prometheus.CounterVec
	analyzeDuration  prometheus.Histogram
	historySaveTotal *prometheus.CounterVec
}

// NewAnalyzer creates and registers the analyzer metrics.
func NewAnalyzer(registry prometheus.Registerer) (*Analyzer, error) {
	m := &Analyzer{
		scansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingredo_scans_total",
				Help: "Total number of analyzed scans",
			},
			[]string{"preference", "verdict"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingredo_tokens_total",
				Help: "Total number of ingredient tokens placed in each partition",
			},
			[]string{"partition"},
		),
		matchTierTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingredo_match_tier_total",
				Help: "Total number of tokens resolved by each matching tier",
			},
			[]string{"tier"}, // exact, lemma, known, known_fuzzy, similar, none
		),
		analyzeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ingredo_analyze_duration_seconds",
				Help:    "Time taken to analyze one transcript",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~200ms
			},
		),
		historySaveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingredo_history_saves_total",
				Help: "Total number of scan history writes",
			},
			[]string{"status"}, // success, error
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *Analyzer) Describe(ch chan<- *prometheus.Desc) {
	m.scansTotal.Describe(ch)
	m.tokensTotal.Describe(ch)
	m.matchTierTotal.Describe(ch)
	m.analyzeDuration.Describe(ch)
	m.historySaveTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *Analyzer) Collect(ch chan<- prometheus.Metric) {
	m.scansTotal.Collect(ch)
	m.tokensTotal.Collect(ch)
	m.matchTierTotal.Collect(ch)
	m.analyzeDuration.Collect(ch)
	m.historySaveTotal.Collect(ch)
}

// RecordScan counts a finished scan and its duration.
func (m *Analyzer) RecordScan(preference, verdict string, d time.Duration) {
	if m == nil {
		return
	}
	m.scansTotal.WithLabelValues(preference, verdict).Inc()
	m.analyzeDuration.Observe(d.Seconds())
}

// RecordTokens adds n tokens to a partition.
func (m *Analyzer) RecordTokens(partition string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensTotal.WithLabelValues(partition).Add(float64(n))
}

// RecordMatchTier counts one token resolved by tier.
func (m *Analyzer) RecordMatchTier(tier string) {
	if m == nil {
		return
	}
	m.matchTierTotal.WithLabelValues(tier).Inc()
}

// RecordHistorySave counts a history write.
func (m *Analyzer) RecordHistorySave(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.historySaveTotal.WithLabelValues(status).Inc()
}
