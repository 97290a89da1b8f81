package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics and implements usecase.MetricsRecorder.
type Metrics struct {
	// Split metrics
	SplitsTotal        prometheus.Counter
	SplitParticipants  prometheus.Histogram
	BalancesTotal      prometheus.Counter
	BalanceParticipant prometheus.Histogram

	// Simplification metrics
	SimplificationsTotal   prometheus.Counter
	SimplificationDuration prometheus.Histogram
	DebtsIn                prometheus.Histogram
	PaymentsOut            prometheus.Histogram
	SavingsPercent         prometheus.Histogram

	// Cache metrics
	CacheLookups *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	sizeBuckets := []float64{0, 1, 2, 5, 10, 20, 50, 100, 500, 1000}

	return &Metrics{
		SplitsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "settleup_splits_total",
			Help: "Total number of expenses split",
		}),
		SplitParticipants: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleup_split_participants",
			Help:    "Participants per split expense",
			Buckets: sizeBuckets,
		}),
		BalancesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "settleup_balance_calculations_total",
			Help: "Total number of balance calculations",
		}),
		BalanceParticipant: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleup_balance_participants",
			Help:    "Participants per balance calculation",
			Buckets: sizeBuckets,
		}),

		SimplificationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "settleup_simplifications_total",
			Help: "Total number of debt simplifications computed",
		}),
		SimplificationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleup_simplification_duration_seconds",
			Help:    "Duration of debt simplification",
			Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
		}),
		DebtsIn: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleup_simplification_debts",
			Help:    "Debts submitted per simplification",
			Buckets: sizeBuckets,
		}),
		PaymentsOut: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleup_simplification_payments",
			Help:    "Payments produced per simplification",
			Buckets: sizeBuckets,
		}),
		SavingsPercent: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleup_simplification_savings_percent",
			Help:    "Percentage of transactions saved by simplification",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),

		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleup_result_cache_lookups_total",
				Help: "Result cache lookups by outcome",
			},
			[]string{"result"},
		),
	}
}

// RecordSplit records one expense split.
func (m *Metrics) RecordSplit(participants int) {
	m.SplitsTotal.Inc()
	m.SplitParticipants.Observe(float64(participants))
}

// RecordBalances records one balance aggregation.
func (m *Metrics) RecordBalances(participants int) {
	m.BalancesTotal.Inc()
	m.BalanceParticipant.Observe(float64(participants))
}

// RecordSimplification records one computed simplification.
func (m *Metrics) RecordSimplification(originalCount, optimizedCount int, savingsPercent float64, duration time.Duration) {
	m.SimplificationsTotal.Inc()
	m.SimplificationDuration.Observe(duration.Seconds())
	m.DebtsIn.Observe(float64(originalCount))
	m.PaymentsOut.Observe(float64(optimizedCount))
	m.SavingsPercent.Observe(savingsPercent)
}

// RecordCacheLookup records a result cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
