package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the person module.
type Metrics struct {
	PersonsCreated     prometheus.Counter
	DuplicateConflicts prometheus.Counter
	SearchLatency      prometheus.Histogram
	RecomputedRows     *prometheus.CounterVec
}

// New creates a Metrics instance with all person module metrics registered.
func New() *Metrics {
	return &Metrics{
		PersonsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifepath_persons_created_total",
			Help: "Total number of persons created in the registry",
		}),
		DuplicateConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifepath_person_duplicate_conflicts_total",
			Help: "Total creations withheld pending duplicate confirmation",
		}),
		SearchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifepath_person_search_duration_seconds",
			Help:    "Duration of person searches including category aggregation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		RecomputedRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepath_person_recomputed_rows_total",
			Help: "Rows touched by bulk number recomputation, by outcome",
		}, []string{"outcome"}), // outcome: "updated", "failed"
	}
}

// IncrementPersonsCreated records a successful creation.
func (m *Metrics) IncrementPersonsCreated() {
	if m != nil {
		m.PersonsCreated.Inc()
	}
}

// IncrementDuplicateConflicts records a creation withheld by the duplicate check.
func (m *Metrics) IncrementDuplicateConflicts() {
	if m != nil {
		m.DuplicateConflicts.Inc()
	}
}

// ObserveSearchLatency records the duration of one search.
func (m *Metrics) ObserveSearchLatency(d time.Duration) {
	if m != nil {
		m.SearchLatency.Observe(d.Seconds())
	}
}

// AddRecomputedRows records recompute outcomes in bulk.
func (m *Metrics) AddRecomputedRows(outcome string, n int) {
	if m != nil && n > 0 {
		m.RecomputedRows.WithLabelValues(outcome).Add(float64(n))
	}
}
