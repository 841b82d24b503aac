package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the category module.
type Metrics struct {
	CacheLookups      *prometheus.CounterVec
	CategoriesCreated prometheus.Counter
}

// New creates a Metrics instance with all category module metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepath_category_cache_lookups_total",
			Help: "Grouped-listing cache lookups, by result",
		}, []string{"result"}), // result: "hit", "miss"
		CategoriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifepath_categories_created_total",
			Help: "Total number of categories created",
		}),
	}
}

// IncrementCacheLookup records one cache lookup outcome.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// IncrementCategoriesCreated records a successful category creation.
func (m *Metrics) IncrementCategoriesCreated() {
	if m != nil {
		m.CategoriesCreated.Inc()
	}
}
