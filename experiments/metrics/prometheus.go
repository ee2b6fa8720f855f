package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector exports search metrics to a registry while keeping the
// in-memory summary returned by Complete.
type PrometheusCollector struct {
	Collector

	Searches       prometheus.Counter
	Playouts       prometheus.Counter
	Expansions     prometheus.Counter
	ReusedTrees    prometheus.Counter
	SearchDuration prometheus.Histogram
	BestEstimate   prometheus.Gauge
}

func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)
	return &PrometheusCollector{
		Collector: NewCollector(),
		Searches: factory.NewCounter(prometheus.CounterOpts{
			Name: "anytime_searches_total",
			Help: "Total tree searches",
		}),
		Playouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "anytime_playouts_total",
			Help: "Total playouts across all searches",
		}),
		Expansions: factory.NewCounter(prometheus.CounterOpts{
			Name: "anytime_expansions_total",
			Help: "Total node expansions during playouts",
		}),
		ReusedTrees: factory.NewCounter(prometheus.CounterOpts{
			Name: "anytime_reused_trees_total",
			Help: "Searches that started from a subtree kept by a committed move",
		}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "anytime_search_duration_seconds",
			Help:    "Search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
		}),
		BestEstimate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "anytime_best_estimate",
			Help: "Lowest playout estimate of the last search",
		}),
	}
}

func (m *PrometheusCollector) AddPlayout(estimate float64) {
	m.Collector.AddPlayout(estimate)
	m.Playouts.Inc()
}

func (m *PrometheusCollector) AddExpansion() {
	m.Collector.AddExpansion()
	m.Expansions.Inc()
}

func (m *PrometheusCollector) Complete() SearchMetric {
	metric := m.Collector.Complete()
	m.Searches.Inc()
	if metric.IsTreeReused {
		m.ReusedTrees.Inc()
	}
	m.SearchDuration.Observe(metric.Duration.Seconds())
	if metric.Playouts > 0 {
		m.BestEstimate.Set(metric.Best)
	}
	return metric
}
