// Package metrics exposes Prometheus collectors for the users feed.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FeedMetrics records fetch outcomes and the currently published state.
type FeedMetrics struct {
	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
	users    prometheus.Gauge
	loading  prometheus.Gauge
}

// NewFeedMetrics registers the feed collectors on reg.
func NewFeedMetrics(reg prometheus.Registerer) (*FeedMetrics, error) {
	m := &FeedMetrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "userfeed_fetch_total",
				Help: "Users fetches by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "userfeed_fetch_duration_seconds",
			Help:    "Time from trigger to published result.",
			Buckets: prometheus.DefBuckets,
		}),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "userfeed_users",
			Help: "Number of users currently published.",
		}),
		loading: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "userfeed_loading",
			Help: "1 while the feed reports loading.",
		}),
	}

	for _, c := range []prometheus.Collector{m.fetches, m.duration, m.users, m.loading} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveFetch counts one completed fetch.
func (m *FeedMetrics) ObserveFetch(outcome string, d time.Duration) {
	m.fetches.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

// ObserveState mirrors a published state transition.
func (m *FeedMetrics) ObserveState(loading bool, users int) {
	m.users.Set(float64(users))
	if loading {
		m.loading.Set(1)
	} else {
		m.loading.Set(0)
	}
}
