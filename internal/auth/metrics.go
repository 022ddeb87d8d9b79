package auth

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts token cache activity per provider.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	hits          *prometheus.CounterVec
	acquisitions  *prometheus.CounterVec
	failures      *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewMetrics creates the token cache counters and registers them with reg when it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "muswitch",
			Subsystem: "token_cache",
			Name:      "hits_total",
			Help:      "Token requests answered from the cache.",
		}, []string{"provider"}),
		acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "muswitch",
			Subsystem: "token_cache",
			Name:      "acquisitions_total",
			Help:      "Successful token exchanges.",
		}, []string{"provider"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "muswitch",
			Subsystem: "token_cache",
			Name:      "acquisition_failures_total",
			Help:      "Token exchanges that failed or returned an unusable response.",
		}, []string{"provider"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "muswitch",
			Subsystem: "token_cache",
			Name:      "invalidations_total",
			Help:      "Cached tokens dropped after a provider rejected them.",
		}, []string{"provider"}),
	}

	if reg != nil {
		reg.MustRegister(m.hits, m.acquisitions, m.failures, m.invalidations)
	}

	return m
}

func (m *Metrics) hit(provider string) {
	if m != nil {
		m.hits.WithLabelValues(provider).Inc()
	}
}

func (m *Metrics) acquired(provider string) {
	if m != nil {
		m.acquisitions.WithLabelValues(provider).Inc()
	}
}

func (m *Metrics) failed(provider string) {
	if m != nil {
		m.failures.WithLabelValues(provider).Inc()
	}
}

func (m *Metrics) invalidated(provider string) {
	if m != nil {
		m.invalidations.WithLabelValues(provider).Inc()
	}
}
