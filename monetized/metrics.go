package monetized

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes recorded by Metrics.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidLicense = "invalid_license"
	OutcomeAPIError       = "api_error"
)

// Metrics holds the Prometheus collectors updated by a Client.
// A single Metrics may be shared by many clients.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monetized",
			Name:      "calls_total",
			Help:      "Calls by tier and outcome.",
		}, []string{"tier", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "monetized",
			Name:      "call_duration_seconds",
			Help:      "Transport time of calls that passed license validation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tier"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.calls, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(tier, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(tier, outcome).Inc()
	if outcome != OutcomeInvalidLicense {
		m.duration.WithLabelValues(tier).Observe(elapsed.Seconds())
	}
}
