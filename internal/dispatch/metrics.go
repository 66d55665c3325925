package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	InFlight prometheus.Gauge
	Units    *prometheus.CounterVec
	Retries  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		InFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "evalhub_units_inflight",
			Help: "Evaluation units currently past the admission gate.",
		}),
		Units: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "evalhub_units_total",
			Help: "Evaluation units by terminal outcome.",
		}, []string{"outcome"}),
		Retries: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "evalhub_unit_retries_total",
			Help: "Unit executions requeued after a retryable executor failure.",
		}),
	}
}
