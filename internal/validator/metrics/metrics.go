package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TransfersEvaluated prometheus.Counter
	TransfersDenied    *prometheus.CounterVec
	EvaluateDuration   prometheus.Histogram
	PolicyUpdates      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		TransfersEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokengate_transfers_evaluated_total",
			Help: "Total number of transfer policy evaluations",
		}),
		TransfersDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tokengate_transfers_denied_total",
			Help: "Total number of denied transfers, by reason code",
		}, []string{"reason"}),
		EvaluateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tokengate_evaluate_duration_seconds",
			Help:    "Duration of transfer policy evaluations (token critical path)",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		PolicyUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokengate_policy_updates_total",
			Help: "Total number of collection policy mutations",
		}),
	}
}

func (m *Metrics) IncrementEvaluated() {
	m.TransfersEvaluated.Inc()
}

func (m *Metrics) IncrementDenied(reason string) {
	m.TransfersDenied.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveEvaluate(start time.Time) {
	m.EvaluateDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementPolicyUpdate() {
	m.PolicyUpdates.Inc()
}
