package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AllowlistsCreated  *prometheus.CounterVec
	MembershipMutations *prometheus.CounterVec
	OwnershipChanges   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		AllowlistsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tokengate_allowlists_created_total",
			Help: "Total number of allowlists created, by kind",
		}, []string{"kind"}),
		MembershipMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tokengate_allowlist_membership_mutations_total",
			Help: "Total membership adds and removes, by kind and op",
		}, []string{"kind", "op"}),
		OwnershipChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokengate_allowlist_ownership_changes_total",
			Help: "Total ownership reassignments and renouncements",
		}),
	}
}

func (m *Metrics) IncrementCreated(kind string) {
	m.AllowlistsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementMembership(kind, op string) {
	m.MembershipMutations.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) IncrementOwnershipChange() {
	m.OwnershipChanges.Inc()
}
