package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gsc",
		Name:      "lifecycle_transitions_total",
		Help:      "Accepted status transitions.",
	}, []string{"kind", "from", "to"})

	TransitionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gsc",
		Name:      "lifecycle_transition_failures_total",
		Help:      "Rejected or failed transition requests.",
	}, []string{"kind", "reason"})

	ReferenceCollisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gsc",
		Name:      "reference_collisions_total",
		Help:      "Reference allocations retried after a unique violation.",
	}, []string{"kind"})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gsc",
		Name:      "notification_deliveries_total",
		Help:      "Notification deliveries by channel and result.",
	}, []string{"channel", "result"})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gsc",
		Name:      "expiry_sweep_duration_seconds",
		Help:      "Duration of the stale draft expiry sweep.",
		Buckets:   prometheus.DefBuckets,
	})
)
