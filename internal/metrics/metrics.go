// Package metrics exposes Prometheus counters for the reservation actions.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wild_oasis",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wild_oasis",
			Name:      "reservation_updated_total",
			Help:      "Count of reservations updated by guests.",
		},
	)

	reservationDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wild_oasis",
			Name:      "reservation_deleted_total",
			Help:      "Count of reservations deleted by guests.",
		},
	)

	profileUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wild_oasis",
			Name:      "profile_updated_total",
			Help:      "Count of guest profile updates.",
		},
	)

	actionFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wild_oasis",
			Name:      "action_failed_total",
			Help:      "Count of failed actions by action and reason.",
		},
		[]string{"action", "reason"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationCreated,
			reservationUpdated,
			reservationDeleted,
			profileUpdated,
			actionFailed,
		)
	})
}

func IncReservationCreated() {
	reservationCreated.Inc()
}

func IncReservationUpdated() {
	reservationUpdated.Inc()
}

func IncReservationDeleted() {
	reservationDeleted.Inc()
}

func IncProfileUpdated() {
	profileUpdated.Inc()
}

func IncActionFailed(action, reason string) {
	actionFailed.WithLabelValues(action, reason).Inc()
}
