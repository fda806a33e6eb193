package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de domínio expostos em /metrics
var (
	EventsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "events_resolved_total",
		Help: "Events moved from NEW to a finished state by lazy resolution.",
	})

	BetsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bets_created_total",
		Help: "Bets accepted and stored.",
	})

	BetsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bets_settled_total",
		Help: "Bets moved out of NEW during history reconciliation.",
	})
)
