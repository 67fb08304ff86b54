package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aidrug_events_total",
		Help: "Selection events applied, by type and outcome",
	}, []string{"type", "outcome"})

	viewRecomputesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aidrug_view_recomputes_total",
		Help: "Derived view recomputations, by view",
	}, []string{"view"})

	dispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aidrug_dispatch_duration_seconds",
		Help:    "Time to apply one event and recompute its dependent views",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	sessionsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aidrug_sessions_live",
		Help: "Current number of dashboard sessions",
	})

	sessionsEvictedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aidrug_sessions_evicted_total",
		Help: "Sessions removed by the sweeper or the size bound",
	}, []string{"reason"})
)
