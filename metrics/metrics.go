// Package metrics exposes counters for the lifecycle operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "club_equipment_checkouts_total",
		Help: "Completed equipment checkouts.",
	})
	ReturnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "club_equipment_returns_total",
		Help: "Completed equipment returns by condition.",
	}, []string{"condition"})
	DeficienciesReportedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "club_equipment_deficiencies_reported_total",
		Help: "Deficiencies reported by severity.",
	}, []string{"severity"})
	DeficienciesResolvedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "club_equipment_deficiencies_resolved_total",
		Help: "Deficiencies resolved.",
	})
	LifecycleRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "club_equipment_lifecycle_rejections_total",
		Help: "Lifecycle operations rejected before any write.",
	}, []string{"kind"})
)
