package workload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crud_operations_total",
			Help: "Workload operations by kind and result",
		},
		[]string{"operation", "result"},
	)

	populationGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crud_population",
			Help: "Last observed number of user records, by status (all = every record)",
		},
		[]string{"status"},
	)

	tickInterval = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crud_tick_interval_seconds",
			Help:    "Delay chosen between ticks",
			Buckets: prometheus.LinearBuckets(5, 5, 8),
		},
	)

	loopErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crud_loop_errors_total",
			Help: "Unexpected errors recovered by the scheduler loop",
		},
	)
)
