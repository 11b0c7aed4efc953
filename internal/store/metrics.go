package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tryo_store_operations_total",
			Help: "Total store operations by backend, operation and result.",
		},
		[]string{"backend", "op", "result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tryo_store_operation_duration_seconds",
			Help:    "Store operation latency including the retry.",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"backend", "op"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tryo_store_retries_total",
			Help: "Total store operations retried after a transient failure.",
		},
		[]string{"backend", "op"},
	)
)
