package collection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tryo_collection_mutations_total",
			Help: "Collection operations by collection, operation and outcome.",
		},
		[]string{"collection", "op", "outcome"},
	)

	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tryo_collection_loads_total",
			Help: "Collection loads from the store by collection and outcome.",
		},
		[]string{"collection", "outcome"},
	)

	corruptRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tryo_collection_corrupt_recoveries_total",
			Help: "Stored values that decoded with dropped elements or were reset to empty.",
		},
		[]string{"collection"},
	)
)
