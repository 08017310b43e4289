package render

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "widgetchat",
		Subsystem: "render",
		Name:      "trees_total",
		Help:      "Widget trees rendered, by outcome.",
	}, []string{"outcome"})
	metricSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "widgetchat",
		Subsystem: "render",
		Name:      "skipped_nodes_total",
		Help:      "Widget nodes rendered as nothing because they were invalid or unknown.",
	}, []string{"type"})
)
