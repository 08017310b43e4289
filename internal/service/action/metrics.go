package action

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricMapped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "widgetchat",
	Subsystem: "action",
	Name:      "events_total",
	Help:      "Widget action events received, by type and whether a message was produced.",
}, []string{"type", "outcome"})
