package panel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricFrames = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "widgetchat",
	Subsystem: "panel",
	Name:      "frames_total",
	Help:      "Inbound panel WebSocket frames by type and outcome.",
}, []string{"type", "outcome"})
