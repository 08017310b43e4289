package extract

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricSegments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "widgetchat",
	Subsystem: "extract",
	Name:      "segments_total",
	Help:      "Message segments produced by the extractor, by kind and outcome.",
}, []string{"kind", "outcome"})

func observeSegments(segments []Segment) {
	for _, seg := range segments {
		outcome := "ok"
		if seg.Err != nil {
			outcome = "decode_error"
		}
		metricSegments.WithLabelValues(string(seg.Kind), outcome).Inc()
	}
}
