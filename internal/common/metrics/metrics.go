// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_classifications_total",
			Help: "Total number of successful classifications by complexity bucket",
		},
		[]string{"complexity"},
	)

	ClassificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_failures_total",
			Help: "Total number of failed classifications by error code",
		},
		[]string{"error_code"},
	)

	ClassificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "classifier_duration_seconds",
			Help: "Duration of classification in seconds",
		},
		[]string{"outcome"},
	)

	RoutingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_decisions_total",
			Help: "Total number of routing decisions by execution mode",
		},
		[]string{"mode"},
	)
)
