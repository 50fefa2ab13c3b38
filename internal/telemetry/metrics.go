// Package telemetry exposes Prometheus counters for the daemon
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Triggers counts trigger events by command name
	Triggers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabembed_triggers_total",
		Help: "Trigger events received, by command.",
	}, []string{"command"})

	// Transforms counts transformer outcomes: transformed or skipped
	Transforms = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabembed_transforms_total",
		Help: "URL transformation outcomes.",
	}, []string{"outcome"})

	// Navigations counts tab navigations by status
	Navigations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabembed_navigations_total",
		Help: "Tab navigations issued, by status.",
	}, []string{"status"})
)

// Handler returns the /metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
