// Package metrics exposes Prometheus instrumentation for the simulation
// pipeline. The library registers its collectors on a private registry; a
// host that wants exposition serves Registry however it likes. Nothing here
// is required for correctness.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every careflow collector.
var Registry = prometheus.NewRegistry()

// Handler serves the careflow registry in Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

var (
	// SimulationRuns counts completed simulation runs (burn-in + horizon).
	SimulationRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "careflow",
		Name:      "simulation_runs_total",
		Help:      "Completed cohort simulation runs.",
	})

	// SweepPoints counts evaluated sensitivity grid points.
	SweepPoints = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "careflow",
		Name:      "sweep_points_total",
		Help:      "Sensitivity analysis grid points evaluated.",
	})

	// NumericWarnings counts recoverable numeric conditions by kind
	// ("sanitize" for NaN/Inf replacement, "clamp" for out-of-range
	// probabilities).
	NumericWarnings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "careflow",
		Name:      "numeric_warnings_total",
		Help:      "Recoverable numeric conditions, logged and repaired.",
	}, []string{"kind"})
)

func init() {
	Registry.MustRegister(SimulationRuns, SweepPoints, NumericWarnings)
}
