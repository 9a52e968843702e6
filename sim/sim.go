// Package sim runs complete simulations: burn-in to a working steady state,
// then a measured horizon whose weekly states feed the results calculator.
package sim

import (
	"fmt"

	"github.com/careflow-xyz/go-careflow/engine"
	"github.com/careflow-xyz/go-careflow/metrics"
	"github.com/careflow-xyz/go-careflow/model"
	"github.com/careflow-xyz/go-careflow/results"
)

// DefaultBurnInWeeks lets queues and stage stocks reach equilibrium before
// any accumulator is read.
const DefaultBurnInWeeks = 52

// Config describes one simulation run.
type Config struct {
	// Weeks is the measured horizon after burn-in.
	Weeks int
	// Population is the catchment size generating incidence.
	Population float64
	// BurnInWeeks overrides the default warm-up when non-negative and set
	// explicitly via WithBurnIn. The zero Config uses the default.
	BurnInWeeks int
	// Initial replaces the standard initial state when non-nil. Burn-in
	// still applies on top of it.
	Initial *model.State

	burnInSet bool
}

// WithBurnIn returns a copy of the config with an explicit warm-up length.
// Zero is valid and skips burn-in entirely.
func (c Config) WithBurnIn(weeks int) Config {
	c.BurnInWeeks = weeks
	c.burnInSet = true
	return c
}

// BurnIn resolves the effective warm-up length for this config.
func (c Config) BurnIn() int {
	if !c.burnInSet {
		return DefaultBurnInWeeks
	}
	if c.BurnInWeeks < 0 {
		return 0
	}
	return c.BurnInWeeks
}

// Run executes a full simulation and returns its results. Parameters are
// sanitized on a copy, so callers can reuse the same Parameters value across
// runs and goroutines. Accumulators reset at the burn-in boundary: deaths,
// resolutions, patient-days and costs cover the measured horizon only, while
// stocks and queue backlogs carry over.
func Run(p model.Parameters, cfg Config) (*results.Results, error) {
	if cfg.Weeks <= 0 {
		return nil, fmt.Errorf("sim: horizon must be positive, got %d weeks", cfg.Weeks)
	}
	if cfg.Population < 0 {
		return nil, fmt.Errorf("sim: population must be non-negative, got %v", cfg.Population)
	}

	model.Sanitize(&p)

	var s model.State
	if cfg.Initial != nil {
		s = *cfg.Initial
	} else {
		s = model.InitialState(p, cfg.Population)
	}

	burnIn := cfg.BurnIn()
	for i := 0; i < burnIn; i++ {
		s = engine.Step(s, p, cfg.Population)
	}
	s = s.ResetAccumulators()

	states := make([]model.State, 0, cfg.Weeks)
	for i := 0; i < cfg.Weeks; i++ {
		s = engine.Step(s, p, cfg.Population)
		states = append(states, s)
	}

	metrics.SimulationRuns.Inc()
	return results.Build(p, states, cfg.Population, cfg.Weeks, burnIn), nil
}
