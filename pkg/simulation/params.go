package simulation

import (
	"fmt"
	"math/rand/v2"

	"github.com/picogrid/outbreak-simulations/pkg/stats"
)

// Batch parameter names shared by every simulation
const (
	ParamRuns      = "runs"
	ParamWorkers   = "workers"
	ParamSeed      = "seed"
	ParamMaxEvents = "max_events"
)

// WithDefaults returns params layered over the descriptor defaults
func WithDefaults(cfg SimulationConfig, params map[string]interface{}) map[string]interface{} {
	merged := cfg.Defaults()
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

// IntParam reads an integer parameter, returning def when it is absent
func IntParam(params map[string]interface{}, name string, def int) (int, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	i, ok := AsInt(v)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return i, nil
}

// FloatParam reads a numeric parameter, returning def when it is absent
func FloatParam(params map[string]interface{}, name string, def float64) (float64, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := AsFloat(v)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return f, nil
}

// ParseEnsemble reads the batch parameters.
// A missing or zero seed is replaced by a random one so every report can be replayed.
func ParseEnsemble(params map[string]interface{}) (stats.Ensemble, error) {
	var e stats.Ensemble
	var err error

	if e.Runs, err = IntParam(params, ParamRuns, 1); err != nil {
		return e, err
	}
	if e.Workers, err = IntParam(params, ParamWorkers, 0); err != nil {
		return e, err
	}
	if e.MaxEvents, err = IntParam(params, ParamMaxEvents, 0); err != nil {
		return e, err
	}

	seed, err := IntParam(params, ParamSeed, 0)
	if err != nil {
		return e, err
	}
	if seed < 0 {
		return e, fmt.Errorf("seed must not be negative")
	}
	e.Seed = uint64(seed)
	if e.Seed == 0 {
		// below 2^63 so it round-trips through integer parameters and SQLite
		e.Seed = rand.Uint64()>>1 | 1
	}

	if err := e.Validate(); err != nil {
		return e, err
	}
	return e, nil
}
