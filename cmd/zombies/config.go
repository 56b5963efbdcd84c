package zombies

import (
	"fmt"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/ssa"
	"github.com/picogrid/outbreak-simulations/pkg/stats"
)

// Config holds the configuration for the Humans vs Zombies simulation
type Config struct {
	Humans   int
	Zombies  int
	Rates    ssa.Rates
	TMax     float64
	Ensemble stats.Ensemble
}

// ValidateAndParse validates and parses the raw parameters into a Config.
// Parameters missing from params take their simulation.yaml defaults.
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	if err := descriptor.Validate(params); err != nil {
		return nil, err
	}
	params = simulation.WithDefaults(descriptor, params)
	config := &Config{}
	var err error

	// humans
	if config.Humans, err = simulation.IntParam(params, "humans", 0); err != nil {
		return nil, err
	}
	if config.Humans < 0 {
		return nil, fmt.Errorf("humans must not be negative")
	}

	// zombies
	if config.Zombies, err = simulation.IntParam(params, "zombies", 0); err != nil {
		return nil, err
	}
	if config.Zombies < 0 {
		return nil, fmt.Errorf("zombies must not be negative")
	}

	// bite_factor
	if config.Rates.BiteFactor, err = simulation.FloatParam(params, "bite_factor", 0); err != nil {
		return nil, err
	}
	if config.Rates.BiteFactor < 0 {
		return nil, fmt.Errorf("bite_factor must be >= 0")
	}

	// kill_factor
	if config.Rates.KillFactor, err = simulation.FloatParam(params, "kill_factor", 0); err != nil {
		return nil, err
	}
	if config.Rates.KillFactor < 0 {
		return nil, fmt.Errorf("kill_factor must be >= 0")
	}

	// t_max
	if config.TMax, err = simulation.FloatParam(params, "t_max", 0); err != nil {
		return nil, err
	}
	if config.TMax <= 0 {
		return nil, fmt.Errorf("t_max must be greater than 0")
	}

	if config.Ensemble, err = simulation.ParseEnsemble(params); err != nil {
		return nil, fmt.Errorf("invalid batch settings: %w", err)
	}

	return config, nil
}

// Parameters returns the resolved configuration as simulation parameters
func (c *Config) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"humans":                  c.Humans,
		"zombies":                 c.Zombies,
		"bite_factor":             c.Rates.BiteFactor,
		"kill_factor":             c.Rates.KillFactor,
		"t_max":                   c.TMax,
		simulation.ParamRuns:      c.Ensemble.Runs,
		simulation.ParamWorkers:   c.Ensemble.Workers,
		simulation.ParamSeed:      int(c.Ensemble.Seed),
		simulation.ParamMaxEvents: c.Ensemble.MaxEvents,
	}
}
