package vaccination

import (
	"fmt"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/ssa"
	"github.com/picogrid/outbreak-simulations/pkg/stats"
)

// Config holds the configuration for the vaccination simulation
type Config struct {
	Humans     int
	Vaccinated int
	Zombies    int
	Rates      ssa.Rates
	TMax       float64
	Ensemble   stats.Ensemble
}

// ValidateAndParse validates and parses raw parameters into a Config
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	if err := descriptor.Validate(params); err != nil {
		return nil, err
	}
	params = simulation.WithDefaults(descriptor, params)
	cfg := &Config{}
	var err error

	// humans
	if cfg.Humans, err = simulation.IntParam(params, "humans", 0); err != nil {
		return nil, err
	}
	if cfg.Humans < 0 {
		return nil, fmt.Errorf("humans must not be negative")
	}

	// vaccinated
	if cfg.Vaccinated, err = simulation.IntParam(params, "vaccinated", 0); err != nil {
		return nil, err
	}
	if cfg.Vaccinated < 0 || cfg.Vaccinated > cfg.Humans {
		return nil, fmt.Errorf("vaccinated must be between 0 and humans (%d)", cfg.Humans)
	}

	// zombies
	if cfg.Zombies, err = simulation.IntParam(params, "zombies", 0); err != nil {
		return nil, err
	}
	if cfg.Zombies < 0 {
		return nil, fmt.Errorf("zombies must not be negative")
	}

	// bite_factor / kill_factor
	if cfg.Rates.BiteFactor, err = simulation.FloatParam(params, "bite_factor", 0); err != nil {
		return nil, err
	}
	if cfg.Rates.BiteFactor < 0 {
		return nil, fmt.Errorf("bite_factor must be >= 0")
	}
	if cfg.Rates.KillFactor, err = simulation.FloatParam(params, "kill_factor", 0); err != nil {
		return nil, err
	}
	if cfg.Rates.KillFactor < 0 {
		return nil, fmt.Errorf("kill_factor must be >= 0")
	}

	// vax_protection
	if cfg.Rates.VaxProtection, err = simulation.FloatParam(params, "vax_protection", 0); err != nil {
		return nil, err
	}
	if cfg.Rates.VaxProtection < 0 || cfg.Rates.VaxProtection > 1 {
		return nil, fmt.Errorf("vax_protection must be between 0.0 and 1.0")
	}

	// t_max
	if cfg.TMax, err = simulation.FloatParam(params, "t_max", 0); err != nil {
		return nil, err
	}
	if cfg.TMax <= 0 {
		return nil, fmt.Errorf("t_max must be greater than 0")
	}

	if cfg.Ensemble, err = simulation.ParseEnsemble(params); err != nil {
		return nil, fmt.Errorf("invalid batch settings: %w", err)
	}

	return cfg, nil
}

// Parameters returns the resolved configuration as simulation parameters
func (c *Config) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"humans":                  c.Humans,
		"vaccinated":              c.Vaccinated,
		"zombies":                 c.Zombies,
		"bite_factor":             c.Rates.BiteFactor,
		"kill_factor":             c.Rates.KillFactor,
		"vax_protection":          c.Rates.VaxProtection,
		"t_max":                   c.TMax,
		simulation.ParamRuns:      c.Ensemble.Runs,
		simulation.ParamWorkers:   c.Ensemble.Workers,
		simulation.ParamSeed:      int(c.Ensemble.Seed),
		simulation.ParamMaxEvents: c.Ensemble.MaxEvents,
	}
}
