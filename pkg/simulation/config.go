package simulation

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// SimulationConfig describes a simulation and its parameters.
// Each simulation package embeds one as simulation.yaml.
type SimulationConfig struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Version     string      `yaml:"version"`
	Category    string      `yaml:"category"`
	Parameters  []Parameter `yaml:"parameters"`
}

// Parameter defines a configurable parameter for a simulation
type Parameter struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"` // integer, float, string, boolean
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
	Required    bool        `yaml:"required"`
	Min         interface{} `yaml:"min,omitempty"`
	Max         interface{} `yaml:"max,omitempty"`
	Options     []string    `yaml:"options,omitempty"` // For string enums
}

// ParseConfig parses a simulation.yaml document
func ParseConfig(data []byte) (SimulationConfig, error) {
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SimulationConfig{}, fmt.Errorf("failed to parse simulation config: %w", err)
	}
	if cfg.Name == "" {
		return SimulationConfig{}, fmt.Errorf("simulation config has no name")
	}

	seen := make(map[string]bool, len(cfg.Parameters))
	for _, p := range cfg.Parameters {
		if p.Name == "" {
			return SimulationConfig{}, fmt.Errorf("simulation %s has a parameter without a name", cfg.Name)
		}
		if seen[p.Name] {
			return SimulationConfig{}, fmt.Errorf("simulation %s declares parameter %s twice", cfg.Name, p.Name)
		}
		seen[p.Name] = true

		switch p.Type {
		case "integer", "float", "string", "boolean":
		default:
			return SimulationConfig{}, fmt.Errorf("parameter %s has unsupported type %q", p.Name, p.Type)
		}
	}

	return cfg, nil
}

// Parameter returns the named parameter descriptor
func (c SimulationConfig) Parameter(name string) (Parameter, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Defaults returns the default value of every parameter that declares one
func (c SimulationConfig) Defaults() map[string]interface{} {
	defaults := make(map[string]interface{}, len(c.Parameters))
	for _, p := range c.Parameters {
		if p.Default != nil {
			defaults[p.Name] = p.Default
		}
	}
	return defaults
}

// Validate rejects parameters the simulation does not declare and values
// that fail their descriptor checks
func (c SimulationConfig) Validate(params map[string]interface{}) error {
	for name, value := range params {
		p, ok := c.Parameter(name)
		if !ok {
			return fmt.Errorf("unknown parameter %s for simulation %s", name, c.Name)
		}
		if err := p.Check(value); err != nil {
			return err
		}
	}
	return nil
}

// Check verifies that value has the parameter's type and lies within its bounds
func (p Parameter) Check(value interface{}) error {
	switch p.Type {
	case "integer":
		v, ok := AsInt(value)
		if !ok {
			return fmt.Errorf("%s must be an integer", p.Name)
		}
		if p.Min != nil {
			if minimum, ok := AsInt(p.Min); ok && v < minimum {
				return fmt.Errorf("%s must be at least %d", p.Name, minimum)
			}
		}
		if p.Max != nil {
			if maximum, ok := AsInt(p.Max); ok && v > maximum {
				return fmt.Errorf("%s must be at most %d", p.Name, maximum)
			}
		}
	case "float":
		v, ok := AsFloat(value)
		if !ok {
			return fmt.Errorf("%s must be a number", p.Name)
		}
		if p.Min != nil {
			if minimum, ok := AsFloat(p.Min); ok && v < minimum {
				return fmt.Errorf("%s must be at least %g", p.Name, minimum)
			}
		}
		if p.Max != nil {
			if maximum, ok := AsFloat(p.Max); ok && v > maximum {
				return fmt.Errorf("%s must be at most %g", p.Name, maximum)
			}
		}
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s must be a string", p.Name)
		}
		if len(p.Options) > 0 {
			for _, opt := range p.Options {
				if s == opt {
					return nil
				}
			}
			return fmt.Errorf("%s must be one of %v", p.Name, p.Options)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s must be a boolean", p.Name)
		}
	default:
		return fmt.Errorf("unsupported parameter type: %s", p.Type)
	}
	return nil
}

// AsInt converts YAML and JSON numeric values to int.
// Floats are accepted only when they hold a whole number.
func AsInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case uint64:
		return int(val), true
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return int(val), true
	default:
		return 0, false
	}
}

// AsFloat converts YAML and JSON numeric values to float64
func AsFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
