package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	dirName     = ".outbreak-sim"
	presetsFile = "presets.yaml"
)

// Preset is a named set of parameters for one simulation
type Preset struct {
	Name       string                 `yaml:"name"`
	Simulation string                 `yaml:"simulation"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// Config holds the saved presets
type Config struct {
	Presets []Preset `yaml:"presets"`
}

// Dir returns the per-user configuration directory
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, dirName), nil
}

// LoadPresets loads presets from the default location
func LoadPresets() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadPresetsFromFile(filepath.Join(dir, presetsFile))
}

// LoadPresetsFromFile loads presets from a specific file.
// A missing file yields the built-in presets.
func LoadPresetsFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse presets file: %w", err)
	}

	seen := make(map[string]bool, len(config.Presets))
	for i, p := range config.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d has no name", i+1)
		}
		if p.Simulation == "" {
			return nil, fmt.Errorf("preset %q has no simulation", p.Name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		seen[p.Name] = true
	}

	return &config, nil
}

// SavePresets saves presets to the default location
func SavePresets(config *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return SavePresetsToFile(config, filepath.Join(dir, presetsFile))
}

// SavePresetsToFile writes presets to path, creating its directory
func SavePresetsToFile(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}
	return nil
}

// Find returns the preset with the given name
func (c *Config) Find(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Add stores p, replacing a preset with the same name
func (c *Config) Add(p Preset) {
	for i := range c.Presets {
		if c.Presets[i].Name == p.Name {
			c.Presets[i] = p
			return
		}
	}
	c.Presets = append(c.Presets, p)
}

// Remove deletes the named preset and reports whether it existed
func (c *Config) Remove(name string) bool {
	for i, p := range c.Presets {
		if p.Name == name {
			c.Presets = append(c.Presets[:i], c.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// getDefaultConfig returns the built-in presets
func getDefaultConfig() *Config {
	return &Config{
		Presets: []Preset{
			{
				Name:       "outbreak",
				Simulation: "Humans vs Zombies",
				Parameters: map[string]interface{}{
					"humans":      500,
					"zombies":     5,
					"bite_factor": 0.0005,
					"kill_factor": 0.0004,
				},
			},
			{
				Name:       "stalemate",
				Simulation: "Humans vs Zombies",
				Parameters: map[string]interface{}{
					"humans":      100,
					"zombies":     100,
					"bite_factor": 0.001,
					"kill_factor": 0.001,
				},
			},
			{
				Name:       "vaccination-drive",
				Simulation: "Humans vs Zombies with Vaccination",
				Parameters: map[string]interface{}{
					"humans":         500,
					"vaccinated":     400,
					"zombies":        5,
					"vax_protection": 0.9,
				},
			},
		},
	}
}
