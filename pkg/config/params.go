package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunFile is a parameters file passed to the run command
type RunFile struct {
	Simulation string                 `yaml:"simulation,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters"`
}

// LoadParams reads a run file. The simulation name is optional.
func LoadParams(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}

	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse parameters file: %w", err)
	}
	if rf.Parameters == nil {
		rf.Parameters = make(map[string]interface{})
	}
	return &rf, nil
}
