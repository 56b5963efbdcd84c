package simulation

import (
	"context"
)

// Simulation defines the interface that all simulations must implement
type Simulation interface {
	// Name returns the name of the simulation
	Name() string

	// Description returns a brief description of what the simulation models
	Description() string

	// Configure validates and stores the provided parameters
	Configure(params map[string]interface{}) error

	// Run executes the configured ensemble of realizations and returns its report
	Run(ctx context.Context) (*Report, error)

	// Stop asks a running simulation to finish after the realizations in flight
	Stop() error
}
