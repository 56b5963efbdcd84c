package simulation

import (
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Factory creates a fresh, unconfigured simulation
type Factory func() Simulation

type entry struct {
	config  SimulationConfig
	factory Factory
}

// Registry manages available simulations and their parameter descriptors
type Registry struct {
	mu          sync.RWMutex
	simulations map[string]entry
}

// NewRegistry creates a new simulation registry
func NewRegistry() *Registry {
	return &Registry{
		simulations: make(map[string]entry),
	}
}

// Register adds a simulation under cfg.Name
func (r *Registry) Register(cfg SimulationConfig, factory Factory) error {
	if cfg.Name == "" {
		return fmt.Errorf("simulation name is required")
	}
	if factory == nil {
		return fmt.Errorf("simulation %s has no factory", cfg.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.simulations[cfg.Name]; exists {
		return fmt.Errorf("simulation %s already registered", cfg.Name)
	}

	r.simulations[cfg.Name] = entry{config: cfg, factory: factory}
	return nil
}

// Get returns a new instance of the requested simulation
func (r *Registry) Get(name string) (Simulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.simulations[name]
	if !exists {
		return nil, fmt.Errorf("simulation %s not found", name)
	}

	return e.factory(), nil
}

// Config returns the descriptor the simulation was registered with
func (r *Registry) Config(name string) (SimulationConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.simulations[name]
	if !exists {
		return SimulationConfig{}, fmt.Errorf("simulation %s not found", name)
	}
	return e.config, nil
}

// List returns all registered simulation names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := maps.Keys(r.simulations)
	slices.Sort(names)
	return names
}

// DefaultRegistry is the global simulation registry
var DefaultRegistry = NewRegistry()
