package utils

import (
	"fmt"
	"strings"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
)

// SimulationInfo contains information about a registered simulation
type SimulationInfo struct {
	Alias  string
	Config simulation.SimulationConfig
}

// DiscoverSimulations lists every simulation in reg in name order
func DiscoverSimulations(reg *simulation.Registry) ([]SimulationInfo, error) {
	var simulations []SimulationInfo
	for _, name := range reg.List() {
		cfg, err := reg.Config(name)
		if err != nil {
			return nil, err
		}
		simulations = append(simulations, SimulationInfo{
			Alias:  alias(name),
			Config: cfg,
		})
	}
	return simulations, nil
}

// FindSimulation resolves query to a registered simulation name.
// It accepts the exact name, the name in any case, or its dashed alias.
func FindSimulation(reg *simulation.Registry, query string) (string, error) {
	names := reg.List()
	for _, name := range names {
		if name == query {
			return name, nil
		}
	}

	q := strings.TrimSpace(strings.ToLower(query))
	for _, name := range names {
		if strings.ToLower(name) == q || alias(name) == q {
			return name, nil
		}
	}

	return "", fmt.Errorf("simulation %q not found (available: %s)", query, strings.Join(names, ", "))
}

// alias turns "Humans vs Zombies" into "humans-vs-zombies"
func alias(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
