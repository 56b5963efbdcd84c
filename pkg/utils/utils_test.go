package utils

import (
	"context"
	"strings"
	"testing"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
)

type stubSimulation struct{}

func (stubSimulation) Name() string                                    { return "stub" }
func (stubSimulation) Description() string                             { return "" }
func (stubSimulation) Configure(map[string]interface{}) error          { return nil }
func (stubSimulation) Run(context.Context) (*simulation.Report, error) { return nil, nil }
func (stubSimulation) Stop() error                                     { return nil }

func newTestRegistry(t *testing.T, names ...string) *simulation.Registry {
	t.Helper()
	reg := simulation.NewRegistry()
	for _, name := range names {
		cfg := simulation.SimulationConfig{Name: name}
		if err := reg.Register(cfg, func() simulation.Simulation { return stubSimulation{} }); err != nil {
			t.Fatalf("Failed to register %s: %v", name, err)
		}
	}
	return reg
}

func TestFindSimulation(t *testing.T) {
	reg := newTestRegistry(t, "Humans vs Zombies", "Humans vs Zombies with Vaccination")

	tests := []struct {
		query string
		want  string
	}{
		{"Humans vs Zombies", "Humans vs Zombies"},
		{"humans vs zombies", "Humans vs Zombies"},
		{"humans-vs-zombies-with-vaccination", "Humans vs Zombies with Vaccination"},
	}
	for _, tt := range tests {
		got, err := FindSimulation(reg, tt.query)
		if err != nil {
			t.Errorf("FindSimulation(%q): unexpected error: %v", tt.query, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FindSimulation(%q): expected %q, got %q", tt.query, tt.want, got)
		}
	}

	if _, err := FindSimulation(reg, "werewolves"); err == nil || !strings.Contains(err.Error(), "available") {
		t.Errorf("Expected a not found error listing simulations, got %v", err)
	}
}

func TestDiscoverSimulations(t *testing.T) {
	reg := newTestRegistry(t, "b sim", "a sim")

	infos, err := DiscoverSimulations(reg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 simulations, got %d", len(infos))
	}
	if infos[0].Config.Name != "a sim" || infos[0].Alias != "a-sim" {
		t.Errorf("Unexpected first entry %+v", infos[0])
	}
}

func testParameters() []simulation.Parameter {
	return []simulation.Parameter{
		{Name: "humans", Type: "integer", Default: 500, Required: true, Min: 0},
		{Name: "bite_factor", Type: "float", Default: 0.0005, Min: 0},
		{Name: "label", Type: "string"},
		{Name: "verbose", Type: "boolean", Default: false},
	}
}

func TestResolveParametersNonInteractive(t *testing.T) {
	t.Setenv("OUTBREAK_BITE_FACTOR", "0.25")

	got, err := ResolveParameters(testParameters(), map[string]interface{}{"humans": 10, "extra": 1}, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got["humans"] != 10 {
		t.Errorf("Expected provided humans=10, got %v", got["humans"])
	}
	if got["bite_factor"] != 0.25 {
		t.Errorf("Expected bite_factor from the environment, got %v", got["bite_factor"])
	}
	if got["verbose"] != false {
		t.Errorf("Expected default verbose=false, got %v", got["verbose"])
	}
	if _, ok := got["label"]; ok {
		t.Errorf("Expected optional label without default to be omitted")
	}
	if got["extra"] != 1 {
		t.Errorf("Expected unknown provided parameters to be kept")
	}
}

func TestResolveParametersErrors(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		provided map[string]interface{}
		params   []simulation.Parameter
		wantErr  string
	}{
		{
			name:     "provided below minimum",
			provided: map[string]interface{}{"humans": -1},
			params:   testParameters(),
			wantErr:  "at least",
		},
		{
			name:    "unparsable environment value",
			env:     "many",
			params:  testParameters(),
			wantErr: "OUTBREAK_HUMANS",
		},
		{
			name:    "required without default",
			params:  []simulation.Parameter{{Name: "humans", Type: "integer", Required: true}},
			wantErr: "required parameter humans",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OUTBREAK_HUMANS", tt.env)
			_, err := ResolveParameters(tt.params, tt.provided, false)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSkipPromptsFromEnvironment(t *testing.T) {
	t.Setenv("OUTBREAK_SKIP_PROMPTS", "true")
	if !SkipPrompts() {
		t.Errorf("Expected prompts to be skipped")
	}
}
