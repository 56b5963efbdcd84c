package vaccination

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/picogrid/outbreak-simulations/pkg/logger"
	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/ssa"
)

//go:embed simulation.yaml
var descriptorYAML []byte

var descriptor = mustParseDescriptor()

func mustParseDescriptor() simulation.SimulationConfig {
	cfg, err := simulation.ParseConfig(descriptorYAML)
	if err != nil {
		panic(fmt.Sprintf("vaccination: invalid embedded simulation.yaml: %v", err))
	}
	return cfg
}

// VaccinationSimulation runs ensembles of the three-population model
type VaccinationSimulation struct {
	config *Config
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewVaccinationSimulation creates a new, unconfigured instance
func NewVaccinationSimulation() simulation.Simulation {
	return &VaccinationSimulation{}
}

// Name returns the simulation name
func (s *VaccinationSimulation) Name() string {
	return descriptor.Name
}

// Description returns the simulation description
func (s *VaccinationSimulation) Description() string {
	return descriptor.Description
}

// Configure sets up the simulation with provided parameters
func (s *VaccinationSimulation) Configure(params map[string]interface{}) error {
	cfg, err := ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = cfg
	return nil
}

// Run executes the configured ensemble
func (s *VaccinationSimulation) Run(ctx context.Context) (*simulation.Report, error) {
	if s.config == nil {
		return nil, fmt.Errorf("simulation %s is not configured", s.Name())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	cfg := s.config
	log := logger.WithPrefix("vaccination").WithField("seed", cfg.Ensemble.Seed)
	log.Infof("Starting %d realizations from H=%d (V=%d) Z=%d, protection %.2f",
		cfg.Ensemble.Runs, cfg.Humans, cfg.Vaccinated, cfg.Zombies, cfg.Rates.VaxProtection)

	report := simulation.NewReport(s.Name(), cfg.Ensemble.Seed, cfg.Parameters())

	realize := func(src ssa.Source, opts ...ssa.Option) (ssa.Trajectory, error) {
		return ssa.SimulateWithProtection(cfg.Humans, cfg.Vaccinated, cfg.Zombies, cfg.Rates, cfg.TMax, src, opts...)
	}

	bar := logger.NewProgressBar(cfg.Ensemble.Runs, "Realizations")
	results, err := cfg.Ensemble.Run(ctx, realize, bar.Increment)
	bar.Finish()
	if err != nil {
		return nil, fmt.Errorf("ensemble failed: %w", err)
	}

	report.Complete(results)

	resisted := 0
	for _, r := range results {
		resisted += r.Events.Resisted
	}
	log.Debugf("%d bites resisted across %d runs", resisted, len(results))

	return report, nil
}

// Stop cancels a running ensemble
func (s *VaccinationSimulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func init() {
	if err := simulation.DefaultRegistry.Register(descriptor, NewVaccinationSimulation); err != nil {
		logger.Errorf("Failed to register simulation: %v", err)
	}
}
