package zombies

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
		panic(fmt.Sprintf("zombies: invalid embedded simulation.yaml: %v", err))
	}
	return cfg
}

// ZombieSimulation runs ensembles of the two-population model
type ZombieSimulation struct {
	config *Config
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewZombieSimulation creates a new, unconfigured instance
func NewZombieSimulation() simulation.Simulation {
	return &ZombieSimulation{}
}

// Name returns the simulation name
func (s *ZombieSimulation) Name() string {
	return descriptor.Name
}

// Description returns the simulation description
func (s *ZombieSimulation) Description() string {
	return descriptor.Description
}

// Configure sets up the simulation with provided parameters
func (s *ZombieSimulation) Configure(params map[string]interface{}) error {
	config, err := ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = config
	return nil
}

// Run executes the configured ensemble
func (s *ZombieSimulation) Run(ctx context.Context) (*simulation.Report, error) {
	if s.config == nil {
		return nil, fmt.Errorf("simulation %s is not configured", s.Name())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	cfg := s.config
	log := logger.WithPrefix("zombies").WithFields(map[string]interface{}{
		"seed": cfg.Ensemble.Seed,
		"runs": cfg.Ensemble.Runs,
	})
	log.Infof("Starting %d realizations from H=%d Z=%d until t=%g", cfg.Ensemble.Runs, cfg.Humans, cfg.Zombies, cfg.TMax)

	report := simulation.NewReport(s.Name(), cfg.Ensemble.Seed, cfg.Parameters())

	realize := func(src ssa.Source, opts ...ssa.Option) (ssa.Trajectory, error) {
		return ssa.Simulate(cfg.Humans, cfg.Zombies, cfg.Rates, cfg.TMax, src, opts...)
	}

	bar := logger.NewProgressBar(cfg.Ensemble.Runs, "Realizations")
	results, err := cfg.Ensemble.Run(ctx, realize, bar.Increment)
	bar.Finish()
	if err != nil {
		return nil, fmt.Errorf("ensemble failed: %w", err)
	}

	report.Complete(results)
	log.Debugf("Finished in %s", report.Finished.Sub(report.Started))
	return report, nil
}

// Stop cancels a running ensemble
func (s *ZombieSimulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// init registers the simulation
func init() {
	err := simulation.DefaultRegistry.Register(descriptor, NewZombieSimulation)
	if err != nil {
		logger.Errorf("Failed to register simulation: %v", err)
		return
	}
}
