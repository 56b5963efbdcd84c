package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/picogrid/outbreak-simulations/pkg/config"
	"github.com/picogrid/outbreak-simulations/pkg/logger"
	"github.com/picogrid/outbreak-simulations/pkg/output"
	"github.com/picogrid/outbreak-simulations/pkg/reporting"
	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/store"
	"github.com/picogrid/outbreak-simulations/pkg/utils"

	// Import simulations to register them
	_ "github.com/picogrid/outbreak-simulations/cmd/vaccination"
	_ "github.com/picogrid/outbreak-simulations/cmd/zombies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long: `Run an ensemble of realizations interactively or with specified parameters.

Parameters are layered: preset, then parameters file, then batch flags.
Anything still missing is prompted for, or taken from OUTBREAK_<NAME> and
the simulation defaults when OUTBREAK_SKIP_PROMPTS=true.`,
	RunE: runSimulation,
}

// batchKeys maps viper keys to simulation parameters
var batchKeys = map[string]string{
	"runs":       simulation.ParamRuns,
	"workers":    simulation.ParamWorkers,
	"seed":       simulation.ParamSeed,
	"max_events": simulation.ParamMaxEvents,
}

func init() {
	flags := runCmd.Flags()
	flags.StringP("simulation", "s", "", "simulation name to run")
	flags.StringP("params", "p", "", "parameters file (YAML)")
	flags.String("preset", "", "saved preset to start from")
	flags.Int("runs", 0, "number of realizations")
	flags.Int("workers", 0, "parallel workers (0 uses every CPU)")
	flags.Int("seed", 0, "random seed (0 picks one)")
	flags.Int("max-events", 0, "event budget per realization (0 for none)")
	flags.StringP("output", "o", "", "directory to write trajectories to")
	flags.String("format", "csv", "trajectory output format")
	flags.String("db", "", "SQLite database to record outcomes in")

	_ = viper.BindPFlag("runs", flags.Lookup("runs"))
	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("seed", flags.Lookup("seed"))
	_ = viper.BindPFlag("max_events", flags.Lookup("max-events"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("db", flags.Lookup("db"))
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	interactive := !utils.SkipPrompts()

	var preset *config.Preset
	if name, _ := cmd.Flags().GetString("preset"); name != "" {
		presets, err := config.LoadPresets()
		if err != nil {
			return fmt.Errorf("failed to load presets: %w", err)
		}
		p, ok := presets.Find(name)
		if !ok {
			return fmt.Errorf("preset %s not found", name)
		}
		preset = &p
	}

	var runFile *config.RunFile
	if path, _ := cmd.Flags().GetString("params"); path != "" {
		rf, err := config.LoadParams(path)
		if err != nil {
			return err
		}
		runFile = rf
	}

	requested, _ := cmd.Flags().GetString("simulation")
	simName, err := selectSimulation(requested, preset, runFile, interactive)
	if err != nil {
		return fmt.Errorf("failed to select simulation: %w", err)
	}

	simConfig, err := simulation.DefaultRegistry.Config(simName)
	if err != nil {
		return err
	}

	provided := mergeParameters(preset, runFile, batchOverrides())
	params, err := utils.ResolveParameters(simConfig.Parameters, provided, interactive)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	sim, err := simulation.DefaultRegistry.Get(simName)
	if err != nil {
		return fmt.Errorf("failed to get simulation: %w", err)
	}
	if err := sim.Configure(params); err != nil {
		return fmt.Errorf("failed to configure simulation: %w", err)
	}

	// Validate output settings before spending time on the ensemble
	outDir, format := viper.GetString("output"), viper.GetString("format")
	if outDir != "" && !slices.Contains(output.Formats(), format) {
		return fmt.Errorf("unknown output format %q (available: %v)", format, output.Formats())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			logger.Warn("Received interrupt signal, stopping simulation...")
			if err := sim.Stop(); err != nil {
				logger.Errorf("Failed to stop simulation: %v", err)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.LogSection(fmt.Sprintf("Starting %s", sim.Name()))
	report, err := sim.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("simulation interrupted")
		}
		return fmt.Errorf("simulation failed: %w", err)
	}

	reporting.PrintSummary(os.Stdout, report, logger.NoColor())

	if outDir != "" {
		path, err := output.WriteReport(outDir, format, report)
		if err != nil {
			return err
		}
		logger.Saved("Trajectories", path)
	}

	if dbPath := viper.GetString("db"); dbPath != "" {
		if err := saveOutcomes(context.Background(), dbPath, report); err != nil {
			return err
		}
		logger.Saved("Outcomes of batch "+report.ID.String(), dbPath)
	}

	logger.Success("Simulation completed successfully")
	return nil
}

// selectSimulation picks the simulation from the flag, the preset, the
// parameters file, or an interactive prompt, in that order
func selectSimulation(requested string, preset *config.Preset, runFile *config.RunFile, interactive bool) (string, error) {
	switch {
	case requested != "":
	case preset != nil:
		requested = preset.Simulation
	case runFile != nil && runFile.Simulation != "":
		requested = runFile.Simulation
	}
	if requested != "" {
		return utils.FindSimulation(simulation.DefaultRegistry, requested)
	}

	if !interactive {
		return "", fmt.Errorf("no simulation specified (use --simulation)")
	}

	simInfos, err := utils.DiscoverSimulations(simulation.DefaultRegistry)
	if err != nil {
		return "", err
	}
	if len(simInfos) == 0 {
		return "", fmt.Errorf("no simulations found")
	}

	// Build options for selection
	options := make([]string, len(simInfos))
	descriptions := make(map[string]string)
	for i, info := range simInfos {
		options[i] = info.Config.Name
		descriptions[info.Config.Name] = info.Config.Description
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select simulation:",
		Options: options,
		Description: func(value string, index int) string {
			return descriptions[value]
		},
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}

// batchOverrides collects the batch settings given by flag, environment or config file
func batchOverrides() map[string]interface{} {
	overrides := make(map[string]interface{})
	for key, param := range batchKeys {
		if viper.IsSet(key) {
			overrides[param] = viper.GetInt(key)
		}
	}
	return overrides
}

// mergeParameters layers preset, file and override values; later layers win
func mergeParameters(preset *config.Preset, runFile *config.RunFile, overrides map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{})
	if preset != nil {
		for k, v := range preset.Parameters {
			merged[k] = v
		}
	}
	if runFile != nil {
		for k, v := range runFile.Parameters {
			merged[k] = v
		}
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

func saveOutcomes(ctx context.Context, path string, report *simulation.Report) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("failed to record outcomes: %w", err)
	}
	return nil
}
