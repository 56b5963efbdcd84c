package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/picogrid/outbreak-simulations/pkg/config"
	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/utils"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage parameter presets",
	Long:  `Manage named parameter sets stored in $HOME/.outbreak-sim/presets.yaml`,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE:  listPresets,
}

var presetAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add or replace a preset",
	Args:  cobra.MaximumNArgs(1),
	RunE:  addPreset,
}

var presetRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a preset",
	Args:  cobra.MaximumNArgs(1),
	RunE:  removePreset,
}

func init() {
	presetAddCmd.Flags().StringP("simulation", "s", "", "simulation the preset runs")
	presetAddCmd.Flags().StringArray("set", nil, "parameter value as name=value (repeatable)")
	presetRemoveCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetAddCmd)
	presetCmd.AddCommand(presetRemoveCmd)
}

func listPresets(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadPresets()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	if len(cfg.Presets) == 0 {
		fmt.Println("No presets configured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSIMULATION\tPARAMETERS")
	_, _ = fmt.Fprintln(w, "----\t----------\t----------")

	for _, p := range cfg.Presets {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Simulation, formatParameters(p.Parameters))
	}

	return w.Flush()
}

func addPreset(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadPresets()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}
	interactive := !utils.SkipPrompts()

	var preset config.Preset
	if len(args) > 0 {
		preset.Name = args[0]
	} else if interactive {
		namePrompt := &survey.Input{
			Message: "Preset name:",
		}
		if err := survey.AskOne(namePrompt, &preset.Name, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	} else {
		return fmt.Errorf("preset name is required")
	}

	requested, _ := cmd.Flags().GetString("simulation")
	if preset.Simulation, err = selectSimulation(requested, nil, nil, interactive); err != nil {
		return err
	}
	simConfig, err := simulation.DefaultRegistry.Config(preset.Simulation)
	if err != nil {
		return err
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	if len(sets) > 0 || !interactive {
		preset.Parameters, err = parseAssignments(simConfig, sets)
	} else {
		preset.Parameters, err = utils.ResolveParameters(simConfig.Parameters, nil, true)
	}
	if err != nil {
		return err
	}

	if _, exists := cfg.Find(preset.Name); exists && interactive {
		var replace bool
		confirmPrompt := &survey.Confirm{
			Message: fmt.Sprintf("Preset %s exists. Replace it?", preset.Name),
			Default: false,
		}
		if err := survey.AskOne(confirmPrompt, &replace); err != nil {
			return err
		}
		if !replace {
			fmt.Println("Preset unchanged")
			return nil
		}
	}

	cfg.Add(preset)
	if err := config.SavePresets(cfg); err != nil {
		return fmt.Errorf("failed to save presets: %w", err)
	}

	fmt.Printf("Preset %s saved\n", preset.Name)
	return nil
}

func removePreset(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadPresets()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	if len(cfg.Presets) == 0 {
		fmt.Println("No presets to remove")
		return nil
	}

	var selected string
	if len(args) > 0 {
		selected = args[0]
	} else {
		names := make([]string, len(cfg.Presets))
		for i, p := range cfg.Presets {
			names[i] = p.Name
		}

		prompt := &survey.Select{
			Message: "Select preset to remove:",
			Options: names,
		}
		if err := survey.AskOne(prompt, &selected); err != nil {
			return err
		}
	}

	if _, ok := cfg.Find(selected); !ok {
		return fmt.Errorf("preset %s not found", selected)
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes && !utils.SkipPrompts() {
		var confirm bool
		confirmPrompt := &survey.Confirm{
			Message: fmt.Sprintf("Are you sure you want to remove %s?", selected),
			Default: false,
		}
		if err := survey.AskOne(confirmPrompt, &confirm); err != nil {
			return err
		}
		if !confirm {
			fmt.Println("Removal cancelled")
			return nil
		}
	}

	cfg.Remove(selected)
	if err := config.SavePresets(cfg); err != nil {
		return fmt.Errorf("failed to save presets: %w", err)
	}

	fmt.Printf("Preset %s removed successfully\n", selected)
	return nil
}

// parseAssignments turns name=value pairs into typed parameters checked against cfg
func parseAssignments(cfg simulation.SimulationConfig, assignments []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(assignments))
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q (want name=value)", a)
		}

		param, known := cfg.Parameter(name)
		if !known {
			return nil, fmt.Errorf("simulation %s has no parameter %s", cfg.Name, name)
		}

		var value interface{}
		var err error
		switch param.Type {
		case "integer":
			value, err = strconv.Atoi(raw)
		case "float":
			value, err = strconv.ParseFloat(raw, 64)
		case "boolean":
			value, err = strconv.ParseBool(raw)
		default:
			value = raw
		}
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		if err := param.Check(value); err != nil {
			return nil, err
		}
		params[name] = value
	}
	return params, nil
}

func formatParameters(params map[string]interface{}) string {
	if len(params) == 0 {
		return "-"
	}
	keys := maps.Keys(params)
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, params[k])
	}
	return strings.Join(parts, " ")
}
