package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
)

const (
	envPrefix      = "OUTBREAK_"
	envSkipPrompts = "OUTBREAK_SKIP_PROMPTS"
)

// SkipPrompts reports whether parameters must be resolved without asking:
// OUTBREAK_SKIP_PROMPTS is true or stdin is not a terminal.
func SkipPrompts() bool {
	if skip, err := strconv.ParseBool(os.Getenv(envSkipPrompts)); err == nil && skip {
		return true
	}
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

// ResolveParameters fills in every parameter.
// Values in provided win, then OUTBREAK_<NAME> environment variables; the rest
// are prompted for, or take their defaults when prompting is skipped.
func ResolveParameters(params []simulation.Parameter, provided map[string]interface{}, interactive bool) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(params))

	for _, param := range params {
		if v, ok := provided[param.Name]; ok {
			if err := param.Check(v); err != nil {
				return nil, err
			}
			result[param.Name] = v
			continue
		}

		value, err := resolveParameter(param, interactive)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", param.Name, err)
		}
		if value != nil {
			result[param.Name] = value
		}
	}

	// keep provided values the descriptor does not know; Configure rejects them
	for k, v := range provided {
		if _, ok := result[k]; !ok {
			result[k] = v
		}
	}

	return result, nil
}

// PromptForParameters prompts the user for simulation parameters
func PromptForParameters(params []simulation.Parameter) (map[string]interface{}, error) {
	return ResolveParameters(params, nil, !SkipPrompts())
}

func resolveParameter(param simulation.Parameter, interactive bool) (interface{}, error) {
	envKey := envPrefix + strings.ToUpper(param.Name)
	if envValue := os.Getenv(envKey); envValue != "" {
		parsed, err := parseEnvValue(envValue, param)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envKey, err)
		}
		if err := param.Check(parsed); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envKey, err)
		}
		if !interactive {
			return parsed, nil
		}
		// the environment value becomes the prompt default
		param.Default = parsed
	}

	if !interactive {
		if param.Default != nil {
			return param.Default, nil
		}
		if param.Required {
			return nil, fmt.Errorf("required parameter %s not provided and no default available", param.Name)
		}
		return nil, nil
	}

	switch param.Type {
	case "integer":
		return promptInteger(param)
	case "float":
		return promptFloat(param)
	case "string":
		return promptString(param)
	case "boolean":
		return promptBoolean(param)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

// parseEnvValue parses an environment variable value according to the parameter type
func parseEnvValue(value string, param simulation.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		return strconv.Atoi(value)
	case "float":
		return strconv.ParseFloat(value, 64)
	case "string":
		return value, nil
	case "boolean":
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

// checkInput validates raw prompt text against the parameter
func checkInput(param simulation.Parameter) survey.Validator {
	return func(val interface{}) error {
		s, _ := val.(string)
		parsed, err := parseEnvValue(strings.TrimSpace(s), param)
		if err != nil {
			return fmt.Errorf("invalid %s value", param.Type)
		}
		return param.Check(parsed)
	}
}

func promptInteger(param simulation.Parameter) (int, error) {
	defaultStr := ""
	if v, ok := simulation.AsInt(param.Default); ok {
		defaultStr = strconv.Itoa(v)
	}

	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultStr,
	}

	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.Required), survey.WithValidator(checkInput(param))); err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(strings.TrimSpace(result))
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	return value, nil
}

func promptFloat(param simulation.Parameter) (float64, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultStr,
	}

	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.Required), survey.WithValidator(checkInput(param))); err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(result), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}
	return value, nil
}

func promptString(param simulation.Parameter) (string, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	// If options are provided, use a select prompt
	if len(param.Options) > 0 {
		prompt := &survey.Select{
			Message: param.Description,
			Options: param.Options,
			Default: defaultStr,
		}

		var result string
		if err := survey.AskOne(prompt, &result); err != nil {
			return "", err
		}
		return result, nil
	}

	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultStr,
	}

	var validators []survey.Validator
	if param.Required {
		validators = append(validators, survey.Required)
	}

	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.ComposeValidators(validators...))); err != nil {
		return "", err
	}
	return result, nil
}

func promptBoolean(param simulation.Parameter) (bool, error) {
	defaultBool, _ := param.Default.(bool)

	prompt := &survey.Confirm{
		Message: param.Description,
		Default: defaultBool,
	}

	var result bool
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}
