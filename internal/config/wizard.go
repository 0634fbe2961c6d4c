package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix"`
}

// Wizard runs the interactive setup wizard.
// If reader is nil, reads from os.Stdin.
func Wizard(reader io.Reader) error {
	if reader == nil {
		reader = os.Stdin
	}
	scanner := bufio.NewScanner(reader)

	fmt.Println("ProspectKit Setup Wizard")
	fmt.Println()
	fmt.Println("Let's get you set up in about 60 seconds.")
	fmt.Println()
	fmt.Println(strings.Repeat("-", 48))
	fmt.Println()

	// Step 1: AI Provider
	fmt.Println("Step 1/3: AI Provider")
	fmt.Println("  Which AI provider do you want to use?")
	fmt.Println("  [1] OpenAI GPT-4o (recommended, web search)")
	fmt.Println("  [2] Anthropic Claude")
	fmt.Println("  [3] Ollama (local, free)")
	fmt.Println("  [4] Skip for now")
	fmt.Print("  Choice: ")

	scanner.Scan()
	choice := strings.TrimSpace(scanner.Text())

	switch choice {
	case "1":
		viper.Set("provider", "openai")
		fmt.Print("  Paste your OpenAI API key (sk-...): ")
		scanner.Scan()
		key := strings.TrimSpace(scanner.Text())
		if key != "" {
			viper.Set("api_keys.openai", key)
			fmt.Println("  API key saved")
		}
	case "2":
		viper.Set("provider", "anthropic")
		fmt.Print("  Paste your Anthropic API key (sk-ant-...): ")
		scanner.Scan()
		key := strings.TrimSpace(scanner.Text())
		if key != "" {
			viper.Set("api_keys.anthropic", key)
			fmt.Println("  API key saved")
		}
	case "3":
		viper.Set("provider", "ollama")
		fmt.Print("  Ollama host (default: http://localhost:11434): ")
		scanner.Scan()
		host := strings.TrimSpace(scanner.Text())
		if host != "" {
			viper.Set("ollama.host", host)
		} else {
			viper.Set("ollama.host", "http://localhost:11434")
		}
		fmt.Println("  Ollama configured")
	default:
		fmt.Println("  Skipped")
	}
	fmt.Println()

	// Step 2: Directories
	fmt.Println("Step 2/3: Directories (optional)")
	fmt.Print("  Input directory for text exports (default: input): ")
	scanner.Scan()
	inputDir := strings.TrimSpace(scanner.Text())
	if inputDir != "" {
		viper.Set("input_dir", inputDir)
	}
	fmt.Print("  Results directory for generated workbooks (default: Results): ")
	scanner.Scan()
	resultsDir := strings.TrimSpace(scanner.Text())
	if resultsDir != "" {
		viper.Set("results_dir", resultsDir)
	}
	fmt.Println()

	// Save config
	if err := SaveConfig(); err != nil {
		return fmt.Errorf("could not save config: %w", err)
	}

	// Step 3: Done
	fmt.Println("Step 3/3: Done!")
	fmt.Println(strings.Repeat("-", 48))
	fmt.Println()
	fmt.Println("ProspectKit is ready!")
	fmt.Println()
	fmt.Println("Quick start:")
	fmt.Println("  prospect extract --all              (raw exports -> workbook)")
	fmt.Println("  prospect enrich investors.xlsx      (AI investor research)")
	fmt.Println("  prospect bios --input urls.xlsx     (LinkedIn bio fetch)")
	fmt.Println()
	fmt.Printf("Config file: %s\n", ConfigPath())
	fmt.Println("Type 'prospect config show' to see all settings.")

	return nil
}

// WizardNonInteractive sets up config with defaults only (no user input).
func WizardNonInteractive() error {
	viper.Set("provider", "openai")
	viper.Set("output.color", true)
	viper.Set("output.format", "text")
	return SaveConfig()
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	provider := viper.GetString("provider")

	// Check AI provider key
	switch provider {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			key = viper.GetString("api_keys.openai")
		}
		if key == "" {
			issues = append(issues, ConfigIssue{
				Key:      "ai.provider",
				Severity: "error",
				Message:  fmt.Sprintf("provider is %q but OPENAI_API_KEY is not set", provider),
				Fix:      "export OPENAI_API_KEY=sk-...\nOr: prospect config set api_keys.openai sk-...",
			})
		} else {
			issues = append(issues, ConfigIssue{
				Key:      "ai.provider",
				Severity: "info",
				Message:  "OpenAI API key configured",
			})
		}
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			key = viper.GetString("api_keys.anthropic")
		}
		if key == "" {
			issues = append(issues, ConfigIssue{
				Key:      "ai.provider",
				Severity: "error",
				Message:  fmt.Sprintf("provider is %q but ANTHROPIC_API_KEY is not set", provider),
				Fix:      "export ANTHROPIC_API_KEY=sk-ant-...",
			})
		}
	case "ollama":
		issues = append(issues, ConfigIssue{
			Key:      "ai.provider",
			Severity: "info",
			Message:  "Ollama configured (no API key needed)",
		})
	}

	// Check input directory
	inputDir := viper.GetString("input_dir")
	if inputDir == "" {
		inputDir = "input"
	}
	if _, err := os.Stat(inputDir); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "input_dir",
			Severity: "warning",
			Message:  fmt.Sprintf("input directory %q does not exist — prospect extract --all will find nothing", inputDir),
			Fix:      fmt.Sprintf("mkdir %s", inputDir),
		})
	}

	return issues
}

// ToEnv returns all config values as a map of env var name -> value.
func ToEnv() map[string]string {
	env := make(map[string]string)

	if p := viper.GetString("provider"); p != "" {
		env["PROSPECT_PROVIDER"] = p
	}
	if m := viper.GetString("model"); m != "" {
		env["PROSPECT_MODEL"] = m
	}
	if k := viper.GetString("api_keys.openai"); k != "" {
		env["OPENAI_API_KEY"] = k
	}
	if k := viper.GetString("api_keys.anthropic"); k != "" {
		env["ANTHROPIC_API_KEY"] = k
	}
	if h := viper.GetString("ollama.host"); h != "" {
		env["OLLAMA_HOST"] = h
	}
	if d := viper.GetString("input_dir"); d != "" {
		env["PROSPECT_INPUT_DIR"] = d
	}
	if d := viper.GetString("results_dir"); d != "" {
		env["PROSPECT_RESULTS_DIR"] = d
	}

	return env
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig resets all config to defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	// Reset viper defaults
	viper.Set("provider", "openai")
	viper.Set("model", "gpt-4o")
	viper.Set("output.color", true)
	viper.Set("output.format", "text")
	return nil
}

// SaveConfig writes the current config to ~/.prospect/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	// Set secure permissions
	os.Chmod(path, 0600)
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns a formatted string of the current configuration.
func ShowConfig() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n\n", ConfigPath()))

	sb.WriteString("AI\n")
	sb.WriteString(fmt.Sprintf("  provider:  %s\n", viper.GetString("provider")))
	sb.WriteString(fmt.Sprintf("  model:     %s\n", viper.GetString("model")))
	if k := viper.GetString("api_keys.openai"); k != "" {
		sb.WriteString(fmt.Sprintf("  key:       %s****\n", k[:min(10, len(k))]))
	}
	if k := viper.GetString("api_keys.anthropic"); k != "" {
		sb.WriteString(fmt.Sprintf("  key:       %s****\n", k[:min(10, len(k))]))
	}
	sb.WriteString("\n")

	sb.WriteString("Directories\n")
	sb.WriteString(fmt.Sprintf("  input:     %s\n", viper.GetString("input_dir")))
	sb.WriteString(fmt.Sprintf("  results:   %s\n", viper.GetString("results_dir")))
	sb.WriteString("\n")

	if h := viper.GetString("ollama.host"); h != "" {
		sb.WriteString("Ollama\n")
		sb.WriteString(fmt.Sprintf("  host:      %s\n", h))
		sb.WriteString("\n")
	}

	return sb.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
