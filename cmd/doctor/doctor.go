// Package doctor provides the "prospect doctor" command for checking system health.
package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/prospectkit/internal/config"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system health and dependencies",
		Long:  "Run diagnostic checks to verify ProspectKit is properly configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runChecks()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Println("ProspectKit Doctor")
			fmt.Println("==================")
			fmt.Println()

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Printf("  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Println()
			fmt.Printf("  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

func runChecks() []Check {
	var checks []Check

	// Check Go runtime
	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	// Check config directory
	home, _ := os.UserHomeDir()
	configDir := filepath.Join(home, ".prospect")
	if info, err := os.Stat(configDir); err == nil && info.IsDir() {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "ok",
			Message: configDir,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "warning",
			Message: fmt.Sprintf("%s not found — run 'prospect config init'", configDir),
		})
	}

	// Check config file
	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); err == nil {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "ok",
			Message: configFile,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: "Not found — run 'prospect config init'",
		})
	}

	// Check AI provider
	if os.Getenv("OPENAI_API_KEY") != "" {
		checks = append(checks, Check{
			Name:    "AI Provider (OpenAI)",
			Status:  "ok",
			Message: "OPENAI_API_KEY set",
		})
	} else if os.Getenv("ANTHROPIC_API_KEY") != "" {
		checks = append(checks, Check{
			Name:    "AI Provider (Anthropic)",
			Status:  "ok",
			Message: "ANTHROPIC_API_KEY set",
		})
	} else {
		// Check if ollama is available
		if _, err := exec.LookPath("ollama"); err == nil {
			checks = append(checks, Check{
				Name:    "AI Provider (Ollama)",
				Status:  "ok",
				Message: "Ollama found in PATH",
			})
		} else {
			checks = append(checks, Check{
				Name:    "AI Provider",
				Status:  "error",
				Message: "No API key set — set OPENAI_API_KEY or ANTHROPIC_API_KEY, or install Ollama",
			})
		}
	}

	// Check input directory from config
	if cfg, err := config.Load(); err == nil {
		if info, statErr := os.Stat(cfg.InputDir); statErr == nil && info.IsDir() {
			checks = append(checks, Check{
				Name:    "Input Directory",
				Status:  "ok",
				Message: cfg.InputDir,
			})
		} else {
			checks = append(checks, Check{
				Name:    "Input Directory",
				Status:  "warning",
				Message: fmt.Sprintf("%s not found — run 'mkdir %s' and drop .txt exports there", cfg.InputDir, cfg.InputDir),
			})
		}
	}

	return checks
}
