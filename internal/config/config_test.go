package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	viper.Reset()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)
	viper.Set("provider", "openai")
	viper.Set("model", "gpt-4o")
	viper.Set("output.color", true)

	// Override configDir for tests
	os.Setenv("HOME", dir)
	t.Cleanup(func() {
		viper.Reset()
	})
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	os.Setenv("HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("default provider = %q", cfg.Provider)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("default model = %q", cfg.Model)
	}
	if cfg.Delay != 2.0 {
		t.Errorf("default delay = %v", cfg.Delay)
	}
	if cfg.InputDir != "input" || cfg.ResultsDir != "Results" {
		t.Errorf("default dirs = %q / %q", cfg.InputDir, cfg.ResultsDir)
	}
}

func TestValidateNoAPIKey(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("OPENAI_API_KEY", "")
	viper.Set("api_keys.openai", "")
	viper.Set("provider", "openai")

	issues := Validate()
	hasError := false
	for _, issue := range issues {
		if issue.Severity == "error" && strings.Contains(issue.Message, "OPENAI_API_KEY") {
			hasError = true
		}
	}
	if !hasError {
		t.Error("expected error about missing API key")
	}
}

func TestValidateWithAPIKey(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("OPENAI_API_KEY", "sk-test-key")
	viper.Set("provider", "openai")

	issues := Validate()
	for _, issue := range issues {
		if issue.Key == "ai.provider" && issue.Severity == "error" {
			t.Errorf("unexpected error: %s", issue.Message)
		}
	}
}

func TestValidateInputDirWarning(t *testing.T) {
	setupTestConfig(t)
	viper.Set("input_dir", filepath.Join(t.TempDir(), "nope"))

	issues := Validate()
	hasWarning := false
	for _, issue := range issues {
		if issue.Severity == "warning" && issue.Key == "input_dir" {
			hasWarning = true
		}
	}
	if !hasWarning {
		t.Error("expected input directory warning")
	}
}

func TestToEnv(t *testing.T) {
	setupTestConfig(t)
	viper.Set("provider", "openai")
	viper.Set("model", "gpt-4o")
	viper.Set("api_keys.openai", "sk-test")
	viper.Set("input_dir", "exports")

	env := ToEnv()
	if env["PROSPECT_PROVIDER"] != "openai" {
		t.Errorf("PROSPECT_PROVIDER = %q", env["PROSPECT_PROVIDER"])
	}
	if env["PROSPECT_MODEL"] != "gpt-4o" {
		t.Errorf("PROSPECT_MODEL = %q", env["PROSPECT_MODEL"])
	}
	if env["OPENAI_API_KEY"] != "sk-test" {
		t.Errorf("OPENAI_API_KEY = %q", env["OPENAI_API_KEY"])
	}
	if env["PROSPECT_INPUT_DIR"] != "exports" {
		t.Errorf("PROSPECT_INPUT_DIR = %q", env["PROSPECT_INPUT_DIR"])
	}
}

func TestSetAndGet(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("HOME", dir)
	viper.Reset()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join(dir, ".prospect"))

	os.MkdirAll(filepath.Join(dir, ".prospect"), 0700)

	if err := Set("provider", "anthropic"); err != nil {
		t.Fatal(err)
	}

	got := Get("provider")
	if got != "anthropic" {
		t.Errorf("Get(provider) = %q, want %q", got, "anthropic")
	}
}

func TestShowConfig(t *testing.T) {
	setupTestConfig(t)
	viper.Set("provider", "openai")
	viper.Set("model", "gpt-4o")

	output := ShowConfig()
	if !strings.Contains(output, "openai") {
		t.Error("ShowConfig should contain provider")
	}
	if !strings.Contains(output, "gpt-4o") {
		t.Error("ShowConfig should contain model")
	}
}

func TestWizardNonInteractive(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("HOME", dir)
	viper.Reset()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if err := WizardNonInteractive(); err != nil {
		t.Fatal(err)
	}

	if viper.GetString("provider") != "openai" {
		t.Errorf("provider = %q", viper.GetString("provider"))
	}
}

func TestWizardInteractive(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("HOME", dir)
	viper.Reset()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Simulate user input: choice 4 (skip), default dirs
	input := strings.NewReader("4\n\n\n")
	if err := Wizard(input); err != nil {
		t.Fatal(err)
	}
}

func TestConfigPath(t *testing.T) {
	path := ConfigPath()
	if !strings.Contains(path, ".prospect") || !strings.Contains(path, "config.yaml") {
		t.Errorf("unexpected path: %q", path)
	}
}

func TestResetConfig(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("HOME", dir)
	viper.Reset()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.Set("provider", "anthropic")
	SaveConfig()

	if err := ResetConfig(); err != nil {
		t.Fatal(err)
	}

	if viper.GetString("provider") != "openai" {
		t.Errorf("provider should reset to default, got %q", viper.GetString("provider"))
	}
}
