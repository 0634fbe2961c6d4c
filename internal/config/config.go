// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Provider string  `mapstructure:"provider"`
	Model    string  `mapstructure:"model"`
	Delay    float64 `mapstructure:"delay"`

	InputDir   string `mapstructure:"input_dir"`
	ResultsDir string `mapstructure:"results_dir"`

	APIKeys struct {
		OpenAI    string `mapstructure:"openai"`
		Anthropic string `mapstructure:"anthropic"`
	} `mapstructure:"api_keys"`
	Ollama struct {
		Host string `mapstructure:"host"`
	} `mapstructure:"ollama"`
	Output struct {
		Format string `mapstructure:"format"`
		Color  bool   `mapstructure:"color"`
	} `mapstructure:"output"`
}

// Load reads the configuration from ~/.prospect/config.yaml and environment variables.
func Load() (*Config, error) {
	configDir := configDir()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	// Defaults
	viper.SetDefault("provider", "openai")
	viper.SetDefault("model", "gpt-4o")
	viper.SetDefault("delay", 2.0)
	viper.SetDefault("input_dir", "input")
	viper.SetDefault("results_dir", "Results")
	viper.SetDefault("output.color", true)
	viper.SetDefault("output.format", "text")

	// Environment variable overrides
	viper.SetEnvPrefix("PROSPECT")
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".prospect"
	}
	return filepath.Join(home, ".prospect")
}
