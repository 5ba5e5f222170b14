package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, overlays environment variables and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadWithoutCredentials is Load for commands that never call the model.
func LoadWithoutCredentials(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, requireKey bool) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	// API_KEY is the name the old deployment used.
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("API_KEY")
	}

	validate := cfg.Validate
	if !requireKey {
		validate = cfg.validateLocal
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
