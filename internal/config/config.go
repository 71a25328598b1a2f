// Package config provides configuration loading and defaults for github-dormant.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/github-dormant/internal/domain"
)

const (
	// DefaultEndpoint is the public GitHub GraphQL API.
	DefaultEndpoint = "https://api.github.com/graphql"
	// DefaultTokenEnv is the environment variable holding the API bearer token.
	DefaultTokenEnv = "TOKEN"
)

// GitHubConfig holds connection details for the GitHub GraphQL API.
type GitHubConfig struct {
	Endpoint string `yaml:"endpoint"`
	// TokenEnv names the environment variable the token is read from.
	TokenEnv string `yaml:"token_env"`
	// Token is never read from the file, only from the environment.
	Token string `yaml:"-"`
}

// ScanConfig controls how candidates are judged.
type ScanConfig struct {
	CutoffYear int `yaml:"cutoff_year"`
}

// Config is the top-level configuration structure.
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	Scan   ScanConfig   `yaml:"scan"`
}

// DefaultConfig returns a new Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Endpoint: DefaultEndpoint,
			TokenEnv: DefaultTokenEnv,
		},
		Scan: ScanConfig{
			CutoffYear: domain.DefaultCutoffYear,
		},
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.GitHub.Endpoint == "" {
		cfg.GitHub.Endpoint = DefaultEndpoint
	}
	if cfg.GitHub.TokenEnv == "" {
		cfg.GitHub.TokenEnv = DefaultTokenEnv
	}
	if cfg.Scan.CutoffYear <= 0 {
		cfg.Scan.CutoffYear = domain.DefaultCutoffYear
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables that are already set are left untouched. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides updates cfg in place with values from environment variables.
// Recognized variables:
//   - GITHUB_DORMANT_ENDPOINT overrides cfg.GitHub.Endpoint
//   - the variable named by cfg.GitHub.TokenEnv sets cfg.GitHub.Token
func ApplyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_DORMANT_ENDPOINT"); endpoint != "" {
		cfg.GitHub.Endpoint = endpoint
	}
	cfg.GitHub.Token = os.Getenv(cfg.GitHub.TokenEnv)
}

// Load assembles the runtime configuration: the .env file, the optional
// YAML file at path (skipped when path is empty) and environment overrides.
func Load(path, dotEnvPath string) (*Config, error) {
	if err := LoadDotEnv(dotEnvPath); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}
	ApplyEnvOverrides(cfg)
	return cfg, nil
}
