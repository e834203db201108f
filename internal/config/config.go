// Package config handles mirror configuration.
//
// Configuration is an explicit value passed to components at
// construction; there is no package-level mutable state. Lifecycle of
// the corpus directory (creation, cleanup) belongs to the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the config file name inside the corpus directory's
// parent.
const ConfigFile = "allofplos.yml"

// Environment variable overrides.
const (
	EnvCorpusDir = "PLOS_CORPUS"
	EnvSearchURL = "PLOS_SEARCH_URL"
)

// Config carries everything the mirror components need at
// construction.
type Config struct {
	// CorpusDir is the directory holding the XML mirror.
	CorpusDir string `yaml:"corpus_dir"`

	// SearchURL overrides the default search API endpoint.
	SearchURL string `yaml:"search_url,omitempty"`

	// MaxInFlight caps simultaneous downloads per remote host.
	MaxInFlight int `yaml:"max_in_flight,omitempty"`

	// MinDelayMillis is the minimum delay between request dispatches.
	MinDelayMillis int `yaml:"min_delay_millis,omitempty"`
}

// MinDelay returns the configured dispatch delay as a duration.
func (c *Config) MinDelay() time.Duration {
	return time.Duration(c.MinDelayMillis) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CorpusDir:      "allofplos_xml",
		MaxInFlight:    5,
		MinDelayMillis: 100,
	}
}

// Load reads configuration from a YAML file, then applies .env and
// environment overrides. A missing file yields the defaults, not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load()
	applyEnv(cfg)

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyEnv overlays environment variables onto the config.
func applyEnv(cfg *Config) {
	if dir := os.Getenv(EnvCorpusDir); dir != "" {
		cfg.CorpusDir = dir
	}
	if u := os.Getenv(EnvSearchURL); u != "" {
		cfg.SearchURL = u
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.CorpusDir == "" {
		return fmt.Errorf("corpus_dir must be set")
	}
	if c.MaxInFlight < 0 {
		return fmt.Errorf("max_in_flight must be non-negative, got %d", c.MaxInFlight)
	}
	if c.MinDelayMillis < 0 {
		return fmt.Errorf("min_delay_millis must be non-negative, got %d", c.MinDelayMillis)
	}
	return nil
}

// EnsureCorpusDir creates the corpus directory if needed and returns
// its absolute path.
func (c *Config) EnsureCorpusDir() (string, error) {
	abs, err := filepath.Abs(ExpandPath(c.CorpusDir))
	if err != nil {
		return "", fmt.Errorf("resolving corpus dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("creating corpus dir: %w", err)
	}
	return abs, nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
