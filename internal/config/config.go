package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Nomadcxx/seriesrenamer/internal/catalog"
	"github.com/Nomadcxx/seriesrenamer/internal/logging"
)

// PlaceholderAPIKey is written into a fresh config file
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

// APIKeyEnv overrides the configured API key when set
const APIKeyEnv = "OMDB_API_KEY"

// Config holds all seriesrenamer configuration
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Rename  RenameConfig  `toml:"rename"`
	Log     LogConfig     `toml:"log"`
}

// CatalogConfig holds OMDb access settings
type CatalogConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// RenameConfig controls how confirmed plans are applied
type RenameConfig struct {
	DryRun     bool `toml:"dry_run"`
	Journal    bool `toml:"journal"`     // record batches for undo
	VideosOnly bool `toml:"videos_only"` // ignore non-video files when scanning
}

// LogConfig controls log output
type LogConfig struct {
	Level string `toml:"level"` // quiet, normal, verbose
	File  string `toml:"file"`  // empty means the default log path
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			APIKey:         PlaceholderAPIKey,
			BaseURL:        catalog.DefaultBaseURL,
			TimeoutSeconds: 10,
		},
		Rename: RenameConfig{
			Journal: true,
		},
		Log: LogConfig{
			Level: "normal",
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	return filepath.Join(configDir, "seriesrenamer", "config.toml"), nil
}

// Load reads the default config file, creating it with defaults if it doesn't exist
func Load() (*Config, error) {
	configFile, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configFile)
}

// LoadFrom reads the config at path, creating it with defaults if it doesn't exist.
// The OMDB_API_KEY environment variable takes precedence over the file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveTo(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		cfg.Catalog.APIKey = key
	}

	return cfg, nil
}

// Save writes the config to the default location
func Save(cfg *Config) error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, configFile)
}

// SaveTo writes the config to path
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file carries an API key
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	key := strings.TrimSpace(c.Catalog.APIKey)
	if key == "" || key == PlaceholderAPIKey {
		return fmt.Errorf("catalog api_key is not set (edit the config file or set %s)", APIKeyEnv)
	}

	if c.Catalog.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid timeout_seconds: %d (must be positive)", c.Catalog.TimeoutSeconds)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s (must be quiet, normal, or verbose)", c.Log.Level)
	}

	return nil
}

// Timeout returns the catalog request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// CatalogOptions returns the client options described by the config
func (c *Config) CatalogOptions() []catalog.Option {
	opts := []catalog.Option{catalog.WithTimeout(c.Timeout())}
	if c.Catalog.BaseURL != "" {
		opts = append(opts, catalog.WithBaseURL(c.Catalog.BaseURL))
	}
	return opts
}
