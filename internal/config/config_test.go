package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Catalog.APIKey != PlaceholderAPIKey {
		t.Errorf("expected placeholder api key, got '%s'", cfg.Catalog.APIKey)
	}

	if cfg.Catalog.TimeoutSeconds != 10 {
		t.Errorf("expected timeout 10, got %d", cfg.Catalog.TimeoutSeconds)
	}

	if !cfg.Rename.Journal {
		t.Error("expected Journal to be enabled")
	}

	if cfg.Rename.DryRun {
		t.Error("expected DryRun to be disabled")
	}

	if cfg.Log.Level != "normal" {
		t.Errorf("expected log level 'normal', got '%s'", cfg.Log.Level)
	}
}

func TestLoadFromCreatesDefault(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	path := filepath.Join(t.TempDir(), "seriesrenamer", "config.toml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Catalog.APIKey != PlaceholderAPIKey {
		t.Errorf("expected placeholder api key, got '%s'", cfg.Catalog.APIKey)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Catalog.APIKey = "abc123"
	cfg.Catalog.TimeoutSeconds = 30
	cfg.Rename.DryRun = true
	cfg.Log.Level = "verbose"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *loaded, *cfg)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[catalog]\napi_key = \"from-file\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Catalog.APIKey != "from-file" {
		t.Errorf("expected api key 'from-file', got '%s'", cfg.Catalog.APIKey)
	}
	if cfg.Catalog.TimeoutSeconds != 10 {
		t.Errorf("expected default timeout, got %d", cfg.Catalog.TimeoutSeconds)
	}
	if !cfg.Rename.Journal {
		t.Error("expected default Journal to survive a partial file")
	}
}

func TestEnvOverridesAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[catalog]\napi_key = \"from-file\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(APIKeyEnv, "from-env")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Catalog.APIKey != "from-env" {
		t.Errorf("expected api key 'from-env', got '%s'", cfg.Catalog.APIKey)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[catalog\napi_key ="), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) { c.Catalog.APIKey = "key" }, false},
		{"placeholder key", func(c *Config) {}, true},
		{"empty key", func(c *Config) { c.Catalog.APIKey = "  " }, true},
		{"zero timeout", func(c *Config) { c.Catalog.APIKey = "key"; c.Catalog.TimeoutSeconds = 0 }, true},
		{"unknown level", func(c *Config) { c.Catalog.APIKey = "key"; c.Log.Level = "chatty" }, true},
		{"slog level name", func(c *Config) { c.Catalog.APIKey = "key"; c.Log.Level = "debug" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeoutAndCatalogOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog.TimeoutSeconds = 3

	if cfg.Timeout() != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.Timeout())
	}

	if n := len(cfg.CatalogOptions()); n != 2 {
		t.Errorf("expected 2 catalog options, got %d", n)
	}

	cfg.Catalog.BaseURL = ""
	if n := len(cfg.CatalogOptions()); n != 1 {
		t.Errorf("expected 1 catalog option without base url, got %d", n)
	}
}
