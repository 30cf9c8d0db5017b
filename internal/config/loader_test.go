package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.BaseURL == "" {
		t.Error("expected a default api base url")
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.API.PageSize != 20 {
		t.Errorf("API.PageSize = %d, want 20", cfg.API.PageSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"timeout too small", func(c *Config) { c.API.Timeout = 100 * time.Millisecond }, true},
		{"page size zero", func(c *Config) { c.API.PageSize = 0 }, true},
		{"refresh too small", func(c *Config) { c.TUI.RefreshInterval = 10 * time.Millisecond }, true},
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

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: "http://forum.example.com/api"
  page_size: 50
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.API.BaseURL != "http://forum.example.com/api" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.PageSize != 50 {
		t.Errorf("API.PageSize = %d, want 50", cfg.API.PageSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched keys keep defaults.
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want default", cfg.API.Timeout)
	}
}

func TestLoadFromFileMissingExplicitFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for explicitly named missing file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TIEBA_API_BASE_URL", "http://env.example.com/api")
	t.Setenv("TIEBA_LOGGING_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: \"http://file.example.com/api\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.API.BaseURL != "http://env.example.com/api" {
		t.Errorf("env var should override file, got %q", cfg.API.BaseURL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Global.DataDir = "/tmp/tieba-data"
	if got := cfg.DatabasePath(); got != "/tmp/tieba-data/tieba.db" {
		t.Errorf("DatabasePath() = %q", got)
	}

	cfg.Database.Path = "/elsewhere/custom.db"
	if got := cfg.DatabasePath(); got != "/elsewhere/custom.db" {
		t.Errorf("DatabasePath() = %q", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	if got := expandTilde("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("expandTilde(~/x) = %q", got)
	}
	if got := expandTilde("/abs/path"); got != "/abs/path" {
		t.Errorf("expandTilde(abs) = %q", got)
	}
	if got := expandTilde(""); got != "" {
		t.Errorf("expandTilde(empty) = %q", got)
	}
}
