package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8710 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8710)
	}
	if cfg.Engine.StartingCoins != 500 {
		t.Errorf("Engine.StartingCoins = %d, want %d", cfg.Engine.StartingCoins, 500)
	}
	if cfg.User.ID != "local" {
		t.Errorf("User.ID = %q, want %q", cfg.User.ID, "local")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HABITQUEST_HOME", home)

	toml := `
[api]
port = 9000

[engine]
starting_coins = 100
sweep_interval = "30m"
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(toml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.Engine.StartingCoins != 100 {
		t.Errorf("Engine.StartingCoins = %d, want 100", cfg.Engine.StartingCoins)
	}
	// Untouched sections keep their defaults
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want default", cfg.API.Host)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv("HABITQUEST_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Errorf("missing file should fall back to defaults")
	}
}

func TestSaveConfig_Roundtrip(t *testing.T) {
	t.Setenv("HABITQUEST_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9999
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("API.Port = %d, want 9999", loaded.API.Port)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		fallback time.Duration
		want     time.Duration
	}{
		{"30m", time.Hour, 30 * time.Minute},
		{"1h", 0, time.Hour},
		{"", time.Hour, time.Hour},
		{"bogus", time.Hour, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseDuration(tt.input, tt.fallback)
			if got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
