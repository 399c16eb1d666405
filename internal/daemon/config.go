// Package daemon manages the HabitQuest daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	User      UserConfig      `toml:"user"`
	API       APIConfig       `toml:"api"`
	Engine    EngineConfig    `toml:"engine"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// UserConfig identifies the local user. The CLI is single-user; the HTTP
// API carries user IDs per request.
type UserConfig struct {
	ID string `toml:"id"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// EngineConfig controls the progression engine.
type EngineConfig struct {
	StartingCoins int    `toml:"starting_coins"`
	SweepInterval string `toml:"sweep_interval"` // "1h", "30m"; empty disables the loop
}

// TelemetryConfig controls observability.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := habitquestHome()
	return Config{
		User: UserConfig{
			ID: "local",
		},
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8710,
			CORSOrigins: []string{"*"},
		},
		Engine: EngineConfig{
			StartingCoins: 500,
			SweepInterval: "1h",
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "habitquest.log"),
		},
	}
}

// LoadConfig reads config from ~/.habitquest/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(habitquestHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.habitquest/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(habitquestHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// habitquestHome returns the HabitQuest data directory.
func habitquestHome() string {
	if env := os.Getenv("HABITQUEST_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".habitquest")
}

// Home is exported for use by other packages.
func Home() string {
	return habitquestHome()
}
