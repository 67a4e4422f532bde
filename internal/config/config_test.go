package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v, want nil", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Game.InitialAsteroids != 5 {
		t.Errorf("InitialAsteroids = %d, want 5", cfg.Game.InitialAsteroids)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "toml",
			file: "roids.toml",
			body: "[game]\nship_speed = 30.0\nfire_cooldown = \"250ms\"\n[logging]\nlevel = \"debug\"\n",
		},
		{
			name: "yaml",
			file: "roids.yaml",
			body: "game:\n  ship_speed: 30\n  fire_cooldown: 250ms\nlogging:\n  level: debug\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Game.ShipSpeed != 30 {
				t.Errorf("ShipSpeed = %v, want 30", cfg.Game.ShipSpeed)
			}
			if cfg.Game.FireCooldown != 250*time.Millisecond {
				t.Errorf("FireCooldown = %v, want 250ms", cfg.Game.FireCooldown)
			}
			if cfg.Logging.Level != "debug" {
				t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
			}
			// untouched keys keep their defaults
			if cfg.Game.ShipRadius != 5 {
				t.Errorf("ShipRadius = %v, want 5", cfg.Game.ShipRadius)
			}
		})
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roids.ini")
	if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load(.ini) error = nil, want error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"zero radius", func(c *Config) { c.Game.AsteroidRadius = 0 }, "asteroid_radius"},
		{"negative ship radius", func(c *Config) { c.Game.ShipRadius = -1 }, "ship_radius"},
		{"empty spawn region", func(c *Config) { c.Game.SpawnMaxX = c.Game.SpawnMinX }, "spawn region is empty"},
		{"spawn outside bounds", func(c *Config) { c.Game.SpawnMaxZ = 80 }, "inside bounds"},
		{"no retries", func(c *Config) { c.Game.SpawnMaxAttempts = 0 }, "spawn_max_attempts"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "roids.toml"))
	if err != nil {
		t.Fatalf("Load(sample) error = %v", err)
	}
	if cfg.Game.ShieldDuration != 1200*time.Millisecond {
		t.Errorf("ShieldDuration = %v, want 1.2s", cfg.Game.ShieldDuration)
	}
	if cfg.Database.DSN != "" {
		t.Errorf("Database.DSN = %q, want empty", cfg.Database.DSN)
	}
}
