package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Game     GameConfig     `toml:"game" yaml:"game"`
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Save     SaveConfig     `toml:"save" yaml:"save"`
	Database DatabaseConfig `toml:"database" yaml:"database"`
	Script   ScriptConfig   `toml:"script" yaml:"script"`
	Audio    AudioConfig    `toml:"audio" yaml:"audio"`
}

// GameConfig holds the simulation constants. Distances are world units,
// speeds units per second, rates radians per second.
type GameConfig struct {
	TickRate time.Duration `toml:"tick_rate" yaml:"tick_rate"`
	Seed     uint64        `toml:"seed" yaml:"seed"` // 0 = time based

	// Play area on the X/Z plane, shared by spawner and despawn sweep
	BoundsMinX float64 `toml:"bounds_min_x" yaml:"bounds_min_x"`
	BoundsMaxX float64 `toml:"bounds_max_x" yaml:"bounds_max_x"`
	BoundsMinZ float64 `toml:"bounds_min_z" yaml:"bounds_min_z"`
	BoundsMaxZ float64 `toml:"bounds_max_z" yaml:"bounds_max_z"`

	SpawnMinX float64 `toml:"spawn_min_x" yaml:"spawn_min_x"`
	SpawnMaxX float64 `toml:"spawn_max_x" yaml:"spawn_max_x"`
	SpawnMinZ float64 `toml:"spawn_min_z" yaml:"spawn_min_z"`
	SpawnMaxZ float64 `toml:"spawn_max_z" yaml:"spawn_max_z"`

	SpawnInterval    time.Duration `toml:"spawn_interval" yaml:"spawn_interval"`
	InitialAsteroids int           `toml:"initial_asteroids" yaml:"initial_asteroids"`
	SpawnClearance   float64       `toml:"spawn_clearance" yaml:"spawn_clearance"` // multiple of asteroid radius
	SpawnMaxAttempts int           `toml:"spawn_max_attempts" yaml:"spawn_max_attempts"`

	AsteroidSpeed        float64 `toml:"asteroid_speed" yaml:"asteroid_speed"`
	AsteroidAcceleration float64 `toml:"asteroid_acceleration" yaml:"asteroid_acceleration"`
	Accelerate           bool    `toml:"accelerate" yaml:"accelerate"`
	AsteroidRadius       float64 `toml:"asteroid_radius" yaml:"asteroid_radius"`
	AsteroidSpin         float64 `toml:"asteroid_spin" yaml:"asteroid_spin"`

	ShipStartX   float64 `toml:"ship_start_x" yaml:"ship_start_x"`
	ShipStartZ   float64 `toml:"ship_start_z" yaml:"ship_start_z"`
	ShipSpeed    float64 `toml:"ship_speed" yaml:"ship_speed"`
	ShipRotation float64 `toml:"ship_rotation" yaml:"ship_rotation"`
	ShipRoll     float64 `toml:"ship_roll" yaml:"ship_roll"`
	ShipRadius   float64 `toml:"ship_radius" yaml:"ship_radius"`
	ShipHealth   int     `toml:"ship_health" yaml:"ship_health"`

	MissileRadius      float64       `toml:"missile_radius" yaml:"missile_radius"`
	MissileSpeed       float64       `toml:"missile_speed" yaml:"missile_speed"`
	MissileSpawnOffset float64       `toml:"missile_spawn_offset" yaml:"missile_spawn_offset"`
	MissileMaxDistance float64       `toml:"missile_max_distance" yaml:"missile_max_distance"`
	FireCooldown       time.Duration `toml:"fire_cooldown" yaml:"fire_cooldown"`

	ShieldDuration     time.Duration `toml:"shield_duration" yaml:"shield_duration"`
	ShieldVisualRadius float64       `toml:"shield_visual_radius" yaml:"shield_visual_radius"`
}

type WindowConfig struct {
	Title  string  `toml:"title" yaml:"title"`
	Width  int     `toml:"width" yaml:"width"`
	Height int     `toml:"height" yaml:"height"`
	Scale  float64 `toml:"scale" yaml:"scale"` // pixels per world unit
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

type SaveConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	AppName string `toml:"app_name" yaml:"app_name"`
}

type DatabaseConfig struct {
	DSN          string        `toml:"dsn" yaml:"dsn"` // empty disables run history
	MaxOpenConns int           `toml:"max_open_conns" yaml:"max_open_conns"`
	Timeout      time.Duration `toml:"timeout" yaml:"timeout"`
}

type ScriptConfig struct {
	Path string `toml:"path" yaml:"path"` // empty uses the built-in pacing script
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled" yaml:"enabled"`
	SampleRate int     `toml:"sample_rate" yaml:"sample_rate"`
	Volume     float64 `toml:"volume" yaml:"volume"`
}

// Load reads a TOML or YAML file (by extension) over the defaults. An
// empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the stock configuration.
func Defaults() *Config {
	return &Config{
		Game: GameConfig{
			TickRate: time.Second / 60,

			BoundsMinX: -50,
			BoundsMaxX: 50,
			BoundsMinZ: -50,
			BoundsMaxZ: 50,

			SpawnMinX: -25,
			SpawnMaxX: 25,
			SpawnMinZ: 0,
			SpawnMaxZ: 25,

			SpawnInterval:    time.Second,
			InitialAsteroids: 5,
			SpawnClearance:   2,
			SpawnMaxAttempts: 64,

			AsteroidSpeed:        1,
			AsteroidAcceleration: 1,
			Accelerate:           true,
			AsteroidRadius:       1,
			AsteroidSpin:         1.5,

			ShipStartX:   0,
			ShipStartZ:   -20,
			ShipSpeed:    25,
			ShipRotation: 2.5,
			ShipRoll:     2.5,
			ShipRadius:   5,
			ShipHealth:   3,

			MissileRadius:      1,
			MissileSpeed:       10,
			MissileSpawnOffset: 7.5,
			MissileMaxDistance: 50,
			FireCooldown:       time.Second,

			ShieldDuration:     1200 * time.Millisecond,
			ShieldVisualRadius: 6.1,
		},
		Window: WindowConfig{
			Title:  "roids",
			Width:  960,
			Height: 720,
			Scale:  7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Save: SaveConfig{
			Enabled: true,
			AppName: "roids",
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			Timeout:      5 * time.Second,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.5,
		},
	}
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	g := &c.Game
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("game.%s must be positive, got %v", name, v))
		}
	}

	if g.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("game.tick_rate must be positive, got %v", g.TickRate))
	}
	positive("asteroid_radius", g.AsteroidRadius)
	positive("ship_radius", g.ShipRadius)
	positive("missile_radius", g.MissileRadius)
	positive("shield_visual_radius", g.ShieldVisualRadius)
	positive("ship_speed", g.ShipSpeed)
	positive("missile_speed", g.MissileSpeed)
	positive("missile_max_distance", g.MissileMaxDistance)
	if g.AsteroidSpeed < 0 || g.AsteroidAcceleration < 0 || g.SpawnClearance < 0 {
		errs = append(errs, errors.New("game: asteroid speed, acceleration and spawn clearance must not be negative"))
	}
	if g.ShipHealth <= 0 {
		errs = append(errs, fmt.Errorf("game.ship_health must be positive, got %d", g.ShipHealth))
	}
	if g.SpawnInterval <= 0 || g.ShieldDuration <= 0 || g.FireCooldown < 0 {
		errs = append(errs, errors.New("game: spawn_interval and shield_duration must be positive, fire_cooldown not negative"))
	}
	if g.InitialAsteroids < 0 {
		errs = append(errs, fmt.Errorf("game.initial_asteroids must not be negative, got %d", g.InitialAsteroids))
	}
	if g.SpawnMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("game.spawn_max_attempts must be positive, got %d", g.SpawnMaxAttempts))
	}
	if g.BoundsMinX >= g.BoundsMaxX || g.BoundsMinZ >= g.BoundsMaxZ {
		errs = append(errs, errors.New("game: bounds are empty"))
	}
	if g.SpawnMinX >= g.SpawnMaxX || g.SpawnMinZ >= g.SpawnMaxZ {
		errs = append(errs, errors.New("game: spawn region is empty"))
	}
	if g.SpawnMinX < g.BoundsMinX || g.SpawnMaxX > g.BoundsMaxX || g.SpawnMinZ < g.BoundsMinZ || g.SpawnMaxZ > g.BoundsMaxZ {
		errs = append(errs, errors.New("game: spawn region must lie inside bounds"))
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate))
	}

	return multierr.Combine(errs...)
}
