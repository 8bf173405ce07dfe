// Package config loads the simulation's tunables from flags, an optional
// YAML file, and environment variables via viper, following the layered
// load order of acdtunes-spacetraders/gobot/internal/infrastructure/config:
// flags/env override file, file overrides the spec.md §6 defaults table.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config mirrors the spec.md §6 configuration table. Every field has a
// default matching that table; nothing here is read from an ambient
// singleton — Load returns a plain struct threaded explicitly into
// every component constructor.
type Config struct {
	GridWidth  int `mapstructure:"grid_width"`
	GridHeight int `mapstructure:"grid_height"`

	TickRateHz int `mapstructure:"tick_rate_hz"`

	RobotCount int `mapstructure:"robot_count"`

	PBSHorizonTicks     uint64  `mapstructure:"pbs_horizon_ticks"`
	PBSReplanInterval   uint64  `mapstructure:"pbs_replan_interval"`
	HeuristicWeight     float64 `mapstructure:"heuristic_weight"`

	SpawnCooldownMinTicks uint64 `mapstructure:"spawn_cooldown_min_ticks"`

	PickupDurationSeconds  float64 `mapstructure:"pickup_duration_seconds"`
	DropoffDurationSeconds float64 `mapstructure:"dropoff_duration_seconds"`

	SpawnZoneWidth int `mapstructure:"spawn_zone_width"`
	CargoZoneWidth int `mapstructure:"cargo_zone_width"`
	StorageMargin  int `mapstructure:"storage_margin"`
	RackLength     int `mapstructure:"rack_length"`
	AisleWidth     int `mapstructure:"aisle_width"`

	GUI           bool   `mapstructure:"gui"`
	TelemetryAddr string `mapstructure:"telemetry_addr"`
}

// setDefaults installs the spec.md §6 suggested defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("grid_width", 80)
	v.SetDefault("grid_height", 60)
	v.SetDefault("tick_rate_hz", 30)
	v.SetDefault("robot_count", 60)
	v.SetDefault("pbs_horizon_ticks", 100)
	v.SetDefault("pbs_replan_interval", 3)
	v.SetDefault("heuristic_weight", 1.2)
	v.SetDefault("spawn_cooldown_min_ticks", 15)
	v.SetDefault("pickup_duration_seconds", 4.0)
	v.SetDefault("dropoff_duration_seconds", 3.0)
	v.SetDefault("spawn_zone_width", 8)
	v.SetDefault("cargo_zone_width", 8)
	v.SetDefault("storage_margin", 10)
	v.SetDefault("rack_length", 12)
	v.SetDefault("aisle_width", 2)
	v.SetDefault("gui", false)
	v.SetDefault("telemetry_addr", ":8787")
}

// Load builds a Config from defaults, an optional file at configPath (if
// non-empty), environment variables prefixed WAREHOUSESIM_, and finally
// flagSet (if non-nil) — flags win, then env, then file, then defaults.
func Load(configPath string, flagSet FlagBinder) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WAREHOUSESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	if flagSet != nil {
		if err := flagSet.BindTo(v); err != nil {
			return nil, fmt.Errorf("config: binding flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

// FlagBinder binds a cobra command's flag set into a viper instance. The
// indirection keeps Load itself independent of pflag: callers (like tests)
// that only need defaults-plus-file behavior pass nil instead of a flag set.
type FlagBinder interface {
	BindTo(v *viper.Viper) error
}

func validate(cfg *Config) error {
	if cfg.GridWidth <= 0 || cfg.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", cfg.GridWidth, cfg.GridHeight)
	}
	if cfg.RobotCount < 0 {
		return fmt.Errorf("robot_count must be >= 0, got %d", cfg.RobotCount)
	}
	if cfg.PBSReplanInterval == 0 {
		return fmt.Errorf("pbs_replan_interval must be >= 1")
	}
	if cfg.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be positive, got %d", cfg.TickRateHz)
	}
	return nil
}
