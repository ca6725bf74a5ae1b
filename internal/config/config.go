//-------------------------------------------------------------------------
//
// Dice Warehouse
//
// Copyright (c) 2025 - 2026, DiceHub, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for dice-warehouse.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for dice-warehouse.
type Config struct {
	// RawDir is the directory containing the raw operational extracts.
	RawDir string `mapstructure:"raw_dir"`

	// WarehouseDir is the directory the conformed tables are written to.
	WarehouseDir string `mapstructure:"warehouse_dir"`

	// Connection is an optional PostgreSQL connection string. When set,
	// every output table is also loaded into the database.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// DateDim holds the calendar dimension range.
	DateDim DateDimConfig `mapstructure:"date_dim"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// DateDimConfig holds the inclusive date range covered by dim_date.
type DateDimConfig struct {
	// Start is the first calendar day, formatted YYYY-MM-DD.
	Start string `mapstructure:"start"`

	// End is the last calendar day, formatted YYYY-MM-DD.
	End string `mapstructure:"end"`
}

// SeedConfig holds configuration for raw extract generation.
type SeedConfig struct {
	// Users is the number of platform users to generate.
	Users int `mapstructure:"users"`

	// Sessions is the number of play sessions to generate.
	Sessions int `mapstructure:"sessions"`

	// Seed is the RNG seed; a fixed seed makes generation reproducible.
	Seed uint64 `mapstructure:"seed"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		RawDir:       filepath.Join("data", "raw"),
		WarehouseDir: filepath.Join("data", "warehouse"),
		LogLevel:     "info",
		DateDim: DateDimConfig{
			Start: "2023-12-01",
			End:   "2025-12-31",
		},
		Seed: SeedConfig{
			Users:    200,
			Sessions: 1000,
			Seed:     1,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./dice-warehouse.yaml
// 3. ~/.config/dice-warehouse/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("dice-warehouse")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "dice-warehouse"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.RawDir == "" {
		return fmt.Errorf("raw directory is required")
	}
	if c.WarehouseDir == "" {
		return fmt.Errorf("warehouse directory is required")
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, _, err := c.DateRange(); err != nil {
		return err
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if c.RawDir == "" {
		return fmt.Errorf("raw directory is required")
	}
	if c.Seed.Users < 1 {
		return fmt.Errorf("seed users must be at least 1")
	}
	if c.Seed.Sessions < 1 {
		return fmt.Errorf("seed sessions must be at least 1")
	}
	return nil
}

// DateRange parses the configured calendar dimension range.
func (c *Config) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.DateDim.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date_dim.start %q: %w", c.DateDim.Start, err)
	}
	end, err := time.Parse("2006-01-02", c.DateDim.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date_dim.end %q: %w", c.DateDim.End, err)
	}
	return start, end, nil
}
