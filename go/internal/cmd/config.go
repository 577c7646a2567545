package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the game settings loaded from YAML. Values act as defaults
// for round creation; a create request may override them.
type Config struct {
	Game struct {
		CooldownSeconds      int `yaml:"cooldown_seconds"`
		RoundDurationSeconds int `yaml:"round_duration_seconds"`
	} `yaml:"game"`
	Reconcile struct {
		IntervalSeconds int `yaml:"interval_seconds"`
		LookbackSeconds int `yaml:"lookback_seconds"`
	} `yaml:"reconcile"`
}

func defaultConfig() *Config {
	var config Config
	config.Game.CooldownSeconds = 30
	config.Game.RoundDurationSeconds = 60
	config.Reconcile.IntervalSeconds = 60
	config.Reconcile.LookbackSeconds = 600
	return &config
}

func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Game.CooldownSeconds < 0 {
		return nil, fmt.Errorf("cooldown_seconds must not be negative")
	}
	if config.Game.RoundDurationSeconds <= 0 {
		return nil, fmt.Errorf("round_duration_seconds must be positive")
	}

	return config, nil
}

func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.Reconcile.IntervalSeconds) * time.Second
}

func (c *Config) ReconcileLookback() time.Duration {
	return time.Duration(c.Reconcile.LookbackSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
