// Package config provides application configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"h2sweep/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Solver contains solve-step scheduling calibration
	Solver SolverConfig `json:"solver"`

	// Sweep contains sweep-wide defaults
	Sweep SweepConfig `json:"sweep"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// SolverConfig calibrates the per-attempt memory and runtime estimates
// handed to the workflow engine. These are empirically fitted values for
// one solver/problem-size regime, not an algorithmic contract.
type SolverConfig struct {
	// MemBaseMB is the intercept of the memory regression
	MemBaseMB float64 `json:"mem_base_mb"`

	// MemPerClusterMB is the per-cluster slope of the memory regression
	MemPerClusterMB float64 `json:"mem_per_cluster_mb"`

	// MemPerSegmentMB is the per-temporal-segment slope
	MemPerSegmentMB float64 `json:"mem_per_segment_mb"`

	// RetryMemStep is the fractional memory increase added per retry
	RetryMemStep float64 `json:"retry_mem_step"`

	// RetryAttemptCap is the attempt number beyond which estimates plateau
	RetryAttemptCap int `json:"retry_attempt_cap"`

	// RuntimeBaselineMin is the first-attempt runtime budget in minutes
	RuntimeBaselineMin int `json:"runtime_baseline_min"`

	// RuntimeCeilingMin is the absolute wall-clock ceiling in minutes
	RuntimeCeilingMin int `json:"runtime_ceiling_min"`
}

// SweepConfig contains sweep-wide defaults
type SweepConfig struct {
	// DefaultSegments is the temporal segment count assumed when a
	// sector-options string carries no <N>seg token
	DefaultSegments int `json:"default_segments"`

	// Senses are the near-optimal exploration senses to materialize
	Senses []string `json:"senses"`

	// Workers bounds concurrent scenario resolution
	Workers int `json:"workers"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (yaml, json)
	DefaultFormat string `json:"default_format"`

	// ShowResources includes resource hints in plan manifests
	ShowResources bool `json:"show_resources"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Solver: SolverConfig{
			MemBaseMB:          1500,
			MemPerClusterMB:    600,
			MemPerSegmentMB:    30,
			RetryMemStep:       0.5,
			RetryAttemptCap:    3,
			RuntimeBaselineMin: 720,
			RuntimeCeilingMin:  10080, // seven days
		},
		Sweep: SweepConfig{
			DefaultSegments: 8760,
			Senses:          []string{"min", "max"},
			Workers:         4,
		},
		Output: OutputConfig{
			DefaultFormat: "yaml",
			ShowResources: true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
