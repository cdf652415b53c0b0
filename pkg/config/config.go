// Package config provides configuration loading and management for
// cannyedge. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"cannyedge/pkg/detect"
	"cannyedge/pkg/gradient"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Detection parameters
	Detection struct {
		// KernelSize is the derivative kernel side length (odd, >= 3).
		KernelSize int `yaml:"kernelSize"`

		// LowThreshold is the hysteresis lower threshold.
		LowThreshold float64 `yaml:"lowThreshold"`

		// HighThreshold is the hysteresis upper threshold.
		HighThreshold float64 `yaml:"highThreshold"`

		// Norm selects the magnitude formula: "l2" (default) or "l1".
		Norm string `yaml:"norm"`
	} `yaml:"detection"`

	// Smoothing parameters for the optional Gaussian pre-filter
	Smoothing struct {
		// Enabled toggles pre-smoothing before the gradient stage.
		Enabled bool `yaml:"enabled"`

		// KernelSize is the Gaussian kernel side length (odd, >= 3).
		KernelSize int `yaml:"kernelSize"`

		// Sigma is the Gaussian standard deviation; <= 0 derives one
		// from the kernel size.
		Sigma float64 `yaml:"sigma"`
	} `yaml:"smoothing"`

	// Processing parameters
	Processing struct {
		// NumWorkers bounds the goroutines used by the row-parallel
		// stages.
		NumWorkers int `yaml:"numWorkers"`

		// SaveStages determines whether intermediate stage images are
		// written alongside the edge map.
		SaveStages bool `yaml:"saveStages"`

		// StagesDir is the directory for intermediate stage images.
		StagesDir string `yaml:"stagesDir"`
	} `yaml:"processing"`

	// Estimation parameters for data-driven threshold selection
	Estimation struct {
		// Enabled replaces the configured thresholds with ones derived
		// from the magnitude distribution.
		Enabled bool `yaml:"enabled"`

		// Quantile of the nonzero magnitude distribution used as the
		// high threshold.
		Quantile float64 `yaml:"quantile"`

		// LowRatio is the low/high threshold ratio.
		LowRatio float64 `yaml:"lowRatio"`
	} `yaml:"estimation"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default detection parameters
	cfg.Detection.KernelSize = 3
	cfg.Detection.LowThreshold = 50
	cfg.Detection.HighThreshold = 150
	cfg.Detection.Norm = "l2"

	// Set default smoothing parameters
	cfg.Smoothing.Enabled = true
	cfg.Smoothing.KernelSize = 5
	cfg.Smoothing.Sigma = 1.4

	// Set default processing parameters
	cfg.Processing.NumWorkers = runtime.NumCPU()
	cfg.Processing.SaveStages = false
	cfg.Processing.StagesDir = "stage_results"

	// Set default estimation parameters
	cfg.Estimation.Enabled = false
	cfg.Estimation.Quantile = 0.9
	cfg.Estimation.LowRatio = 0.4

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// DetectParams converts the configuration into detector parameters.
// Validation of the resulting parameter set is the detector's job.
func (c *Config) DetectParams() (detect.Params, error) {
	norm := gradient.NormL2
	switch c.Detection.Norm {
	case "", "l2", "L2":
		norm = gradient.NormL2
	case "l1", "L1":
		norm = gradient.NormL1
	default:
		return detect.Params{}, fmt.Errorf("config: unknown magnitude norm %q", c.Detection.Norm)
	}

	return detect.Params{
		KernelSize:       c.Detection.KernelSize,
		LowThreshold:     c.Detection.LowThreshold,
		HighThreshold:    c.Detection.HighThreshold,
		Norm:             norm,
		Smooth:           c.Smoothing.Enabled,
		SmoothKernelSize: c.Smoothing.KernelSize,
		SmoothSigma:      c.Smoothing.Sigma,
		Workers:          c.Processing.NumWorkers,
		KeepStages:       c.Processing.SaveStages,
	}, nil
}
