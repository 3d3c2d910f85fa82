// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"play-price/core/types"
	"play-price/internal/errors"
	"play-price/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// PackageName is the app package the subscription belongs to
	PackageName string `json:"package_name"`

	// ProductID is the subscription product identifier
	ProductID string `json:"product_id"`

	// BasePlanID is the base plan whose regional prices are reconciled
	BasePlanID string `json:"base_plan_id"`

	// RegionsVersion is the region catalog version to price against
	RegionsVersion string `json:"regions_version"`

	// ServiceAccountPath is the service account key file for the
	// pricing service
	ServiceAccountPath string `json:"service_account_path"`

	// CSVPath is the default input file
	CSVPath string `json:"default_csv_path"`

	// Defaults are the reconciliation flag defaults; CLI flags override
	Defaults types.Flags `json:"defaults"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version:            "1.0",
		ProductID:          "subscription-product",
		BasePlanID:         "monthly-plan",
		RegionsVersion:     "2025/01",
		ServiceAccountPath: "service-account.json",
		CSVPath:            "prices.csv",
		Defaults: types.Flags{
			FixCurrency:        false,
			ConvertCurrency:    false,
			UseRecommended:     false,
			BatchSize:          0,
			EnableAvailability: false,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, merging over defaults. A missing
// file yields the defaults.
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

// Run assembles the per-run configuration record consumed by the core.
// package_name has no sensible default, so its absence is a validation error.
func (c *Config) Run() (types.RunConfig, error) {
	if c.PackageName == "" {
		return types.RunConfig{}, errors.Validation(
			"package_name is required: set it in the config file or pass --package-name")
	}
	return types.RunConfig{
		PackageName:    c.PackageName,
		ProductID:      c.ProductID,
		BasePlanID:     c.BasePlanID,
		RegionsVersion: c.RegionsVersion,
		Flags:          c.Defaults,
	}, nil
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
