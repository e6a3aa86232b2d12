// Copyright 2025 The Octopus-Agile Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Octopus Energy credentials
	APIKey string `yaml:"api_key"`

	// Meter identifiers
	ElectricityMPAN   string `yaml:"electricity_mpan"`
	ElectricitySerial string `yaml:"electricity_serial"`
	GasMPRN           string `yaml:"gas_mprn"`
	GasSerial         string `yaml:"gas_serial"`

	// Tariff selection
	ProductCode string `yaml:"product_code"`
	TariffCode  string `yaml:"tariff_code"`

	// Cost settings
	StandingCharge float64 `yaml:"standing_charge"` // Pounds per day
	HistoryDays    int     `yaml:"history_days"`

	// Dashboard server
	ListenAddr string `yaml:"listen_addr"`

	// Storage
	StoragePath string `yaml:"storage_path"`

	// Debugging
	Debug bool `yaml:"debug"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Set defaults
	config := &Config{
		ProductCode:    DefaultProductCode,
		TariffCode:     DefaultTariffCode,
		StandingCharge: DefaultStandingCharge,
		HistoryDays:    DefaultHistoryDays,
		ListenAddr:     DefaultListenAddr,
		StoragePath:    getDefaultStoragePath(),
		Debug:          false,
	}

	// If no path provided, return defaults with env var overrides
	if path == "" {
		config.applyEnvironmentVariables()
		return config, nil
	}

	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentVariables()

	return config, nil
}

// getDefaultStoragePath returns the default storage path
func getDefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".octopus-agile"
	}
	return filepath.Join(home, ".config", "octopus-agile")
}

// applyEnvironmentVariables overrides config with environment variables.
// MPAN_KEY and METER_KEY are the legacy names the dashboard has always
// accepted; the OCTOPUS_ prefixed forms are preferred.
func (c *Config) applyEnvironmentVariables() {
	if val := os.Getenv("OCTOPUS_API_KEY"); val != "" {
		c.APIKey = val
	}
	if val := os.Getenv("MPAN_KEY"); val != "" {
		c.ElectricityMPAN = val
	}
	if val := os.Getenv("METER_KEY"); val != "" {
		c.ElectricitySerial = val
	}
	if val := os.Getenv("OCTOPUS_ELECTRICITY_MPAN"); val != "" {
		c.ElectricityMPAN = val
	}
	if val := os.Getenv("OCTOPUS_ELECTRICITY_SERIAL"); val != "" {
		c.ElectricitySerial = val
	}
	if val := os.Getenv("OCTOPUS_GAS_MPRN"); val != "" {
		c.GasMPRN = val
	}
	if val := os.Getenv("OCTOPUS_GAS_SERIAL"); val != "" {
		c.GasSerial = val
	}
	if val := os.Getenv("OCTOPUS_PRODUCT_CODE"); val != "" {
		c.ProductCode = val
	}
	if val := os.Getenv("OCTOPUS_TARIFF_CODE"); val != "" {
		c.TariffCode = val
	}
	if val := os.Getenv("OCTOPUS_STANDING_CHARGE"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			c.StandingCharge = parsed
		}
	}
	if val := os.Getenv("OCTOPUS_STORAGE_PATH"); val != "" {
		c.StoragePath = val
	}
	if val := os.Getenv("OCTOPUS_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error
	fail := func(field, message string) {
		errs = append(errs, &ConfigError{Field: field, Message: message})
	}

	// Required fields
	if c.APIKey == "" {
		fail("api_key", "api_key is required")
	} else if len(c.APIKey) < 20 {
		fail("api_key", "api_key appears to be invalid (too short)")
	}

	if c.ElectricityMPAN == "" {
		fail("electricity_mpan", "electricity_mpan is required")
	}
	if c.ElectricitySerial == "" {
		fail("electricity_serial", "electricity_serial is required")
	}

	// Gas is optional, but if one identifier is set both must be
	if (c.GasMPRN == "") != (c.GasSerial == "") {
		fail("gas_mprn", "gas_mprn and gas_serial must be configured together")
	}

	if c.ProductCode == "" {
		fail("product_code", "product_code is required")
	}
	if c.TariffCode == "" {
		fail("tariff_code", "tariff_code is required")
	}

	// The history selector has always been bounded to the slider range
	if c.HistoryDays < 7 || c.HistoryDays > 90 {
		fail("history_days", "history_days must be between 7 and 90")
	}

	if c.StandingCharge < 0 {
		fail("standing_charge", "standing_charge must not be negative")
	}

	// Set default storage path if empty
	if c.StoragePath == "" {
		c.StoragePath = getDefaultStoragePath()
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}
