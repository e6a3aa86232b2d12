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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		APIKey:            "sk_live_test_key_0123456789",
		ElectricityMPAN:   "1234567890123",
		ElectricitySerial: "21E0000000",
		ProductCode:       DefaultProductCode,
		TariffCode:        DefaultTariffCode,
		StandingCharge:    DefaultStandingCharge,
		HistoryDays:       DefaultHistoryDays,
		StoragePath:       "/tmp/octopus-agile-test",
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultProductCode, config.ProductCode)
	assert.Equal(t, DefaultTariffCode, config.TariffCode)
	assert.Equal(t, DefaultStandingCharge, config.StandingCharge)
	assert.Equal(t, DefaultHistoryDays, config.HistoryDays)
	assert.Equal(t, DefaultListenAddr, config.ListenAddr)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api_key: sk_live_from_file_0123456789
electricity_mpan: "1234567890123"
electricity_serial: 21E0000000
standing_charge: 0.45
history_days: 14
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk_live_from_file_0123456789", config.APIKey)
	assert.Equal(t, "1234567890123", config.ElectricityMPAN)
	assert.Equal(t, 0.45, config.StandingCharge)
	assert.Equal(t, 14, config.HistoryDays)
	// File left defaults untouched elsewhere.
	assert.Equal(t, DefaultTariffCode, config.TariffCode)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("OCTOPUS_API_KEY", "sk_live_from_env_0123456789")
	t.Setenv("MPAN_KEY", "9876543210987")
	t.Setenv("METER_KEY", "19L1111111")
	t.Setenv("OCTOPUS_STANDING_CHARGE", "0.50")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sk_live_from_env_0123456789", config.APIKey)
	assert.Equal(t, "9876543210987", config.ElectricityMPAN)
	assert.Equal(t, "19L1111111", config.ElectricitySerial)
	assert.Equal(t, 0.50, config.StandingCharge)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing api key", func(c *Config) { c.APIKey = "" }, "api_key is required"},
		{"short api key", func(c *Config) { c.APIKey = "short" }, "api_key appears to be invalid"},
		{"missing mpan", func(c *Config) { c.ElectricityMPAN = "" }, "electricity_mpan is required"},
		{"missing serial", func(c *Config) { c.ElectricitySerial = "" }, "electricity_serial is required"},
		{"gas mprn without serial", func(c *Config) { c.GasMPRN = "3001234567" }, "gas_mprn and gas_serial must be configured together"},
		{"history too short", func(c *Config) { c.HistoryDays = 3 }, "history_days must be between 7 and 90"},
		{"history too long", func(c *Config) { c.HistoryDays = 365 }, "history_days must be between 7 and 90"},
		{"negative standing charge", func(c *Config) { c.StandingCharge = -0.1 }, "standing_charge must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validTestConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigValidateGasPairAccepted(t *testing.T) {
	config := validTestConfig()
	config.GasMPRN = "3001234567"
	config.GasSerial = "G4W00000000000"
	assert.NoError(t, config.Validate())
}

func TestConfigValidateReturnsConfigError(t *testing.T) {
	config := validTestConfig()
	config.APIKey = ""
	config.HistoryDays = 500

	err := config.Validate()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "api_key", cfgErr.Field)
	assert.Contains(t, err.Error(), "history_days must be between 7 and 90")
}
