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
	"fmt"
	"time"
)

// Collector orchestrates data collection from the Octopus Energy API,
// fronting every fetch with the TTL cache. It owns the wall clock: the
// analysis period is derived here, once, so the cost computation itself
// stays a deterministic function of its inputs.
type Collector struct {
	client  *OctopusClient
	config  *Config
	storage *Storage
	logger  *Logger
}

// NewCollector creates a new data collector
func NewCollector(client *OctopusClient, config *Config, storage *Storage, logger *Logger) *Collector {
	return &Collector{
		client:  client,
		config:  config,
		storage: storage,
		logger:  logger.WithComponent("collector").WithMeter(config.ElectricityMPAN),
	}
}

// CollectAll fetches rates and consumption for the configured history
// window. Electricity is mandatory; a gas fetch failure degrades to a
// warning so the dashboard still renders the electricity side.
func (c *Collector) CollectAll() (*CollectedData, error) {
	now := toUKTime(time.Now())

	data := &CollectedData{
		// Rates run a day ahead so the dashboard can show tomorrow's
		// published Agile prices alongside the history window.
		PeriodFrom: startOfDay(now.AddDate(0, 0, -c.config.HistoryDays)),
		PeriodTo:   endOfDay(now.AddDate(0, 0, 1)),
		FetchedAt:  now,
	}

	c.logger.Info("Collection period",
		"from", data.PeriodFrom.Format("2006-01-02"),
		"to", data.PeriodTo.Format("2006-01-02"),
		"days", c.config.HistoryDays,
	)

	rates, err := c.fetchRatesCached(c.config.ProductCode, c.config.TariffCode, data.PeriodFrom, data.PeriodTo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tariff rates: %w", err)
	}
	data.Rates = rates
	c.logger.LogDataCollection("tariff_rates", len(rates))

	consumption, err := c.fetchConsumptionCached(c.config.ElectricityMPAN, c.config.ElectricitySerial, data.PeriodFrom, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consumption: %w", err)
	}
	data.Consumption = consumption
	c.logger.LogDataCollection("consumption", len(consumption))

	if c.config.GasMPRN != "" && c.config.GasSerial != "" {
		if err := c.collectGas(data, now); err != nil {
			c.logger.Warn("Gas collection failed, continuing without gas", "error", err)
		}
	}

	c.logger.Info("Data collection completed",
		"rates", len(data.Rates),
		"consumption", len(data.Consumption),
		"gas_consumption", len(data.GasConsumption),
	)

	return data, nil
}

// collectGas resolves the MPRN's active agreement, then fetches gas rates,
// standing charges and consumption for the same window.
func (c *Collector) collectGas(data *CollectedData, now time.Time) error {
	point, err := c.fetchGasMeterPointCached(c.config.GasMPRN)
	if err != nil {
		return err
	}

	agreement := selectActiveAgreement(point.Agreements, now)
	if agreement == nil {
		return &DataError{
			DataType: "gas_meter_point",
			Message:  fmt.Sprintf("no agreements on MPRN %s", c.config.GasMPRN),
		}
	}

	productCode := productCodeFromTariffCode(agreement.TariffCode)
	if productCode == "" {
		return &DataError{
			DataType: "gas_meter_point",
			Message:  fmt.Sprintf("cannot derive product code from tariff code %q", agreement.TariffCode),
		}
	}

	c.logger.Info("Resolved gas tariff",
		"tariff_code", agreement.TariffCode,
		"product_code", productCode,
	)

	cacheKey := fmt.Sprintf("gas_rates_%s_%s_%s",
		agreement.TariffCode,
		data.PeriodFrom.Format("2006-01-02"),
		data.PeriodTo.Format("2006-01-02"),
	)
	var gasRates []RateWindow
	cached, err := c.storage.LoadCache(cacheKey, &gasRates)
	if err != nil {
		c.logger.Warn("Failed to load gas rates from cache", "error", err)
	}
	if !cached {
		gasRates, err = c.client.FetchGasTariffRates(productCode, agreement.TariffCode, data.PeriodFrom, data.PeriodTo)
		if err != nil {
			return err
		}
		if err := c.storage.SaveCache(cacheKey, gasRates, ratesCacheTTL); err != nil {
			c.logger.Warn("Failed to cache gas rates", "error", err)
		}
	}
	data.GasRates = gasRates

	standingKey := fmt.Sprintf("gas_standing_%s_%s_%s",
		agreement.TariffCode,
		data.PeriodFrom.Format("2006-01-02"),
		data.PeriodTo.Format("2006-01-02"),
	)
	var standing []RateWindow
	cached, err = c.storage.LoadCache(standingKey, &standing)
	if err != nil {
		c.logger.Warn("Failed to load gas standing charges from cache", "error", err)
	}
	if !cached {
		standing, err = c.client.FetchGasStandingCharges(productCode, agreement.TariffCode, data.PeriodFrom, data.PeriodTo)
		if err != nil {
			return err
		}
		if err := c.storage.SaveCache(standingKey, standing, ratesCacheTTL); err != nil {
			c.logger.Warn("Failed to cache gas standing charges", "error", err)
		}
	}
	data.GasStandingCharges = standing

	consumptionKey := fmt.Sprintf("gas_consumption_%s_%s_%s",
		c.config.GasMPRN,
		data.PeriodFrom.Format("2006-01-02"),
		now.Format("2006-01-02"),
	)
	var gasConsumption []ConsumptionInterval
	cached, err = c.storage.LoadCache(consumptionKey, &gasConsumption)
	if err != nil {
		c.logger.Warn("Failed to load gas consumption from cache", "error", err)
	}
	if !cached {
		gasConsumption, err = c.client.FetchGasConsumption(c.config.GasMPRN, c.config.GasSerial, data.PeriodFrom, now)
		if err != nil {
			return err
		}
		if err := c.storage.SaveCache(consumptionKey, gasConsumption, consumptionTTL); err != nil {
			c.logger.Warn("Failed to cache gas consumption", "error", err)
		}
	}
	data.GasConsumption = gasConsumption

	return nil
}

// fetchRatesCached fetches electricity unit rates with caching. Agile
// rates change through the day, so the TTL is short.
func (c *Collector) fetchRatesCached(productCode, tariffCode string, from, to time.Time) ([]RateWindow, error) {
	cacheKey := fmt.Sprintf("rates_%s_%s_%s",
		tariffCode,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	)

	var rates []RateWindow
	cached, err := c.storage.LoadCache(cacheKey, &rates)
	if err != nil {
		c.logger.Warn("Failed to load rates from cache", "error", err)
	}

	if !cached {
		rates, err = c.client.FetchTariffRates(productCode, tariffCode, from, to)
		if err != nil {
			return nil, err
		}
		if err := c.storage.SaveCache(cacheKey, rates, ratesCacheTTL); err != nil {
			c.logger.Warn("Failed to cache rates", "error", err)
		}
	} else {
		c.logger.Debug("Loaded rates from cache", "tariff", tariffCode, "count", len(rates))
	}

	return rates, nil
}

// fetchConsumptionCached fetches electricity consumption with caching.
func (c *Collector) fetchConsumptionCached(mpan, serial string, from, to time.Time) ([]ConsumptionInterval, error) {
	cacheKey := fmt.Sprintf("consumption_%s_%s_%s",
		mpan,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	)

	var intervals []ConsumptionInterval
	cached, err := c.storage.LoadCache(cacheKey, &intervals)
	if err != nil {
		c.logger.Warn("Failed to load consumption from cache", "error", err)
	}

	if !cached {
		intervals, err = c.client.FetchConsumption(mpan, serial, from, to)
		if err != nil {
			return nil, err
		}
		if err := c.storage.SaveCache(cacheKey, intervals, consumptionTTL); err != nil {
			c.logger.Warn("Failed to cache consumption", "error", err)
		}
	} else {
		c.logger.Debug("Loaded consumption from cache", "count", len(intervals))
	}

	return intervals, nil
}

// fetchGasMeterPointCached fetches the MPRN's agreements with caching.
func (c *Collector) fetchGasMeterPointCached(mprn string) (*GasMeterPoint, error) {
	cacheKey := fmt.Sprintf("gas_meter_point_%s", mprn)

	var point *GasMeterPoint
	cached, err := c.storage.LoadCache(cacheKey, &point)
	if err != nil {
		c.logger.Warn("Failed to load gas meter point from cache", "error", err)
	}

	if !cached || point == nil {
		point, err = c.client.FetchGasMeterPoint(mprn)
		if err != nil {
			return nil, err
		}
		if err := c.storage.SaveCache(cacheKey, point, meterPointCacheTTL); err != nil {
			c.logger.Warn("Failed to cache gas meter point", "error", err)
		}
	}

	return point, nil
}
