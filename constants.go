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

import "time"

const (
	// OctopusRESTAPIBase is the base URL for REST API endpoints
	OctopusRESTAPIBase = "https://api.octopus.energy/v1"

	// DefaultProductCode and DefaultTariffCode select the Agile tariff the
	// dashboard tracks when the config does not name one. Region code C.
	DefaultProductCode = "AGILE-24-10-01"
	DefaultTariffCode  = "E-1R-AGILE-24-10-01-C"

	// DefaultStandingCharge is the fallback daily standing charge in
	// pounds, editable in config and on the command line.
	DefaultStandingCharge = 0.3954

	// DefaultHistoryDays is how far back the usage page looks.
	DefaultHistoryDays = 30

	// DefaultListenAddr is where -serve exposes the dashboard.
	DefaultListenAddr = "127.0.0.1:8480"

	// API page sizes: half-hour slots, so 1500 covers a month of rates per
	// page and 5000 covers the full 90 day history window of consumption.
	ratesPageSize       = 1500
	consumptionPageSize = 5000

	// Cache TTLs. Agile publishes next-day rates around 16:00, so rates go
	// stale quickly; consumption backfills slowly; agreements rarely move.
	ratesCacheTTL      = 30 * time.Minute
	consumptionTTL     = 6 * time.Hour
	meterPointCacheTTL = 24 * time.Hour

	// cheapestSlotCount is how many of today's cheapest half-hour slots
	// the dashboard highlights.
	cheapestSlotCount = 10
)
