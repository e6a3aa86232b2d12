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
	"time"

	"github.com/shopspring/decimal"
)

// RateWindow is one tariff rate validity window. ValidFrom is inclusive,
// ValidTo exclusive; a nil ValidTo means the window is open-ended (the
// current tariff). Timestamps are UK civil time.
type RateWindow struct {
	ValidFrom  time.Time       `json:"valid_from"`
	ValidTo    *time.Time      `json:"valid_to"`
	RateIncVAT decimal.Decimal `json:"value_inc_vat"` // pence per kWh (or pence per day for standing charges)
}

// Contains reports whether t falls inside the window's half-open range.
func (w RateWindow) Contains(t time.Time) bool {
	if t.Before(w.ValidFrom) {
		return false
	}
	return w.ValidTo == nil || t.Before(*w.ValidTo)
}

// ConsumptionInterval is one metered half-hour usage slot, immutable and
// sourced from the consumption API. Timestamps are UK civil time.
type ConsumptionInterval struct {
	IntervalStart  time.Time       `json:"interval_start"`
	IntervalEnd    time.Time       `json:"interval_end"`
	ConsumptionKWh decimal.Decimal `json:"consumption"`
}

// CostRecord is the cost-annotated form of one consumption interval.
// StandingCharge is non-zero for exactly one record per calendar day (the
// chronologically first interval of that day); RateMissing marks intervals
// no tariff window covered, whose usage cost is therefore incomplete.
type CostRecord struct {
	IntervalStart  time.Time       `json:"interval_start"`
	Date           time.Time       `json:"date"`
	ConsumptionKWh decimal.Decimal `json:"consumption"`
	UsageCost      decimal.Decimal `json:"usage_cost"`      // pounds
	StandingCharge decimal.Decimal `json:"standing_charge"` // pounds
	TotalCost      decimal.Decimal `json:"total_cost"`      // pounds
	RateMissing    bool            `json:"rate_missing,omitempty"`
}

// DailyCost is the per-calendar-day reduction of a cost record sequence.
type DailyCost struct {
	Date           time.Time       `json:"date"`
	ConsumptionKWh decimal.Decimal `json:"consumption"`
	UsageCost      decimal.Decimal `json:"usage_cost"`
	StandingCharge decimal.Decimal `json:"standing_charge"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// CostSummary is the whole-period reduction of a cost record sequence.
type CostSummary struct {
	TotalConsumptionKWh decimal.Decimal `json:"total_consumption"`
	TotalUsageCost      decimal.Decimal `json:"total_usage_cost"`
	TotalStandingCharge decimal.Decimal `json:"total_standing_charge"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	Days                int             `json:"days"`
	RateMissingCount    int             `json:"rate_missing_count"`
}

// Agreement is a tariff agreement attached to a meter point.
type Agreement struct {
	TariffCode string     `json:"tariff_code"`
	ValidFrom  time.Time  `json:"valid_from"`
	ValidTo    *time.Time `json:"valid_to"`
}

// GasMeterPoint holds the agreements registered against an MPRN.
type GasMeterPoint struct {
	MPRN       string      `json:"mprn"`
	Agreements []Agreement `json:"agreements"`
}

// RateSlot is one half-hour price point for the rates tables and chart.
type RateSlot struct {
	Time       time.Time       `json:"time"`
	RateIncVAT decimal.Decimal `json:"value_inc_vat"`
}

// CollectedData holds everything fetched (or served from cache) for one
// refresh cycle. It is immutable once returned by the collector.
type CollectedData struct {
	Rates              []RateWindow          `json:"rates"`
	Consumption        []ConsumptionInterval `json:"consumption"`
	GasRates           []RateWindow          `json:"gasRates,omitempty"`
	GasStandingCharges []RateWindow          `json:"gasStandingCharges,omitempty"`
	GasConsumption     []ConsumptionInterval `json:"gasConsumption,omitempty"`
	PeriodFrom         time.Time             `json:"periodFrom"`
	PeriodTo           time.Time             `json:"periodTo"`
	FetchedAt          time.Time             `json:"fetchedAt"`
}

// DashboardResult is the complete analysis output consumed by the HTML and
// markdown reporters.
type DashboardResult struct {
	GeneratedAt time.Time `json:"generatedAt"`
	PeriodFrom  time.Time `json:"periodFrom"`
	PeriodTo    time.Time `json:"periodTo"`

	Records []CostRecord `json:"records"`
	Daily   []DailyCost  `json:"daily"`
	Summary CostSummary  `json:"summary"`

	GasRecords []CostRecord `json:"gasRecords,omitempty"`
	GasDaily   []DailyCost  `json:"gasDaily,omitempty"`
	GasSummary *CostSummary `json:"gasSummary,omitempty"`

	CheapestSlots []RateSlot `json:"cheapestSlots"`
	TodayRates    []RateSlot `json:"todayRates"`
	TomorrowRates []RateSlot `json:"tomorrowRates"`

	RateMissing []CostRecord `json:"rateMissing,omitempty"`

	// Charts (base64 encoded PNG images)
	RatesChart     string `json:"ratesChart,omitempty"`
	UsageCostChart string `json:"usageCostChart,omitempty"`
	BreakdownChart string `json:"breakdownChart,omitempty"`
}

// REST API wire types. Timestamps stay strings here; parsing and zone
// normalization happen in the client before anything downstream sees them.

// RatesResponse is the paginated unit-rate / standing-charge response.
type RatesResponse struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []struct {
		ValidFrom   string  `json:"valid_from"`
		ValidTo     *string `json:"valid_to"`
		ValueExcVAT float64 `json:"value_exc_vat"`
		ValueIncVAT float64 `json:"value_inc_vat"`
	} `json:"results"`
}

// ConsumptionResponse is the paginated consumption response.
type ConsumptionResponse struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []struct {
		IntervalStart string  `json:"interval_start"`
		IntervalEnd   string  `json:"interval_end"`
		Consumption   float64 `json:"consumption"`
	} `json:"results"`
}

// MeterPointResponse is the gas meter point detail response.
type MeterPointResponse struct {
	MPRN       string `json:"mprn"`
	Agreements []struct {
		TariffCode string  `json:"tariff_code"`
		ValidFrom  string  `json:"valid_from"`
		ValidTo    *string `json:"valid_to"`
	} `json:"agreements"`
}
