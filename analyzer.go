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
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Analyzer turns collected rates and consumption into the dashboard
// result: per-interval costs, daily and period summaries, cheapest-slot
// picks and the rendered charts.
type Analyzer struct {
	config *Config
	charts *ChartGenerator
	logger *Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(config *Config, logger *Logger) *Analyzer {
	return &Analyzer{
		config: config,
		charts: NewChartGenerator(),
		logger: logger.WithComponent("analyzer"),
	}
}

// Analyze computes costs for the collected period. Chart rendering is
// best-effort: a render failure logs a warning and leaves the chart
// field empty, it never fails the analysis.
func (a *Analyzer) Analyze(data *CollectedData) (*DashboardResult, error) {
	now := toUKTime(time.Now())

	result := &DashboardResult{
		GeneratedAt: now,
		PeriodFrom:  data.PeriodFrom,
		PeriodTo:    data.PeriodTo,
	}

	index := NewRateWindowIndex(data.Rates)
	standingCharge := decimal.NewFromFloat(a.config.StandingCharge)

	records, err := AllocateCosts(data.Consumption, index, standingCharge)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.Daily = SummarizeDaily(records)
	result.Summary = Summarize(records)
	result.RateMissing = RateMissingIntervals(records)

	if n := result.Summary.RateMissingCount; n > 0 {
		a.logger.LogRateGaps("electricity", n)
	}

	if len(data.GasConsumption) > 0 {
		a.analyzeGas(data, result, now)
	}

	result.TodayRates = ratesForDay(data.Rates, civilDate(now))
	result.TomorrowRates = ratesForDay(data.Rates, civilDate(now).AddDate(0, 0, 1))
	result.CheapestSlots = cheapestSlots(data.Rates, now, cheapestSlotCount)

	a.renderCharts(result)

	a.logger.Info("Analysis completed",
		"records", len(result.Records),
		"days", result.Summary.Days,
		"total_cost", result.Summary.TotalCost.StringFixed(2),
		"rate_missing", result.Summary.RateMissingCount,
	)

	return result, nil
}

// analyzeGas runs the same allocation for the gas meter. The gas standing
// charge comes from the API's standing-charge windows (pence/day) rather
// than config; with no covering window the charge is zero and the gap is
// logged.
func (a *Analyzer) analyzeGas(data *CollectedData, result *DashboardResult, now time.Time) {
	index := NewRateWindowIndex(data.GasRates)
	standingCharge := gasStandingChargeAt(data.GasStandingCharges, now)
	if standingCharge.IsZero() {
		a.logger.Warn("No gas standing charge window covers the period, charging zero")
	}

	records, err := AllocateCosts(data.GasConsumption, index, standingCharge)
	if err != nil {
		a.logger.Warn("Gas cost allocation failed, continuing without gas", "error", err)
		return
	}

	result.GasRecords = records
	result.GasDaily = SummarizeDaily(records)
	summary := Summarize(records)
	result.GasSummary = &summary

	if n := summary.RateMissingCount; n > 0 {
		a.logger.LogRateGaps("gas", n)
	}
}

// gasStandingChargeAt resolves today's gas standing charge in pounds/day
// from the API's pence/day windows.
func gasStandingChargeAt(windows []RateWindow, t time.Time) decimal.Decimal {
	index := NewRateWindowIndex(windows)
	pence, ok := index.RateAt(t)
	if !ok {
		return decimal.Zero
	}
	return pence.Div(penceInPound)
}

// ratesForDay extracts the half-hour price points whose window starts on
// the given UK calendar day, ordered by time.
func ratesForDay(rates []RateWindow, day time.Time) []RateSlot {
	var slots []RateSlot
	for _, w := range rates {
		if civilDate(w.ValidFrom).Equal(day) {
			slots = append(slots, RateSlot{Time: w.ValidFrom, RateIncVAT: w.RateIncVAT})
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Time.Before(slots[j].Time) })
	return slots
}

// cheapestSlots picks the n cheapest half-hour slots on today's UK calendar
// day, returned in chronological order so the presentation layer can show a
// schedule. Only slots starting between 00:01 and 23:59 count; the midnight
// slot belongs to the previous evening's pricing and is skipped.
func cheapestSlots(rates []RateWindow, now time.Time, n int) []RateSlot {
	today := civilDate(now)
	var candidates []RateSlot
	for _, w := range rates {
		if !civilDate(w.ValidFrom).Equal(today) {
			continue
		}
		if w.ValidFrom.Hour() == 0 && w.ValidFrom.Minute() == 0 {
			continue
		}
		candidates = append(candidates, RateSlot{Time: w.ValidFrom, RateIncVAT: w.RateIncVAT})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RateIncVAT.LessThan(candidates[j].RateIncVAT)
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Time.Before(candidates[j].Time) })
	return candidates
}

// renderCharts renders the three dashboard charts, logging and skipping
// any that fail.
func (a *Analyzer) renderCharts(result *DashboardResult) {
	if chart, err := a.charts.GenerateRatesChart(result.TodayRates, result.TomorrowRates); err != nil {
		a.logger.Warn("Failed to generate rates chart", "error", err)
	} else {
		result.RatesChart = chart
	}

	if chart, err := a.charts.GenerateDailyUsageChart(result.Daily); err != nil {
		a.logger.Warn("Failed to generate daily usage chart", "error", err)
	} else {
		result.UsageCostChart = chart
	}

	if chart, err := a.charts.GenerateCostBreakdownChart(result.Daily); err != nil {
		a.logger.Warn("Failed to generate cost breakdown chart", "error", err)
	} else {
		result.BreakdownChart = chart
	}
}
