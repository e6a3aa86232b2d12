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
	"encoding/base64"
	"fmt"

	charts "github.com/vicanso/go-charts/v2"
)

// ChartGenerator handles chart generation
type ChartGenerator struct {
	theme string
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{
		theme: "dark", // Match our HTML report dark theme
	}
}

// GenerateRatesChart creates a line chart of today's half-hourly unit
// rates, with tomorrow's overlaid once they are published. The two series
// only line up when tomorrow has the same number of slots as today, so
// the overlay is skipped on mismatch (tomorrow publishes at 16:00, and
// DST changeover days have 46 or 50 slots).
func (cg *ChartGenerator) GenerateRatesChart(today, tomorrow []RateSlot) (string, error) {
	if len(today) == 0 {
		return "", fmt.Errorf("no rate data available")
	}

	var labels []string
	var todayValues []float64
	for _, slot := range today {
		labels = append(labels, slot.Time.Format("15:04"))
		todayValues = append(todayValues, slot.RateIncVAT.InexactFloat64())
	}

	values := [][]float64{todayValues}
	legendLabels := []string{"Today (p/kWh)"}

	if len(tomorrow) == len(today) {
		var tomorrowValues []float64
		for _, slot := range tomorrow {
			tomorrowValues = append(tomorrowValues, slot.RateIncVAT.InexactFloat64())
		}
		values = append(values, tomorrowValues)
		legendLabels = append(legendLabels, "Tomorrow (p/kWh)")
	}

	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc("Agile Unit Rates"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(legendLabels, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render rates chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// GenerateDailyUsageChart creates a line chart of daily consumption and
// total cost over the analysis period.
func (cg *ChartGenerator) GenerateDailyUsageChart(daily []DailyCost) (string, error) {
	if len(daily) == 0 {
		return "", fmt.Errorf("no daily cost data available")
	}

	var labels []string
	var usageValues []float64
	var costValues []float64
	for _, day := range daily {
		labels = append(labels, day.Date.Format("Jan 2"))
		usageValues = append(usageValues, day.ConsumptionKWh.InexactFloat64())
		costValues = append(costValues, day.TotalCost.InexactFloat64())
	}

	p, err := charts.LineRender(
		[][]float64{usageValues, costValues},
		charts.TitleTextOptionFunc("Daily Usage and Cost"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Usage (kWh)", "Total Cost (£)"}, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render usage chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// GenerateCostBreakdownChart creates a bar chart splitting each day's
// cost into usage and standing charge.
func (cg *ChartGenerator) GenerateCostBreakdownChart(daily []DailyCost) (string, error) {
	if len(daily) == 0 {
		return "", fmt.Errorf("no daily cost data available")
	}

	var labels []string
	var usageValues []float64
	var standingValues []float64
	for _, day := range daily {
		labels = append(labels, day.Date.Format("Jan 2"))
		usageValues = append(usageValues, day.UsageCost.InexactFloat64())
		standingValues = append(standingValues, day.StandingCharge.InexactFloat64())
	}

	p, err := charts.BarRender(
		[][]float64{usageValues, standingValues},
		charts.TitleTextOptionFunc("Daily Cost Breakdown"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Usage Cost (£)", "Standing Charge (£)"}, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render breakdown chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// getTheme returns the chart theme name
func (cg *ChartGenerator) getTheme() string {
	return cg.theme
}
