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
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Reporter generates markdown reports from dashboard results
type Reporter struct {
	logger *Logger
}

// NewReporter creates a new report generator
func NewReporter(logger *Logger) *Reporter {
	return &Reporter{
		logger: logger,
	}
}

// GenerateReport creates a markdown report from a dashboard result
func (r *Reporter) GenerateReport(result *DashboardResult, outputPath string) error {
	r.logger.Info("Generating report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	r.writeHeader(writer, result)
	r.writeSummary(writer, result)
	r.writeRateGaps(writer, result)
	r.writeCheapestSlots(writer, result)
	r.writeDailyBreakdown(writer, result)
	r.writeGasSection(writer, result)
	r.writeFooter(writer)

	if outputPath != "" {
		r.logger.Info("Report saved", "path", outputPath)
	}

	return nil
}

// writeHeader writes the report header
func (r *Reporter) writeHeader(w io.Writer, result *DashboardResult) {
	fmt.Fprintf(w, "# Octopus Agile Cost Report\n\n")
	fmt.Fprintf(w, "**Generated:** %s (%s)\n\n",
		result.GeneratedAt.Format("2006-01-02 15:04:05"),
		humanize.Time(result.GeneratedAt),
	)
	fmt.Fprintf(w, "**Period:** %s to %s (%d days with data)\n\n",
		result.PeriodFrom.Format("2006-01-02"),
		result.PeriodTo.Format("2006-01-02"),
		result.Summary.Days,
	)
	fmt.Fprintf(w, "**octopus-agile version:** %s\n\n", GetVersion())
	fmt.Fprintf(w, "---\n\n")
}

// writeSummary writes the summary section
func (r *Reporter) writeSummary(w io.Writer, result *DashboardResult) {
	fmt.Fprintf(w, "## 📊 Summary\n\n")

	s := result.Summary
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| ⚡ Total Consumption | %s kWh |\n", humanize.CommafWithDigits(s.TotalConsumptionKWh.InexactFloat64(), 2))
	fmt.Fprintf(w, "| 💷 Usage Cost | %s |\n", FormatCurrency(s.TotalUsageCost))
	fmt.Fprintf(w, "| 🏠 Standing Charges | %s |\n", FormatCurrency(s.TotalStandingCharge))
	fmt.Fprintf(w, "| 💰 **Total Bill** | **%s** |\n", FormatCurrency(s.TotalCost))
	if s.Days > 0 {
		avg := s.TotalCost.Div(decimal.NewFromInt(int64(s.Days)))
		fmt.Fprintf(w, "| 📅 Average Daily Cost | %s |\n", FormatCurrency(avg))
	}
	fmt.Fprintf(w, "\n")
}

// writeRateGaps writes the rate-gap warning section
func (r *Reporter) writeRateGaps(w io.Writer, result *DashboardResult) {
	if result.Summary.RateMissingCount == 0 {
		return
	}

	fmt.Fprintf(w, "## ⚠️ Missing Rate Data\n\n")
	fmt.Fprintf(w, "**%d intervals** had no published tariff rate; their usage cost is shown as zero and the totals above understate the true bill.\n\n",
		result.Summary.RateMissingCount)

	// Show the first few so the user can see where the gap is.
	limit := 10
	if len(result.RateMissing) < limit {
		limit = len(result.RateMissing)
	}
	fmt.Fprintf(w, "| Interval Start | Consumption |\n")
	fmt.Fprintf(w, "|----------------|-------------|\n")
	for _, rec := range result.RateMissing[:limit] {
		fmt.Fprintf(w, "| %s | %s kWh |\n",
			rec.IntervalStart.Format("2006-01-02 15:04"),
			rec.ConsumptionKWh.StringFixed(3),
		)
	}
	if len(result.RateMissing) > limit {
		fmt.Fprintf(w, "\n*...and %d more.*\n", len(result.RateMissing)-limit)
	}
	fmt.Fprintf(w, "\n")
}

// writeCheapestSlots writes the cheapest slots section for today
func (r *Reporter) writeCheapestSlots(w io.Writer, result *DashboardResult) {
	if len(result.CheapestSlots) == 0 {
		return
	}

	fmt.Fprintf(w, "## 🔋 Cheapest Slots Today\n\n")
	fmt.Fprintf(w, "| Slot | Rate |\n")
	fmt.Fprintf(w, "|------|------|\n")
	for _, slot := range result.CheapestSlots {
		fmt.Fprintf(w, "| %s | %sp/kWh |\n",
			slot.Time.Format("Mon 15:04"),
			slot.RateIncVAT.StringFixed(2),
		)
	}
	fmt.Fprintf(w, "\n")
}

// writeDailyBreakdown writes the per-day cost table
func (r *Reporter) writeDailyBreakdown(w io.Writer, result *DashboardResult) {
	if len(result.Daily) == 0 {
		fmt.Fprintf(w, "*No consumption data available for the period.*\n\n")
		return
	}

	fmt.Fprintf(w, "## 📅 Daily Breakdown\n\n")
	fmt.Fprintf(w, "| Date | Usage | Usage Cost | Standing | Total |\n")
	fmt.Fprintf(w, "|------|-------|------------|----------|-------|\n")
	for _, day := range result.Daily {
		fmt.Fprintf(w, "| %s | %s kWh | %s | %s | %s |\n",
			day.Date.Format("2006-01-02"),
			day.ConsumptionKWh.StringFixed(2),
			FormatCurrency(day.UsageCost),
			FormatCurrency(day.StandingCharge),
			FormatCurrency(day.TotalCost),
		)
	}
	fmt.Fprintf(w, "\n")
}

// writeGasSection writes the gas summary, when a gas meter is configured
func (r *Reporter) writeGasSection(w io.Writer, result *DashboardResult) {
	if result.GasSummary == nil {
		return
	}

	s := result.GasSummary
	fmt.Fprintf(w, "## 🔥 Gas\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| 🔥 Total Consumption | %s kWh |\n", humanize.CommafWithDigits(s.TotalConsumptionKWh.InexactFloat64(), 2))
	fmt.Fprintf(w, "| 💷 Usage Cost | %s |\n", FormatCurrency(s.TotalUsageCost))
	fmt.Fprintf(w, "| 🏠 Standing Charges | %s |\n", FormatCurrency(s.TotalStandingCharge))
	fmt.Fprintf(w, "| 💰 **Total** | **%s** |\n", FormatCurrency(s.TotalCost))
	fmt.Fprintf(w, "\n")
}

// writeFooter writes the report footer
func (r *Reporter) writeFooter(w io.Writer) {
	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "*Costs are computed from half-hourly smart meter readings and published Agile rates. Readings can lag by up to a day, so recent totals may rise as data arrives.*\n\n")
	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "This is an unofficial third-party application. \"Octopus Energy\" is a trademark of Octopus Energy Group Limited. This application is not affiliated with, endorsed by, or connected to Octopus Energy.\n")
}

// FormatCurrency formats a pound value as currency
func FormatCurrency(value decimal.Decimal) string {
	return fmt.Sprintf("£%s", value.StringFixed(2))
}
