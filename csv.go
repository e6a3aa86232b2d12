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
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"
)

// dailyCSVPath derives the daily-summary sibling of a per-interval CSV
// path: costs.csv becomes costs_daily.csv.
func dailyCSVPath(path string) string {
	if strings.HasSuffix(path, ".csv") {
		return strings.TrimSuffix(path, ".csv") + "_daily.csv"
	}
	return path + "_daily.csv"
}

// WriteCostCSV exports the half-hourly cost table for spreadsheet use.
func WriteCostCSV(filename string, records []CostRecord) error {
	file, err := os.Create(filename)
	if err != nil {
		return &StorageError{
			Operation: "create_csv",
			Path:      filename,
			Err:       err,
		}
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"interval_start",
		"date",
		"consumption_kwh",
		"usage_cost",
		"standing_charge",
		"total_cost",
		"rate_missing",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			rec.IntervalStart.Format(time.RFC3339),
			rec.Date.Format("2006-01-02"),
			rec.ConsumptionKWh.StringFixed(3),
			rec.UsageCost.StringFixed(4),
			rec.StandingCharge.StringFixed(4),
			rec.TotalCost.StringFixed(4),
			strconv.FormatBool(rec.RateMissing),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

// WriteDailyCostCSV exports the per-day cost breakdown.
func WriteDailyCostCSV(filename string, daily []DailyCost) error {
	file, err := os.Create(filename)
	if err != nil {
		return &StorageError{
			Operation: "create_csv",
			Path:      filename,
			Err:       err,
		}
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"date",
		"consumption_kwh",
		"usage_cost",
		"standing_charge",
		"total_cost",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, day := range daily {
		row := []string{
			day.Date.Format("2006-01-02"),
			day.ConsumptionKWh.StringFixed(3),
			day.UsageCost.StringFixed(2),
			day.StandingCharge.StringFixed(2),
			day.TotalCost.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}
