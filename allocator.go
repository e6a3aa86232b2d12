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
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// penceInPound converts pence/kWh unit rates into pound-denominated costs.
var penceInPound = decimal.NewFromInt(100)

// AllocateCosts joins a consumption series against a rate index and a daily
// standing charge, producing one cost record per interval.
//
// The input is defensively sorted (a copy, by IntervalStart ascending)
// before allocation, so "the first interval of each day" is well-defined
// regardless of input order. The chronologically first record of each UK
// calendar day carries the full standing charge; every other record of that
// day carries zero. Intervals with no covering rate window get a zero usage
// cost and RateMissing set, never a silent default rate.
//
// Empty consumption yields empty output and a nil error. An interval with
// no start timestamp fails fast with a ValidationError; that is the only
// error this function produces.
func AllocateCosts(intervals []ConsumptionInterval, rates *RateWindowIndex, standingChargePerDay decimal.Decimal) ([]CostRecord, error) {
	if len(intervals) == 0 {
		return nil, nil
	}

	for i, iv := range intervals {
		if iv.IntervalStart.IsZero() {
			return nil, &ValidationError{
				Field:   "interval_start",
				Message: fmt.Sprintf("consumption record %d has no interval_start", i),
			}
		}
	}

	sorted := make([]ConsumptionInterval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IntervalStart.Before(sorted[j].IntervalStart)
	})

	records := make([]CostRecord, 0, len(sorted))
	var lastDate time.Time
	for _, iv := range sorted {
		rec := CostRecord{
			IntervalStart:  iv.IntervalStart,
			Date:           civilDate(iv.IntervalStart),
			ConsumptionKWh: iv.ConsumptionKWh,
		}

		if rate, ok := rates.RateAt(iv.IntervalStart); ok {
			// kWh x pence/kWh / 100 = pounds
			rec.UsageCost = iv.ConsumptionKWh.Mul(rate).Div(penceInPound)
		} else {
			rec.RateMissing = true
		}

		// The standing charge does not depend on rate availability.
		if !rec.Date.Equal(lastDate) {
			rec.StandingCharge = standingChargePerDay
			lastDate = rec.Date
		}

		rec.TotalCost = rec.UsageCost.Add(rec.StandingCharge)
		records = append(records, rec)
	}

	return records, nil
}

// SummarizeDaily reduces a cost record sequence into per-day totals,
// ordered by date ascending. It is a pure fold; records carry all state.
func SummarizeDaily(records []CostRecord) []DailyCost {
	byDate := make(map[time.Time]*DailyCost)
	var dates []time.Time
	for _, rec := range records {
		day, ok := byDate[rec.Date]
		if !ok {
			day = &DailyCost{Date: rec.Date}
			byDate[rec.Date] = day
			dates = append(dates, rec.Date)
		}
		day.ConsumptionKWh = day.ConsumptionKWh.Add(rec.ConsumptionKWh)
		day.UsageCost = day.UsageCost.Add(rec.UsageCost)
		day.StandingCharge = day.StandingCharge.Add(rec.StandingCharge)
		day.TotalCost = day.TotalCost.Add(rec.TotalCost)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	daily := make([]DailyCost, 0, len(dates))
	for _, d := range dates {
		daily = append(daily, *byDate[d])
	}
	return daily
}

// Summarize reduces a cost record sequence into whole-period totals plus
// the rate-missing count surfaced as a user-facing warning.
func Summarize(records []CostRecord) CostSummary {
	var s CostSummary
	seen := make(map[time.Time]bool)
	for _, rec := range records {
		s.TotalConsumptionKWh = s.TotalConsumptionKWh.Add(rec.ConsumptionKWh)
		s.TotalUsageCost = s.TotalUsageCost.Add(rec.UsageCost)
		s.TotalStandingCharge = s.TotalStandingCharge.Add(rec.StandingCharge)
		s.TotalCost = s.TotalCost.Add(rec.TotalCost)
		if rec.RateMissing {
			s.RateMissingCount++
		}
		if !seen[rec.Date] {
			seen[rec.Date] = true
			s.Days++
		}
	}
	return s
}

// RateMissingIntervals returns the records whose interval had no matching
// rate window, for the presentation layer's warning list.
func RateMissingIntervals(records []CostRecord) []CostRecord {
	var missing []CostRecord
	for _, rec := range records {
		if rec.RateMissing {
			missing = append(missing, rec)
		}
	}
	return missing
}
