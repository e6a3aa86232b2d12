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
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatesForDay(t *testing.T) {
	day := ukTime(2025, 1, 15, 0, 0)
	var windows []RateWindow
	// Yesterday evening, all of today, tomorrow morning.
	windows = append(windows, window(day.Add(-time.Hour), day.Add(-30*time.Minute), "5.0"))
	for slot := 0; slot < 48; slot++ {
		start := day.Add(time.Duration(slot) * 30 * time.Minute)
		windows = append(windows, window(start, start.Add(30*time.Minute), fmt.Sprintf("%d.0", slot)))
	}
	windows = append(windows, window(day.AddDate(0, 0, 1), day.AddDate(0, 0, 1).Add(30*time.Minute), "7.0"))

	slots := ratesForDay(windows, civilDate(day))
	require.Len(t, slots, 48)
	assert.True(t, slots[0].Time.Equal(day))
	assert.True(t, slots[47].Time.Equal(day.Add(47*30*time.Minute)))
}

func TestCheapestSlots(t *testing.T) {
	now := ukTime(2025, 1, 15, 12, 0)

	windows := []RateWindow{
		window(ukTime(2025, 1, 15, 2, 0), ukTime(2025, 1, 15, 2, 30), "1.0"), // earlier today still counts
		window(ukTime(2025, 1, 15, 13, 0), ukTime(2025, 1, 15, 13, 30), "8.0"),
		window(ukTime(2025, 1, 15, 13, 30), ukTime(2025, 1, 15, 14, 0), "3.0"),
		window(ukTime(2025, 1, 15, 14, 0), ukTime(2025, 1, 15, 14, 30), "12.0"),
		window(ukTime(2025, 1, 15, 14, 30), ukTime(2025, 1, 15, 15, 0), "5.0"),
	}

	slots := cheapestSlots(windows, now, 3)
	require.Len(t, slots, 3)

	// Cheapest three anywhere in today's day (1.0, 3.0, 5.0), in time order.
	assert.True(t, slots[0].RateIncVAT.Equal(decimal.RequireFromString("1.0")))
	assert.True(t, slots[1].RateIncVAT.Equal(decimal.RequireFromString("3.0")))
	assert.True(t, slots[2].RateIncVAT.Equal(decimal.RequireFromString("5.0")))
	assert.True(t, slots[0].Time.Before(slots[1].Time))
	assert.True(t, slots[1].Time.Before(slots[2].Time))
}

func TestCheapestSlotsTodayOnly(t *testing.T) {
	now := ukTime(2025, 1, 15, 16, 30)

	windows := []RateWindow{
		// Today's only non-midnight slot, pricey.
		window(ukTime(2025, 1, 15, 18, 0), ukTime(2025, 1, 15, 18, 30), "20.0"),
		// Tomorrow's published rates must not compete with today's.
		window(ukTime(2025, 1, 16, 3, 0), ukTime(2025, 1, 16, 3, 30), "1.0"),
		// Nor yesterday's.
		window(ukTime(2025, 1, 14, 3, 0), ukTime(2025, 1, 14, 3, 30), "0.5"),
	}

	slots := cheapestSlots(windows, now, 1)
	require.Len(t, slots, 1)
	assert.Equal(t, 15, slots[0].Time.Day())
	assert.True(t, slots[0].RateIncVAT.Equal(decimal.RequireFromString("20.0")))
}

func TestCheapestSlotsSkipsMidnightSlot(t *testing.T) {
	now := ukTime(2025, 1, 15, 12, 0)

	windows := []RateWindow{
		window(ukTime(2025, 1, 15, 0, 0), ukTime(2025, 1, 15, 0, 30), "1.0"),
		window(ukTime(2025, 1, 15, 0, 30), ukTime(2025, 1, 15, 1, 0), "6.0"),
	}

	slots := cheapestSlots(windows, now, 10)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Time.Equal(ukTime(2025, 1, 15, 0, 30)))
	assert.True(t, slots[0].RateIncVAT.Equal(decimal.RequireFromString("6.0")))
}

func TestCheapestSlotsFewerThanRequested(t *testing.T) {
	now := ukTime(2025, 1, 15, 12, 0)
	windows := []RateWindow{
		window(ukTime(2025, 1, 15, 13, 0), ukTime(2025, 1, 15, 13, 30), "8.0"),
	}

	slots := cheapestSlots(windows, now, 10)
	assert.Len(t, slots, 1)
}

func TestGasStandingChargeAt(t *testing.T) {
	now := ukTime(2025, 1, 15, 12, 0)

	t.Run("covering window", func(t *testing.T) {
		// 29.6p/day from the API becomes £0.296/day.
		charge := gasStandingChargeAt([]RateWindow{
			openWindow(ukTime(2024, 1, 1, 0, 0), "29.6"),
		}, now)
		assert.True(t, charge.Equal(decimal.RequireFromString("0.296")))
	})

	t.Run("no coverage", func(t *testing.T) {
		charge := gasStandingChargeAt(nil, now)
		assert.True(t, charge.IsZero())
	})
}

func TestAnalyzeEndToEnd(t *testing.T) {
	config := &Config{
		StandingCharge: 0.30,
		HistoryDays:    30,
	}
	analyzer := NewAnalyzer(config, NewLogger(false))

	day := civilDate(toUKTime(time.Now())).AddDate(0, 0, -1)
	data := &CollectedData{
		Rates: []RateWindow{
			window(day, day.Add(30*time.Minute), "10.0"),
			window(day.Add(30*time.Minute), day.Add(time.Hour), "20.0"),
		},
		Consumption: []ConsumptionInterval{
			interval(day, "2.0"),
			interval(day.Add(30*time.Minute), "1.0"),
		},
		PeriodFrom: day,
		PeriodTo:   endOfDay(day),
		FetchedAt:  toUKTime(time.Now()),
	}

	result, err := analyzer.Analyze(data)
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assertDecimal(t, "0.50", result.Records[0].TotalCost)
	assertDecimal(t, "0.20", result.Records[1].TotalCost)

	assertDecimal(t, "3.0", result.Summary.TotalConsumptionKWh)
	assertDecimal(t, "0.70", result.Summary.TotalCost)
	assert.Equal(t, 1, result.Summary.Days)
	assert.Equal(t, 0, result.Summary.RateMissingCount)
	assert.Nil(t, result.GasSummary)
	require.Len(t, result.Daily, 1)
	assertDecimal(t, "0.70", result.Daily[0].TotalCost)
}
