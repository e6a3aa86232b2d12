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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *OctopusClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewOctopusClient("sk_live_test_key_0123456789", NewLogger(false))
	client.baseURL = server.URL
	return client
}

func TestFetchTariffRatesPagination(t *testing.T) {
	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/products/AGILE-24-10-01/electricity-tariffs/E-1R-AGILE-24-10-01-C/standard-unit-rates/",
		func(w http.ResponseWriter, r *http.Request) {
			user, _, ok := r.BasicAuth()
			require.True(t, ok, "requests must carry basic auth")
			assert.Equal(t, "sk_live_test_key_0123456789", user)
			assert.NotEmpty(t, r.URL.Query().Get("period_from"))

			fmt.Fprintf(w, `{
				"count": 3,
				"next": "%s/page2",
				"results": [
					{"valid_from": "2025-01-15T00:30:00Z", "valid_to": "2025-01-15T01:00:00Z", "value_exc_vat": 19.05, "value_inc_vat": 20.0}
				]
			}`, serverURL)
		})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"count": 3,
			"next": "",
			"results": [
				{"valid_from": "2025-01-15T00:00:00Z", "valid_to": "2025-01-15T00:30:00Z", "value_exc_vat": 9.52, "value_inc_vat": 10.0},
				{"valid_from": "2025-01-15T01:00:00Z", "valid_to": null, "value_exc_vat": 14.29, "value_inc_vat": 15.0}
			]
		}`)
	})

	client := testClient(t, mux)
	serverURL = client.baseURL

	windows, err := client.FetchTariffRates("AGILE-24-10-01", "E-1R-AGILE-24-10-01-C",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, windows, 3, "all pages must be fetched")

	// Merged across pages and sorted by valid_from.
	assert.True(t, windows[0].RateIncVAT.Equal(decimal.RequireFromString("10.0")))
	assert.True(t, windows[1].RateIncVAT.Equal(decimal.RequireFromString("20.0")))
	assert.True(t, windows[2].RateIncVAT.Equal(decimal.RequireFromString("15.0")))
	assert.Nil(t, windows[2].ValidTo, "null valid_to is an open-ended window")
}

func TestFetchRatesNormalizesToUKTime(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/AGILE-24-10-01/electricity-tariffs/E-1R-AGILE-24-10-01-C/standard-unit-rates/",
		func(w http.ResponseWriter, r *http.Request) {
			// A British Summer Time instant, served in UTC as the API does.
			fmt.Fprint(w, `{
				"count": 1,
				"next": "",
				"results": [
					{"valid_from": "2025-06-15T22:30:00Z", "valid_to": "2025-06-15T23:00:00Z", "value_exc_vat": 9.52, "value_inc_vat": 10.0}
				]
			}`)
		})

	client := testClient(t, mux)

	windows, err := client.FetchTariffRates("AGILE-24-10-01", "E-1R-AGILE-24-10-01-C",
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, windows, 1)

	// 22:30 UTC is 23:30 BST, same day in the UK.
	assert.Equal(t, 23, windows[0].ValidFrom.Hour())
	assert.Equal(t, 30, windows[0].ValidFrom.Minute())
	assert.Equal(t, 15, windows[0].ValidFrom.Day())
	assert.Equal(t, "Europe/London", windows[0].ValidFrom.Location().String())
}

func TestFetchConsumption(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/electricity-meter-points/1234567890123/meters/21E0000000/consumption/",
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "period", r.URL.Query().Get("order_by"))
			fmt.Fprint(w, `{
				"count": 2,
				"next": "",
				"results": [
					{"interval_start": "2025-01-15T00:00:00Z", "interval_end": "2025-01-15T00:30:00Z", "consumption": 2.0},
					{"interval_start": "2025-01-15T00:30:00Z", "interval_end": "2025-01-15T01:00:00Z", "consumption": 1.0}
				]
			}`)
		})

	client := testClient(t, mux)

	intervals, err := client.FetchConsumption("1234567890123", "21E0000000",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, intervals, 2)
	assert.True(t, intervals[0].ConsumptionKWh.Equal(decimal.RequireFromString("2.0")))
	assert.True(t, intervals[0].IntervalStart.Before(intervals[1].IntervalStart))
}

func TestFetchGasMeterPoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gas-meter-points/3001234567/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"mprn": "3001234567",
			"agreements": [
				{"tariff_code": "G-1R-VAR-22-11-01-C", "valid_from": "2023-01-01T00:00:00Z", "valid_to": "2024-07-01T00:00:00Z"},
				{"tariff_code": "G-1R-FLEX-24-04-02-C", "valid_from": "2024-07-01T00:00:00Z", "valid_to": null}
			]
		}`)
	})

	client := testClient(t, mux)

	point, err := client.FetchGasMeterPoint("3001234567")
	require.NoError(t, err)
	assert.Equal(t, "3001234567", point.MPRN)
	require.Len(t, point.Agreements, 2)
	assert.Nil(t, point.Agreements[1].ValidTo)
}

func TestClientErrorResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Invalid API key"}`, http.StatusUnauthorized)
	})

	client := testClient(t, mux)

	_, err := client.FetchGasMeterPoint("3001234567")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, apiErr.IsRetryable())
}

func TestSelectActiveAgreement(t *testing.T) {
	now := ukTime(2025, 1, 15, 12, 0)
	end := ukTime(2024, 7, 1, 0, 0)

	t.Run("covering agreement wins", func(t *testing.T) {
		agreements := []Agreement{
			{TariffCode: "G-1R-VAR-22-11-01-C", ValidFrom: ukTime(2023, 1, 1, 0, 0), ValidTo: &end},
			{TariffCode: "G-1R-FLEX-24-04-02-C", ValidFrom: end},
		}
		got := selectActiveAgreement(agreements, now)
		require.NotNil(t, got)
		assert.Equal(t, "G-1R-FLEX-24-04-02-C", got.TariffCode)
	})

	t.Run("fallback to latest when none covers", func(t *testing.T) {
		agreements := []Agreement{
			{TariffCode: "G-1R-VAR-22-11-01-C", ValidFrom: ukTime(2023, 1, 1, 0, 0), ValidTo: &end},
		}
		got := selectActiveAgreement(agreements, now)
		require.NotNil(t, got)
		assert.Equal(t, "G-1R-VAR-22-11-01-C", got.TariffCode)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, selectActiveAgreement(nil, now))
	})
}

func TestProductCodeFromTariffCode(t *testing.T) {
	tests := []struct {
		tariffCode string
		want       string
	}{
		{"E-1R-AGILE-24-10-01-C", "AGILE-24-10-01"},
		{"G-1R-VAR-22-11-01-N", "VAR-22-11-01"},
		{"E-2R-OE-FIX-12M-24-04-11-A", "OE-FIX-12M-24-04-11"},
		{"bogus", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.tariffCode, func(t *testing.T) {
			assert.Equal(t, tt.want, productCodeFromTariffCode(tt.tariffCode))
		})
	}
}
