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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OctopusClient talks to the Octopus Energy REST API. It owns the only
// place timestamps get parsed and normalized to UK civil time; everything
// it returns is already in that zone and sorted chronologically.
type OctopusClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *Logger
}

// NewOctopusClient creates a REST API client
func NewOctopusClient(apiKey string, logger *Logger) *OctopusClient {
	return &OctopusClient{
		apiKey:  apiKey,
		baseURL: OctopusRESTAPIBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.WithComponent("client"),
	}
}

// get performs an authenticated GET and decodes the JSON body into target.
func (c *OctopusClient) get(rawURL string, target interface{}) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.apiKey != "" {
		req.SetBasicAuth(c.apiKey, "")
	}
	req.Header.Set("User-Agent", GetUserAgent())

	c.logger.LogAPIRequest(http.MethodGet, rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{
			Endpoint: rawURL,
			Message:  "request failed",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.logger.LogAPIError(rawURL, resp.StatusCode, fmt.Errorf("%s", string(bodyBytes)))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   rawURL,
			Message:    string(bodyBytes),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// periodQuery formats the period_from/period_to query parameters. The API
// wants UTC instants; normalization back to UK time happens on the way in.
func periodQuery(from, to time.Time) url.Values {
	q := url.Values{}
	q.Set("period_from", from.UTC().Format("2006-01-02T15:04:05Z"))
	q.Set("period_to", to.UTC().Format("2006-01-02T15:04:05Z"))
	return q
}

// fetchRatePages walks a paginated rates endpoint, following next links
// until exhausted, and returns the windows normalized and sorted.
func (c *OctopusClient) fetchRatePages(firstURL string) ([]RateWindow, error) {
	var windows []RateWindow

	next := firstURL
	for next != "" {
		var page RatesResponse
		if err := c.get(next, &page); err != nil {
			return nil, err
		}

		for _, r := range page.Results {
			validFrom, err := time.Parse(time.RFC3339, r.ValidFrom)
			if err != nil {
				return nil, &DataError{
					DataType: "tariff_rates",
					Message:  fmt.Sprintf("unparseable valid_from %q", r.ValidFrom),
				}
			}

			var validTo *time.Time
			if r.ValidTo != nil {
				t, err := time.Parse(time.RFC3339, *r.ValidTo)
				if err != nil {
					return nil, &DataError{
						DataType: "tariff_rates",
						Message:  fmt.Sprintf("unparseable valid_to %q", *r.ValidTo),
					}
				}
				t = toUKTime(t)
				validTo = &t
			}

			windows = append(windows, RateWindow{
				ValidFrom:  toUKTime(validFrom),
				ValidTo:    validTo,
				RateIncVAT: decimal.NewFromFloat(r.ValueIncVAT),
			})
		}

		next = page.Next
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].ValidFrom.Before(windows[j].ValidFrom)
	})

	return windows, nil
}

// FetchTariffRates fetches the half-hourly unit rates for an electricity
// tariff over a period.
func (c *OctopusClient) FetchTariffRates(productCode, tariffCode string, from, to time.Time) ([]RateWindow, error) {
	q := periodQuery(from, to)
	q.Set("page_size", fmt.Sprint(ratesPageSize))

	rawURL := fmt.Sprintf("%s/products/%s/electricity-tariffs/%s/standard-unit-rates/?%s",
		c.baseURL, productCode, tariffCode, q.Encode())

	windows, err := c.fetchRatePages(rawURL)
	if err != nil {
		return nil, err
	}

	c.logger.LogDataCollection("electricity_rates", len(windows))
	return windows, nil
}

// FetchGasTariffRates fetches unit rates for a gas tariff over a period.
func (c *OctopusClient) FetchGasTariffRates(productCode, tariffCode string, from, to time.Time) ([]RateWindow, error) {
	q := periodQuery(from, to)
	q.Set("page_size", fmt.Sprint(ratesPageSize))

	rawURL := fmt.Sprintf("%s/products/%s/gas-tariffs/%s/standard-unit-rates/?%s",
		c.baseURL, productCode, tariffCode, q.Encode())

	windows, err := c.fetchRatePages(rawURL)
	if err != nil {
		return nil, err
	}

	c.logger.LogDataCollection("gas_rates", len(windows))
	return windows, nil
}

// FetchGasStandingCharges fetches the daily standing charge windows for a
// gas tariff over a period. Values are pence per day.
func (c *OctopusClient) FetchGasStandingCharges(productCode, tariffCode string, from, to time.Time) ([]RateWindow, error) {
	q := periodQuery(from, to)
	q.Set("page_size", fmt.Sprint(ratesPageSize))

	rawURL := fmt.Sprintf("%s/products/%s/gas-tariffs/%s/standing-charges/?%s",
		c.baseURL, productCode, tariffCode, q.Encode())

	windows, err := c.fetchRatePages(rawURL)
	if err != nil {
		return nil, err
	}

	c.logger.LogDataCollection("gas_standing_charges", len(windows))
	return windows, nil
}

// fetchConsumptionPages walks a paginated consumption endpoint, following
// next links, and returns the intervals normalized and sorted.
func (c *OctopusClient) fetchConsumptionPages(firstURL string) ([]ConsumptionInterval, error) {
	var intervals []ConsumptionInterval

	next := firstURL
	for next != "" {
		var page ConsumptionResponse
		if err := c.get(next, &page); err != nil {
			return nil, err
		}

		for _, r := range page.Results {
			start, err := time.Parse(time.RFC3339, r.IntervalStart)
			if err != nil {
				return nil, &DataError{
					DataType: "consumption",
					Message:  fmt.Sprintf("unparseable interval_start %q", r.IntervalStart),
				}
			}
			end, err := time.Parse(time.RFC3339, r.IntervalEnd)
			if err != nil {
				return nil, &DataError{
					DataType: "consumption",
					Message:  fmt.Sprintf("unparseable interval_end %q", r.IntervalEnd),
				}
			}

			intervals = append(intervals, ConsumptionInterval{
				IntervalStart:  toUKTime(start),
				IntervalEnd:    toUKTime(end),
				ConsumptionKWh: decimal.NewFromFloat(r.Consumption),
			})
		}

		next = page.Next
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].IntervalStart.Before(intervals[j].IntervalStart)
	})

	return intervals, nil
}

// FetchConsumption fetches half-hourly electricity consumption for a meter.
func (c *OctopusClient) FetchConsumption(mpan, serialNumber string, from, to time.Time) ([]ConsumptionInterval, error) {
	q := periodQuery(from, to)
	q.Set("page_size", fmt.Sprint(consumptionPageSize))
	q.Set("order_by", "period")

	rawURL := fmt.Sprintf("%s/electricity-meter-points/%s/meters/%s/consumption/?%s",
		c.baseURL, mpan, serialNumber, q.Encode())

	intervals, err := c.fetchConsumptionPages(rawURL)
	if err != nil {
		return nil, err
	}

	c.logger.WithMeter(mpan).LogDataCollection("electricity_consumption", len(intervals))
	return intervals, nil
}

// FetchGasConsumption fetches half-hourly gas consumption for a meter.
func (c *OctopusClient) FetchGasConsumption(mprn, serialNumber string, from, to time.Time) ([]ConsumptionInterval, error) {
	q := periodQuery(from, to)
	q.Set("page_size", fmt.Sprint(consumptionPageSize))
	q.Set("order_by", "period")

	rawURL := fmt.Sprintf("%s/gas-meter-points/%s/meters/%s/consumption/?%s",
		c.baseURL, mprn, serialNumber, q.Encode())

	intervals, err := c.fetchConsumptionPages(rawURL)
	if err != nil {
		return nil, err
	}

	c.logger.WithMeter(mprn).LogDataCollection("gas_consumption", len(intervals))
	return intervals, nil
}

// FetchGasMeterPoint fetches the agreements registered against an MPRN.
func (c *OctopusClient) FetchGasMeterPoint(mprn string) (*GasMeterPoint, error) {
	rawURL := fmt.Sprintf("%s/gas-meter-points/%s/", c.baseURL, mprn)

	var resp MeterPointResponse
	if err := c.get(rawURL, &resp); err != nil {
		return nil, err
	}

	point := &GasMeterPoint{MPRN: resp.MPRN}
	for _, a := range resp.Agreements {
		validFrom, err := time.Parse(time.RFC3339, a.ValidFrom)
		if err != nil {
			return nil, &DataError{
				DataType: "gas_meter_point",
				Message:  fmt.Sprintf("unparseable valid_from %q", a.ValidFrom),
			}
		}

		var validTo *time.Time
		if a.ValidTo != nil {
			t, err := time.Parse(time.RFC3339, *a.ValidTo)
			if err != nil {
				return nil, &DataError{
					DataType: "gas_meter_point",
					Message:  fmt.Sprintf("unparseable valid_to %q", *a.ValidTo),
				}
			}
			t = toUKTime(t)
			validTo = &t
		}

		point.Agreements = append(point.Agreements, Agreement{
			TariffCode: a.TariffCode,
			ValidFrom:  toUKTime(validFrom),
			ValidTo:    validTo,
		})
	}

	return point, nil
}

// selectActiveAgreement picks the agreement covering t
// (valid_from <= t < valid_to), falling back to the most recent agreement
// when none covers it.
func selectActiveAgreement(agreements []Agreement, t time.Time) *Agreement {
	if len(agreements) == 0 {
		return nil
	}

	for i := range agreements {
		a := &agreements[i]
		if !t.Before(a.ValidFrom) && (a.ValidTo == nil || t.Before(*a.ValidTo)) {
			return a
		}
	}

	latest := &agreements[0]
	for i := range agreements {
		if agreements[i].ValidFrom.After(latest.ValidFrom) {
			latest = &agreements[i]
		}
	}
	return latest
}

// productCodeFromTariffCode derives a product code from a tariff code by
// dropping the fuel prefix and the trailing region code, e.g.
// E-1R-AGILE-24-10-01-C -> AGILE-24-10-01.
func productCodeFromTariffCode(tariffCode string) string {
	parts := strings.Split(tariffCode, "-")
	if len(parts) < 4 {
		return ""
	}
	return strings.Join(parts[2:len(parts)-1], "-")
}
