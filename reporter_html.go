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

// HTMLReporter generates the HTML dashboard from analysis results
type HTMLReporter struct {
	logger *Logger
}

// NewHTMLReporter creates a new HTML report generator
func NewHTMLReporter(logger *Logger) *HTMLReporter {
	return &HTMLReporter{
		logger: logger,
	}
}

// GenerateHTMLReport generates the HTML dashboard
func (r *HTMLReporter) GenerateHTMLReport(result *DashboardResult, outputPath string) error {
	r.logger.Info("Generating HTML report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create HTML report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	return r.WriteHTML(writer, result)
}

// WriteHTML writes the full dashboard page to w. The web server uses this
// directly with the response writer.
func (r *HTMLReporter) WriteHTML(w io.Writer, result *DashboardResult) error {
	r.writeHTMLHeader(w, result)
	r.writeHTMLSummary(w, result)
	r.writeHTMLRateGaps(w, result)
	r.writeHTMLCharts(w, result)
	r.writeHTMLCheapestSlots(w, result)
	r.writeHTMLDailyBreakdown(w, result)
	r.writeHTMLGasSection(w, result)
	r.writeHTMLFooter(w)
	return nil
}

func (r *HTMLReporter) writeHTMLHeader(w io.Writer, result *DashboardResult) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Octopus Agile Dashboard</title>
    <style>
        :root {
            --primary-color: #FF006E;
            --secondary-color: #00C896;
            --warning-color: #FFB800;
            --bg-color: #0A0F1E;
            --card-bg: #1A2332;
            --text-color: #E8EAF6;
            --text-muted: #9FA8DA;
            --border-color: #2A3550;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: var(--bg-color);
            color: var(--text-color);
            line-height: 1.6;
            padding: 20px;
        }

        .container {
            max-width: 1240px;
            margin: 0 auto;
        }

        header {
            background: linear-gradient(135deg, var(--primary-color), var(--secondary-color));
            padding: 40px;
            border-radius: 16px;
            margin-bottom: 30px;
        }

        h1 {
            font-size: 2.5em;
            margin-bottom: 10px;
            font-weight: 700;
        }

        .subtitle {
            color: rgba(255, 255, 255, 0.9);
            font-size: 1.1em;
        }

        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 30px;
            margin-bottom: 30px;
            border: 1px solid var(--border-color);
        }

        h2 {
            color: var(--primary-color);
            margin-bottom: 20px;
            font-size: 1.8em;
            border-bottom: 2px solid var(--border-color);
            padding-bottom: 10px;
        }

        table {
            width: 100%%;
            border-collapse: collapse;
            margin: 20px 0;
        }

        th, td {
            padding: 12px;
            text-align: left;
            border-bottom: 1px solid var(--border-color);
        }

        th {
            background: rgba(255, 0, 110, 0.1);
            color: var(--primary-color);
            font-weight: 600;
        }

        tr:hover {
            background: rgba(0, 200, 150, 0.05);
        }

        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }

        .metric-card {
            background: rgba(255, 0, 110, 0.05);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 20px;
            text-align: center;
        }

        .metric-value {
            font-size: 2em;
            font-weight: bold;
            color: var(--secondary-color);
            margin: 10px 0;
        }

        .metric-label {
            color: var(--text-muted);
            font-size: 0.9em;
        }

        .warning-banner {
            background: rgba(255, 184, 0, 0.1);
            border-left: 4px solid var(--warning-color);
            padding: 20px;
            margin: 15px 0;
            border-radius: 4px;
        }

        .chart {
            width: 100%%;
            border-radius: 8px;
            margin: 15px 0;
        }

        footer {
            text-align: center;
            padding: 30px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
            margin-top: 40px;
        }

        @media (max-width: 768px) {
            body {
                padding: 10px;
            }

            header {
                padding: 20px;
            }

            h1 {
                font-size: 1.8em;
            }

            .card {
                padding: 20px;
            }

            table {
                font-size: 0.9em;
            }
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>⚡ Octopus Agile Dashboard</h1>
            <div class="subtitle">Generated: %s (%s)</div>
            <div class="subtitle">Period: %s to %s</div>
            <div class="subtitle" style="opacity: 0.7; font-size: 0.9em; margin-top: 10px;">octopus-agile %s</div>
        </header>
`,
		result.GeneratedAt.Format("Monday, 2 January 2006 at 15:04"),
		humanize.Time(result.GeneratedAt),
		result.PeriodFrom.Format("2 Jan 2006"),
		result.PeriodTo.Format("2 Jan 2006"),
		GetVersion(),
	)
}

func (r *HTMLReporter) writeHTMLSummary(w io.Writer, result *DashboardResult) {
	s := result.Summary

	var avgDaily decimal.Decimal
	if s.Days > 0 {
		avgDaily = s.TotalCost.Div(decimal.NewFromInt(int64(s.Days)))
	}

	fmt.Fprintf(w, `
        <div class="card">
            <h2>📊 Summary</h2>

            <div class="metric-grid">
                <div class="metric-card">
                    <div class="metric-label">Total Consumption</div>
                    <div class="metric-value">%s kWh</div>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Usage Cost</div>
                    <div class="metric-value">%s</div>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Standing Charges</div>
                    <div class="metric-value">%s</div>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Total Bill (%d days)</div>
                    <div class="metric-value">%s</div>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Average Daily Cost</div>
                    <div class="metric-value">%s</div>
                </div>
            </div>
        </div>
`,
		humanize.CommafWithDigits(s.TotalConsumptionKWh.InexactFloat64(), 2),
		FormatCurrency(s.TotalUsageCost),
		FormatCurrency(s.TotalStandingCharge),
		s.Days,
		FormatCurrency(s.TotalCost),
		FormatCurrency(avgDaily),
	)
}

func (r *HTMLReporter) writeHTMLRateGaps(w io.Writer, result *DashboardResult) {
	if result.Summary.RateMissingCount == 0 {
		return
	}

	fmt.Fprintf(w, `
        <div class="card">
            <div class="warning-banner">
                ⚠️ <strong>Missing rate data:</strong> %d intervals had no published tariff rate.
                Their usage cost is shown as zero, so the totals above understate the true bill.
            </div>
        </div>
`,
		result.Summary.RateMissingCount,
	)
}

func (r *HTMLReporter) writeHTMLCharts(w io.Writer, result *DashboardResult) {
	writeChart := func(title, b64 string) {
		if b64 == "" {
			return
		}
		fmt.Fprintf(w, `
        <div class="card">
            <h2>%s</h2>
            <img class="chart" src="data:image/png;base64,%s" alt="%s">
        </div>
`,
			title, b64, title,
		)
	}

	writeChart("📈 Agile Unit Rates", result.RatesChart)
	writeChart("📉 Daily Usage and Cost", result.UsageCostChart)
	writeChart("🧾 Daily Cost Breakdown", result.BreakdownChart)
}

func (r *HTMLReporter) writeHTMLCheapestSlots(w io.Writer, result *DashboardResult) {
	if len(result.CheapestSlots) == 0 {
		return
	}

	fmt.Fprintf(w, `
        <div class="card">
            <h2>🔋 Cheapest Slots Today</h2>
            <table>
                <thead>
                    <tr>
                        <th>Slot</th>
                        <th>Rate</th>
                    </tr>
                </thead>
                <tbody>
`)

	for _, slot := range result.CheapestSlots {
		fmt.Fprintf(w, `
                    <tr>
                        <td>%s</td>
                        <td>%sp/kWh</td>
                    </tr>
`,
			slot.Time.Format("Mon 15:04"),
			slot.RateIncVAT.StringFixed(2),
		)
	}

	fmt.Fprintf(w, `
                </tbody>
            </table>
        </div>
`)
}

func (r *HTMLReporter) writeHTMLDailyBreakdown(w io.Writer, result *DashboardResult) {
	if len(result.Daily) == 0 {
		return
	}

	fmt.Fprintf(w, `
        <div class="card">
            <h2>📅 Daily Breakdown</h2>
            <table>
                <thead>
                    <tr>
                        <th>Date</th>
                        <th>Usage</th>
                        <th>Usage Cost</th>
                        <th>Standing</th>
                        <th>Total</th>
                    </tr>
                </thead>
                <tbody>
`)

	for _, day := range result.Daily {
		fmt.Fprintf(w, `
                    <tr>
                        <td>%s</td>
                        <td>%s kWh</td>
                        <td>%s</td>
                        <td>%s</td>
                        <td>%s</td>
                    </tr>
`,
			day.Date.Format("2006-01-02"),
			day.ConsumptionKWh.StringFixed(2),
			FormatCurrency(day.UsageCost),
			FormatCurrency(day.StandingCharge),
			FormatCurrency(day.TotalCost),
		)
	}

	fmt.Fprintf(w, `
                </tbody>
            </table>
        </div>
`)
}

func (r *HTMLReporter) writeHTMLGasSection(w io.Writer, result *DashboardResult) {
	if result.GasSummary == nil {
		return
	}

	s := result.GasSummary
	fmt.Fprintf(w, `
        <div class="card">
            <h2>🔥 Gas</h2>

            <div class="metric-grid">
                <div class="metric-card">
                    <div class="metric-label">Total Consumption</div>
                    <div class="metric-value">%s kWh</div>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Usage Cost</div>
                    <div class="metric-value">%s</div>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Standing Charges</div>
                    <div class="metric-value">%s</div>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Total</div>
                    <div class="metric-value">%s</div>
                </div>
            </div>
        </div>
`,
		humanize.CommafWithDigits(s.TotalConsumptionKWh.InexactFloat64(), 2),
		FormatCurrency(s.TotalUsageCost),
		FormatCurrency(s.TotalStandingCharge),
		FormatCurrency(s.TotalCost),
	)
}

func (r *HTMLReporter) writeHTMLFooter(w io.Writer) {
	fmt.Fprintf(w, `
        <footer>
            <p><em>Costs are computed from half-hourly smart meter readings and published Agile rates. Readings can lag by up to a day, so recent totals may rise as data arrives.</em></p>
            <hr style="margin: 20px 0; border: none; border-top: 1px solid var(--border-color); opacity: 0.3;">
            <p style="opacity: 0.7; font-size: 0.9em;">This is an unofficial third-party application. "Octopus Energy" is a trademark of Octopus Energy Group Limited. This application is not affiliated with, endorsed by, or connected to Octopus Energy.</p>
        </footer>
    </div>
</body>
</html>
`)
}
