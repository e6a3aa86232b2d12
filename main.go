// Copyright 2025 The Octopus-Agile Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Define command-line flags
	configPath := flag.String("config", "", "Path to configuration file")
	apiKey := flag.String("key", "", "Octopus Energy API Key (overrides config)")
	mpan := flag.String("mpan", "", "Electricity meter point MPAN (overrides config)")
	serial := flag.String("serial", "", "Electricity meter serial number (overrides config)")
	days := flag.Int("days", 0, "Days of history to analyze (overrides config)")
	standingCharge := flag.Float64("standing-charge", 0, "Standing charge in pounds per day (overrides config)")
	outputPath := flag.String("output", "", "Output file for report (default: stdout)")
	htmlOutput := flag.Bool("html", false, "Generate HTML report instead of Markdown")
	csvPath := flag.String("csv", "", "Also write per-interval costs to a CSV file")
	serve := flag.Bool("serve", false, "Serve the dashboard over HTTP instead of a one-shot report")
	listenAddr := flag.String("listen", "", "Address for the dashboard server (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	jsonLogs := flag.Bool("json-logs", false, "Emit logs as JSON (for log collectors)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("octopus-agile %s\n", GetVersion())
		os.Exit(0)
	}

	// Initialize logger
	logger := NewLogger(*debug)
	if *jsonLogs {
		logger = NewJSONLogger(*debug)
	}
	logger.Info("Starting octopus-agile", "version", GetVersion())

	// Check for updates (non-blocking)
	go CheckForUpdates(logger)

	// Load configuration
	config, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Override with command-line flags
	if *apiKey != "" {
		config.APIKey = *apiKey
	}
	if *mpan != "" {
		config.ElectricityMPAN = *mpan
	}
	if *serial != "" {
		config.ElectricitySerial = *serial
	}
	if *days > 0 {
		config.HistoryDays = *days
	}
	if *standingCharge > 0 {
		config.StandingCharge = *standingCharge
	}
	if *listenAddr != "" {
		config.ListenAddr = *listenAddr
	}
	if *debug {
		config.Debug = true
		logger = NewLogger(true)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize storage, scoped to the meter so multiple meters don't
	// share cache files
	logger.Info("Initializing storage", "path", config.StoragePath)
	storage, err := NewStorage(config.StoragePath, config.ElectricityMPAN, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	client := NewOctopusClient(config.APIKey, logger)
	collector := NewCollector(client, config, storage, logger)
	analyzer := NewAnalyzer(config, logger)

	if *serve {
		runServer(collector, analyzer, storage, config, logger)
		return
	}

	// One-shot mode: collect, analyze, report
	logger.Info("Collecting data from Octopus Energy API")
	data, err := collector.CollectAll()
	if err != nil {
		logger.Error("Failed to collect data", "error", err)
		os.Exit(1)
	}

	logger.Info("Performing analysis")
	result, err := analyzer.Analyze(data)
	if err != nil {
		logger.Error("Failed to perform analysis", "error", err)
		os.Exit(1)
	}

	if err := storage.SaveDashboard(result); err != nil {
		logger.Warn("Failed to save dashboard result", "error", err)
	}

	if *csvPath != "" {
		if err := WriteCostCSV(*csvPath, result.Records); err != nil {
			logger.Error("Failed to write CSV", "error", err)
			os.Exit(1)
		}
		dailyPath := dailyCSVPath(*csvPath)
		if err := WriteDailyCostCSV(dailyPath, result.Daily); err != nil {
			logger.Error("Failed to write daily CSV", "error", err)
			os.Exit(1)
		}
		logger.Info("CSV written", "path", *csvPath, "daily_path", dailyPath)
	}

	// Generate report (HTML or Markdown)
	if *htmlOutput {
		htmlReporter := NewHTMLReporter(logger)
		if err := htmlReporter.GenerateHTMLReport(result, *outputPath); err != nil {
			logger.Error("Failed to generate HTML report", "error", err)
			os.Exit(1)
		}
	} else {
		reporter := NewReporter(logger)
		if err := reporter.GenerateReport(result, *outputPath); err != nil {
			logger.Error("Failed to generate report", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Analysis completed successfully")
}

// runServer runs the dashboard HTTP server until interrupted.
func runServer(collector *Collector, analyzer *Analyzer, storage *Storage, config *Config, logger *Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := NewServer(collector, analyzer, storage, logger)
	if err := server.Run(ctx, config.ListenAddr); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
