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
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server serves the dashboard over HTTP. Each page load runs a fresh
// collect and analyze cycle; the TTL cache keeps repeat loads from
// hammering the Octopus API.
type Server struct {
	collector *Collector
	analyzer  *Analyzer
	reporter  *HTMLReporter
	storage   *Storage
	logger    *Logger
}

// NewServer creates a new dashboard server
func NewServer(collector *Collector, analyzer *Analyzer, storage *Storage, logger *Logger) *Server {
	return &Server{
		collector: collector,
		analyzer:  analyzer,
		reporter:  NewHTMLReporter(logger),
		storage:   storage,
		logger:    logger.WithComponent("server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/healthz", s.handleHealth)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		// Collection can take a while on a cold cache.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Dashboard server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	start := time.Now()

	var result *DashboardResult
	data, err := s.collector.CollectAll()
	if err != nil {
		// Serve the last stored snapshot rather than a blank page when
		// the API is unreachable.
		s.logger.Error("Data collection failed", "error", err)
		result, err = s.storage.LoadLatestDashboard()
		if err != nil || result == nil {
			http.Error(w, "failed to fetch data from the Octopus API", http.StatusBadGateway)
			return
		}
		s.logger.Warn("Serving stale dashboard snapshot", "generated_at", result.GeneratedAt)
	} else {
		result, err = s.analyzer.Analyze(data)
		if err != nil {
			s.logger.Error("Analysis failed", "error", err)
			http.Error(w, "failed to analyze consumption data", http.StatusInternalServerError)
			return
		}
		if err := s.storage.SaveDashboard(result); err != nil {
			s.logger.Warn("Failed to persist dashboard result", "error", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.reporter.WriteHTML(w, result); err != nil {
		s.logger.Error("Failed to write dashboard", "error", err)
		return
	}

	s.logger.Info("Dashboard served",
		"duration", time.Since(start).Round(time.Millisecond).String(),
		"records", len(result.Records),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","version":%q}`, GetVersion())
}
