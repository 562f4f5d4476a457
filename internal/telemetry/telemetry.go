// Package telemetry exposes Prometheus counters/gauges for the merge
// engine's run-time behaviour (components merged, warnings emitted,
// fixpoint iterations, phase durations) and an optional HTTP /metrics
// endpoint a long-running or CI-driven invocation can scrape.
package telemetry

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "periphgen_"

// Metrics holds the engine's Prometheus collectors. The zero value is not
// usable; construct with New.
type Metrics struct {
	ComponentsMerged *prometheus.CounterVec
	Warnings         *prometheus.CounterVec
	FixpointRetries  prometheus.Histogram
	PhaseDuration    *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New builds a Metrics bound to a fresh, private registry: tests and
// concurrent merge runs in the same process never collide over global
// Prometheus state.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		ComponentsMerged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "components_merged_total",
			Help: "Number of components folded by Absorb, by component kind.",
		}, []string{"kind"}),
		Warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "structural_warnings_total",
			Help: "Number of structural warnings emitted, by warning kind.",
		}, []string{"kind"}),
		FixpointRetries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "fixpoint_iterations",
			Help:    "Number of fixpoint iterations needed to reach convergence per component.",
			Buckets: prometheus.LinearBuckets(1, 5, 20),
		}),
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: metricPrefix + "phase_duration_seconds",
			Help: "Wall-clock duration of each top-level engine phase.",
		}, []string{"phase"}),
		registry: registry,
	}

	registry.MustRegister(m.ComponentsMerged, m.Warnings, m.FixpointRetries, m.PhaseDuration)
	return m
}

// ObservePhase times fn and records its duration under the named phase
// (e.g. "pdsc_ingest", "svd_parse", "merge", "cmsis_check", "print").
func (m *Metrics) ObservePhase(phase string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.PhaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	return err
}

// Serve starts an HTTP server exposing /metrics at addr, returning once
// ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting metrics server", slog.String("address", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
