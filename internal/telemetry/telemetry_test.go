package telemetry

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestComponentsMergedCounts(t *testing.T) {
	m := New()
	m.ComponentsMerged.WithLabelValues("peripheral").Inc()
	m.ComponentsMerged.WithLabelValues("peripheral").Inc()
	m.ComponentsMerged.WithLabelValues("register").Inc()

	require.Equal(t, float64(2), testutil.ToFloat64(m.ComponentsMerged.WithLabelValues("peripheral")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ComponentsMerged.WithLabelValues("register")))
}

func TestObservePhaseRecordsDurationAndPropagatesError(t *testing.T) {
	m := New()
	boom := errors.New("boom")

	err := m.ObservePhase("merge", func() error {
		time.Sleep(time.Millisecond)
		return boom
	})
	require.ErrorIs(t, err, boom)

	count := testutil.CollectAndCount(m.PhaseDuration)
	require.Equal(t, 1, count)
}

func TestServeShutsDownOnContextCancel(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx, "127.0.0.1:0") }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}
