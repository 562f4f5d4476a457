package workerpool

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunPreservesResultOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	results, err := Run(context.Background(), New(2), items, func(_ context.Context, item int) (int, error) {
		return item * item, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 4, 9, 16, 25}, results)
}

func TestRunBoundsConcurrency(t *testing.T) {
	var inFlight, maxInFlight int32
	items := make([]int, 20)

	_, err := Run(context.Background(), New(3), items, func(_ context.Context, _ int) (struct{}, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			old := atomic.LoadInt32(&maxInFlight)
			if n <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, n) {
				break
			}
		}
		return struct{}{}, nil
	})
	require.NoError(t, err)
	require.LessOrEqual(t, int(maxInFlight), 3)
}

func TestRunPropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	items := []int{1, 2, 3}

	_, err := Run(context.Background(), New(1), items, func(ctx context.Context, item int) (int, error) {
		if item == 2 {
			return 0, boom
		}
		return item, nil
	})
	require.ErrorIs(t, err, boom)
}
