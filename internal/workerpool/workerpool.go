// Package workerpool fans independent per-SVD parses and per-pack
// downloads out across a bounded set of goroutines, publishing each
// result back to the caller's single-threaded merge loop once every
// task completes (or the first one fails). No mutable state is shared
// between tasks; each one only returns its own draft tree or error.
package workerpool

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool bounds how many tasks run concurrently.
type Pool struct {
	maxConcurrency int
}

// New builds a Pool. maxConcurrency <= 0 means unbounded, mirroring
// errgroup.Group's own SetLimit convention.
func New(maxConcurrency int) *Pool {
	return &Pool{maxConcurrency: maxConcurrency}
}

// Run applies fn to every item concurrently, bounded by the pool's
// maxConcurrency, and returns results in the same order as items. The
// first error any task returns cancels the shared context and is
// returned to the caller; results is nil in that case since the draft
// trees of an aborted run are not meant to be consumed.
func Run[T, R any](ctx context.Context, p *Pool, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	group, groupCtx := errgroup.WithContext(ctx)
	if p.maxConcurrency > 0 {
		group.SetLimit(p.maxConcurrency)
	}

	for i, item := range items {
		i, item := i, item
		group.Go(func() error {
			result, err := fn(groupCtx, item)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
