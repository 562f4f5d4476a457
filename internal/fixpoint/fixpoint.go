// Package fixpoint drives the corrector tree to a stable point over a
// component subtree: correctors are re-applied until nothing in the
// subtree is left edited, or a configurable iteration cap is hit.
package fixpoint

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"periphgen/internal/component"
	"periphgen/internal/corrector"
	"periphgen/internal/engineerr"
)

// DefaultMaxIterations is the convergence cap used when none is supplied:
// a component tree that hasn't settled after 100 corrector passes is
// treated as pathological (a corrector re-triggering itself, or a family
// of correctors fighting over the same rename) rather than merely slow.
const DefaultMaxIterations = 100

// Apply runs the fixpoint loop over n against root using
// DefaultMaxIterations.
func Apply(n component.Node, root *corrector.Corrector) error {
	return ApplyWithCap(n, root, DefaultMaxIterations)
}

// ApplyWithCap runs the fixpoint loop over n against root: each
// iteration validates the subtree, looks up the sub-correctors root
// offers for n's current name, applies each of them in turn, recurses
// into n's children under that specific sub-corrector, then reconciles
// n's own children via component.MergeChildren so two children a
// corrector pass left Equal (but distinct) get absorbed into one before
// convergence is checked. The loop repeats until an iteration leaves n
// unedited, or maxIterations is exhausted, in which case it returns an
// engineerr.FixConvergenceError naming n.
func ApplyWithCap(n component.Node, root *corrector.Corrector, maxIterations int) error {
	for i := 0; i < maxIterations; i++ {
		component.Validate(n)

		for _, sub := range root.SubCorrectors(n) {
			if err := sub.Apply(n); err != nil {
				return err
			}
			for _, child := range n.Core().Children() {
				if err := ApplyWithCap(child, sub, maxIterations); err != nil {
					return err
				}
			}
		}

		if err := component.MergeChildren(n); err != nil {
			return err
		}

		if !n.Core().Edited() {
			return nil
		}
	}
	return engineerr.NewFixConvergenceError(component.String(n), maxIterations)
}
