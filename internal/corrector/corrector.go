// Package corrector implements the glob-pattern-indexed rewrite tree
// that normalizes component names and shapes during the fixpoint merge
// loop: a Corrector is either a rewrite function, a mapping from
// shell-glob name patterns to sub-correctors, or both.
package corrector

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"sort"

	"github.com/gobwas/glob"

	"github.com/casbin/govaluate"

	"periphgen/internal/component"
)

// Fn is a rewrite action applied to one component.
type Fn func(component.Node) error

// Corrector is a node in the pattern-dispatch tree. Matching a
// component against a Corrector yields the sub-correctors whose
// pattern matches the component's name (the empty string for an
// unnamed component).
type Corrector struct {
	fn       Fn
	children map[string]*Corrector
	compiled map[string]glob.Glob

	// condition, if non-empty, is a govaluate boolean expression
	// evaluated against the component's exposed variables (name,
	// brief, size, locked) before fn runs; a condition that evaluates
	// false suppresses fn without touching child_correctors. This is
	// an additive capability beyond plain glob dispatch, used for
	// correctors that should only fire on components of a given name,
	// brief, size or lock state; no chip variable is exposed to it.
	condition string
}

// New builds a leaf or branch Corrector. Either argument may be nil.
func New(fn Fn, children map[string]*Corrector) *Corrector {
	return &Corrector{fn: fn, children: children}
}

// WithCondition attaches a govaluate boolean expression gating fn.
func (c *Corrector) WithCondition(expr string) *Corrector {
	c.condition = expr
	return c
}

// SubCorrectors returns the sub-correctors whose pattern matches n's
// name, in the fixed iteration order of pattern compilation (sorted by
// pattern string, so behaviour does not depend on Go's randomized map
// iteration).
func (c *Corrector) SubCorrectors(n component.Node) []*Corrector {
	if c.children == nil {
		return nil
	}
	name := n.Core().Name()
	return c.subCorrectorsForName(name)
}

func (c *Corrector) subCorrectorsForName(name string) []*Corrector {
	if c.children == nil {
		return nil
	}
	c.ensureCompiled()

	patterns := make([]string, 0, len(c.children))
	for pattern := range c.children {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	var out []*Corrector
	for _, pattern := range patterns {
		if c.compiled[pattern].Match(name) {
			out = append(out, c.children[pattern])
		}
	}
	return out
}

func (c *Corrector) ensureCompiled() {
	if c.compiled != nil {
		return
	}
	c.compiled = make(map[string]glob.Glob, len(c.children))
	for pattern := range c.children {
		g, err := glob.Compile(pattern)
		if err != nil {
			// An invalid pattern can only come from a programming
			// error in a hand-authored corrector tree, not from
			// input data, so it is fine to degrade to "never matches"
			// rather than propagate a build-time panic into a merge
			// run.
			g = glob.MustCompile("\x00unreachable\x00")
		}
		c.compiled[pattern] = g
	}
}

// Matches reports whether name matches any of this Corrector's
// patterns.
func (c *Corrector) Matches(name string) bool {
	return len(c.subCorrectorsForName(name)) > 0
}

// Apply runs this Corrector's rewrite function against n, if both a
// function and (when set) a satisfied condition are present.
func (c *Corrector) Apply(n component.Node) error {
	if c.fn == nil {
		return nil
	}
	if c.condition != "" {
		ok, err := evalCondition(c.condition, n)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return c.fn(n)
}

func evalCondition(expr string, n component.Node) (bool, error) {
	evaluable, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return false, err
	}
	params := map[string]interface{}{
		"name":   n.Core().Name(),
		"brief":  n.Core().Brief(),
		"size":   n.Size(),
		"locked": n.Core().Locked(),
	}
	result, err := evaluable.Evaluate(params)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, nil
	}
	return b, nil
}
