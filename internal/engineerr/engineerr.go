// Package engineerr defines the merge engine's error taxonomy: the
// distinct failure kinds a caller needs to tell apart (fatal vs. warning,
// retryable vs. structural) rather than a flat pile of fmt.Errorf calls.
package engineerr

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	"github.com/pkg/errors"
)

// FixConvergenceError reports that a component did not stabilize after
// the fixpoint loop's iteration cap was reached.
type FixConvergenceError struct {
	Component string
	Iterations int
}

func (e *FixConvergenceError) Error() string {
	return fmt.Sprintf("component %s not valid after %d fix iterations", e.Component, e.Iterations)
}

// NewFixConvergenceError wraps a FixConvergenceError with a stack trace.
func NewFixConvergenceError(component string, iterations int) error {
	return errors.WithStack(&FixConvergenceError{Component: component, Iterations: iterations})
}

// LockedComponentError reports an attempted structural edit on a
// component that has already been locked (typically because it was
// already printed).
type LockedComponentError struct {
	Component string
	Operation string
}

func (e *LockedComponentError) Error() string {
	return fmt.Sprintf("cannot %s locked component %s", e.Operation, e.Component)
}

// NewLockedComponentError wraps a LockedComponentError with a stack trace.
func NewLockedComponentError(component, operation string) error {
	return errors.WithStack(&LockedComponentError{Component: component, Operation: operation})
}

// UnresolvableRenameError reports that merging two register names could
// not find a free substitute name after exhausting the x -> y -> z -> n
// search order. This promotes the original implementation's assertion
// failure to a typed, recoverable error instead of a panic.
type UnresolvableRenameError struct {
	Name1, Name2, LastTried string
}

func (e *UnresolvableRenameError) Error() string {
	return fmt.Sprintf("cannot reconcile register names %q and %q: no free substitute found (last tried %q)",
		e.Name1, e.Name2, e.LastTried)
}

// NewUnresolvableRenameError wraps an UnresolvableRenameError with a
// stack trace.
func NewUnresolvableRenameError(name1, name2, lastTried string) error {
	return errors.WithStack(&UnresolvableRenameError{Name1: name1, Name2: name2, LastTried: lastTried})
}

// ParseError reports a structural problem found while translating a
// PDSC/SVD/header DTO into the component tree: a malformed reference,
// an inconsistent bit range, or similar. ParseError is fatal to the
// component it concerns, but not to the whole run.
type ParseError struct {
	Source string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Source, e.Detail)
}

// NewParseError wraps a ParseError with a stack trace.
func NewParseError(source, detail string) error {
	return errors.WithStack(&ParseError{Source: source, Detail: detail})
}

// InputRetrievalError reports a failure to obtain PDSC/SVD/header input
// (a missing file, an unreachable pack, malformed XML at the document
// level). It is fatal: the engine cannot proceed without its input.
type InputRetrievalError struct {
	Path string
	Err  error
}

func (e *InputRetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve input %s: %v", e.Path, e.Err)
}

func (e *InputRetrievalError) Unwrap() error { return e.Err }

// NewInputRetrievalError wraps an InputRetrievalError with a stack trace.
func NewInputRetrievalError(path string, err error) error {
	return errors.WithStack(&InputRetrievalError{Path: path, Err: err})
}

// StructuralWarning reports a non-fatal inconsistency discovered during
// merge or CMSIS cross-check (e.g. a register whose array size or type
// differs from the vendor header's entry). Warnings accumulate during a run
// instead of aborting it.
type StructuralWarning struct {
	Component string
	Detail    string
}

func (w *StructuralWarning) Error() string {
	return fmt.Sprintf("%s: %s", w.Component, w.Detail)
}

// NewStructuralWarning builds a StructuralWarning value. It is returned
// as a plain error (not wrapped with errors.WithStack) because warnings
// are collected and reported, not propagated up a call stack.
func NewStructuralWarning(component, detail string) *StructuralWarning {
	return &StructuralWarning{Component: component, Detail: detail}
}
