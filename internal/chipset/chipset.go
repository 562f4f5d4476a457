// Package chipset implements the chip-set algebra used to decide which
// #ifdef guard a merged component needs: union/intersection/difference
// of chip variants, family collapsing, and the guard-expression printer.
package chipset

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"periphgen/internal/chip"
)

// Set is a mutable collection of chips, backed by a thread-unsafe
// golang-set: the merge engine is single-threaded by design, so the
// extra locking a thread-safe set would pay for is wasted work.
type Set struct {
	chips mapset.Set[chip.Chip]

	familiesValid bool
	families      map[string]mapset.Set[chip.Chip]

	hashValid bool
	hash      string
}

// New builds a Set from zero or more chips.
func New(chips ...chip.Chip) *Set {
	s := &Set{chips: mapset.NewThreadUnsafeSet[chip.Chip]()}
	s.Add(chips...)
	return s
}

// FromSlice builds a Set from a slice of chips.
func FromSlice(chips []chip.Chip) *Set {
	return New(chips...)
}

func (s *Set) invalidate() {
	s.familiesValid = false
	s.hashValid = false
}

// Add inserts chips into the set.
func (s *Set) Add(chips ...chip.Chip) {
	if len(chips) == 0 {
		return
	}
	for _, c := range chips {
		s.chips.Add(c)
	}
	s.invalidate()
}

// Remove deletes chips from the set, if present.
func (s *Set) Remove(chips ...chip.Chip) {
	for _, c := range chips {
		s.chips.Remove(c)
	}
	s.invalidate()
}

// Len returns the number of chips in the set.
func (s *Set) Len() int {
	return s.chips.Cardinality()
}

// Empty reports whether the set has no chips.
func (s *Set) Empty() bool {
	return s.chips.Cardinality() == 0
}

// Contains reports whether the chip is a member of the set.
func (s *Set) Contains(c chip.Chip) bool {
	return s.chips.Contains(c)
}

// Chips returns the set's chips sorted by computed name, for deterministic
// iteration (printing, tests).
func (s *Set) Chips() []chip.Chip {
	out := s.chips.ToSlice()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Union returns a new set containing chips in either s or other.
func (s *Set) Union(other *Set) *Set {
	return &Set{chips: s.chips.Union(other.chips)}
}

// Intersection returns a new set containing chips in both s and other.
func (s *Set) Intersection(other *Set) *Set {
	return &Set{chips: s.chips.Intersect(other.chips)}
}

// Difference returns a new set containing chips in s but not in other.
func (s *Set) Difference(other *Set) *Set {
	return &Set{chips: s.chips.Difference(other.chips)}
}

// IsSubsetOf reports whether every chip in s is also in other.
func (s *Set) IsSubsetOf(other *Set) bool {
	return s.chips.IsSubset(other.chips)
}

// IsSupersetOf reports whether s contains every chip in other.
func (s *Set) IsSupersetOf(other *Set) bool {
	return s.chips.IsSuperset(other.chips)
}

// Equal reports whether s and other contain exactly the same chips.
func (s *Set) Equal(other *Set) bool {
	if other == nil {
		return s.Empty()
	}
	return s.chips.Equal(other.chips)
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	return &Set{chips: s.chips.Clone()}
}

// Hash returns a stable string identity for the set, derived from the
// sorted chip names. Two equal sets always produce the same hash.
func (s *Set) Hash() string {
	if !s.hashValid {
		names := make([]string, 0, s.chips.Cardinality())
		for _, c := range s.Chips() {
			names = append(names, c.Name())
		}
		s.hash = strings.Join(names, "\x00")
		s.hashValid = true
	}
	return s.hash
}

// Families returns a lazily computed index from family prefix to the set
// of chips in that family within s. The index is invalidated on mutation
// and rebuilt on next access.
func (s *Set) Families() map[string]mapset.Set[chip.Chip] {
	if !s.familiesValid {
		s.updateFamilies()
	}
	return s.families
}

func (s *Set) updateFamilies() {
	s.families = make(map[string]mapset.Set[chip.Chip])
	s.chips.Each(func(c chip.Chip) bool {
		family := c.Family()
		fs, ok := s.families[family]
		if !ok {
			fs = mapset.NewThreadUnsafeSet[chip.Chip]()
			s.families[family] = fs
		}
		fs.Add(c)
		return false
	})
	s.familiesValid = true
}

// Match reports whether any chip's computed name matches the given glob
// pattern (used by the corrector DSL to target chips directly).
func (s *Set) Match(pattern string, matches func(name, pattern string) bool) bool {
	for _, c := range s.Chips() {
		if matches(c.Name(), pattern) {
			return true
		}
	}
	return false
}

// DefinedList renders the C preprocessor guard expression selecting
// exactly the chips in s, relative to reference (the full chip universe
// a component's guard is evaluated against).
//
// Families of reference fully covered by s collapse into a single
// defined(FAMILY) clause instead of one clause per chip; remaining chips
// each get their own defined(CHIP) clause. Clauses are joined with
// " || " and wrapped onto a new line, prefixed with newlinePrefix, every
// chipsPerLine clauses.
//
// If s contains every chip in reference, DefinedList returns "1": the
// component is unconditionally present and needs no guard at all.
func (s *Set) DefinedList(chipsPerLine int, reference *Set, newlinePrefix string) string {
	if reference == nil || reference.Empty() {
		return "1"
	}
	if s.IsSupersetOf(reference) {
		return "1"
	}

	matchedFamily := make(map[string]bool)
	for family, chips := range reference.Families() {
		if chips.Difference(s.chips).Cardinality() == 0 {
			matchedFamily[family] = true
		}
	}

	families := make([]string, 0, len(matchedFamily))
	for family := range matchedFamily {
		families = append(families, family)
	}
	sort.Strings(families)

	var tokens []string
	for _, family := range families {
		tokens = append(tokens, fmt.Sprintf("defined(%-13s)", family))
	}
	for _, c := range s.Chips() {
		if matchedFamily[c.Family()] {
			continue
		}
		tokens = append(tokens, fmt.Sprintf("defined(%-13s)", c.Name()))
	}

	if len(tokens) == 0 {
		return "1"
	}

	var b strings.Builder
	lineSize := 0
	for i, tok := range tokens {
		if i > 0 {
			b.WriteString(" || ")
		}
		if lineSize == chipsPerLine {
			b.WriteString("\\\n")
			b.WriteString(newlinePrefix)
			lineSize = 0
		}
		b.WriteString(tok)
		lineSize++
	}
	return b.String()
}

// Registry holds the reference chip set that DefinedList guard
// expressions are evaluated against. The original implementation kept
// this as a package-level singleton populated as a side effect of
// ChipSet construction; here it is an explicit value threaded through
// parsing and merge instead, so two merges running in the same process
// (e.g. two families processed back to back) never share mutable global
// state.
type Registry struct {
	reference *Set
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{reference: New()}
}

// Observe folds chips into the registry's reference universe. Ingest
// code calls this as each chip is discovered from PDSC/SVD input so the
// reference set always reflects every chip seen so far.
func (r *Registry) Observe(chips ...chip.Chip) {
	r.reference.Add(chips...)
}

// Reference returns the registry's current reference chip set.
func (r *Registry) Reference() *Set {
	return r.reference
}
