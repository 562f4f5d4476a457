// Package component defines the shared capability surface for the
// heterogeneous merge tree: chipset propagation, edit tracking, name
// aliasing, and absorb-merge. Field, Register, MappingElement,
// PeripheralMapping, PeripheralInstance, Peripheral and Group each embed
// Base and implement the Node interface; Go has no virtual dispatch, so
// the handful of behaviours that vary per concrete type (Equal, Size,
// DefinedValue) are capability methods the embedding type must supply,
// while the tree-walking algorithms (Invalidate, Absorb, Alias,
// ComputedChips) are free functions that dispatch through the Node
// interface instead of through inheritance.
package component

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"periphgen/internal/chipset"
)

// Node is the capability interface every tree member implements. The
// embedded Base supplies the uniform bookkeeping (name, parent, children,
// chips, edit/lock flags); the four methods below are the ones each
// concrete type must define for itself because their meaning genuinely
// differs per variant.
type Node interface {
	// Core returns the embedded Base, giving free functions in this
	// package access to shared storage without needing a type switch.
	Core() *Base

	// Equal reports whether other is the same logical component as the
	// receiver, for the purposes of absorb-merge matching. The default
	// behaviour (name equality) is available via Base.NameEqual; most
	// concrete types should call that unless their identity includes
	// more than a name (e.g. Register also compares fields).
	Equal(other Node) bool

	// Size returns the component's size in bits. Leaf types with no
	// intrinsic size (Group, Instance) return 0.
	Size() int

	// DefinedValue is the value assigned in a #define statement for
	// this component's alias, or "" with ok=false if no #define value
	// is needed (only the guard expression applies).
	DefinedValue() (value string, ok bool)
}

// Base holds the bookkeeping shared by every Node: identity, position in
// the tree, chipset membership, and edit/lock state.
type Base struct {
	name    string
	brief   string
	chips   *chipset.Set
	parent  Node
	children []Node

	edited bool
	locked bool
}

// NewBase constructs a Base with the given name, brief and chipset. A
// nil chips is treated as an empty set.
func NewBase(name, brief string, chips *chipset.Set) Base {
	if chips == nil {
		chips = chipset.New()
	}
	if brief == name {
		brief = ""
	}
	return Base{name: name, brief: strings.Join(strings.Fields(brief), " "), chips: chips, edited: true}
}

func (b *Base) Core() *Base { return b }

// Name returns the component's local name.
func (b *Base) Name() string { return b.name }

// SetName renames the component, marking it (and its ancestors) edited
// if the name actually changes.
func (b *Base) SetName(n Node, name string) {
	if name != b.name {
		b.name = name
		Invalidate(n)
	}
}

// Brief returns the component's human-readable description, or "" if
// none was supplied (or it was identical to the name).
func (b *Base) Brief() string { return b.brief }

// SetBrief overwrites the brief text.
func (b *Base) SetBrief(brief string) {
	if brief != b.name {
		b.brief = strings.Join(strings.Fields(brief), " ")
	}
}

// Chips returns the component's own chipset (not including children's).
func (b *Base) Chips() *chipset.Set { return b.chips }

// Parent returns the owning Node, or nil at the tree root.
func (b *Base) Parent() Node { return b.parent }

// Children returns the component's children in insertion order. A leaf
// type (Field, Register with no sub-elements) returns nil.
func (b *Base) Children() []Node { return b.children }

// Edited reports whether the component has been mutated since its last
// Validate call.
func (b *Base) Edited() bool { return b.edited }

// Locked reports whether Lock has been called on the component.
func (b *Base) Locked() bool { return b.locked }

// Lock sets the component's locked flag. The flag is only recorded and
// reported (by Locked and to corrector conditions); the mutation
// functions in this package do not check it, so a locked component can
// still be edited.
func (b *Base) Lock() { b.locked = true }

// NameEqual is the default Equal behaviour: two nodes are the same
// logical component if they share a name. Concrete types whose identity
// is name-only should implement Equal by delegating to this.
func (b *Base) NameEqual(other Node) bool {
	return b.name == other.Core().name
}

// Invalidate marks n (and, transitively, every ancestor) as edited.
func Invalidate(n Node) {
	b := n.Core()
	if b.edited {
		return
	}
	b.edited = true
	if b.parent != nil {
		Invalidate(b.parent)
	}
}

// InvalidateRecursive marks n, its ancestors, and every descendant as
// edited.
func InvalidateRecursive(n Node) {
	Invalidate(n)
	for _, child := range n.Core().children {
		InvalidateRecursive(child)
	}
}

// Validate clears the edited flag on n and, recursively, on every
// descendant. It is the counterpart to Invalidate and is called once per
// fixpoint iteration before correctors run.
func Validate(n Node) {
	b := n.Core()
	if !b.edited {
		return
	}
	b.edited = false
	for _, child := range b.children {
		Validate(child)
	}
}

// SetParent reparents n under parent, invalidating both and registering
// n as one of parent's children if it is not already.
func SetParent(n Node, parent Node) {
	b := n.Core()
	if b.parent == parent {
		return
	}
	Invalidate(n)
	b.parent = parent
	AddChild(parent, n)
}

// AddChild appends child to parent's children (if not already present),
// reparents it, and folds its chipset upward.
func AddChild(parent Node, child Node) {
	pb := parent.Core()
	for _, existing := range pb.children {
		if existing == child {
			return
		}
	}
	Invalidate(parent)
	pb.children = append(pb.children, child)
	cb := child.Core()
	if cb.parent != parent {
		cb.parent = parent
	}
	AddChips(parent, cb.chips)
}

// RemoveChild deletes child from parent's children, if present, and
// invalidates parent.
func RemoveChild(parent Node, child Node) {
	pb := parent.Core()
	for i, existing := range pb.children {
		if existing == child {
			pb.children = append(pb.children[:i], pb.children[i+1:]...)
			Invalidate(parent)
			return
		}
	}
}

// AddChips folds chips into n's own chipset if they are not already a
// subset of it, propagating the fold up to the parent.
func AddChips(n Node, chips *chipset.Set) {
	if chips == nil || chips.Empty() {
		return
	}
	b := n.Core()
	if chips.IsSubsetOf(b.chips) {
		return
	}
	Invalidate(n)
	b.chips = b.chips.Union(chips)
	if b.parent != nil {
		AddChips(b.parent, chips)
	}
}

// ComputedChips returns n's own chipset unioned with every descendant's,
// recursively. It is the chipset actually printed in a guard expression
// once merge has settled, as opposed to Chips() which only reflects
// explicit membership.
func ComputedChips(n Node) *chipset.Set {
	out := n.Core().chips.Clone()
	for _, child := range n.Core().children {
		out = out.Union(ComputedChips(child))
	}
	return out
}

// ExistsFor reports whether n's chipset contains any chip whose name
// matches pattern, using the supplied glob matcher (kept injectable so
// this package does not need to import the glob library directly).
func ExistsFor(n Node, pattern string, matches func(name, pattern string) bool) bool {
	return n.Core().Chips().Match(pattern, matches)
}

// Alias returns the full hierarchical name used as the component's
// preprocessor define: "<parent alias>_<name>", or just name at the
// root or when a parent has no alias of its own.
func Alias(n Node) string {
	b := n.Core()
	if b.parent == nil {
		return b.name
	}
	parentAlias := Alias(b.parent)
	switch {
	case parentAlias == "":
		return b.name
	case b.name == "":
		return parentAlias
	default:
		return parentAlias + "_" + b.name
	}
}

// NeedsDefine reports whether n's alias must be guarded by a #define:
// it has a name, a parent, and its chipset differs from its parent's.
func NeedsDefine(n Node) bool {
	b := n.Core()
	if b.name == "" || b.parent == nil {
		return false
	}
	return !b.chips.Equal(b.parent.Core().chips)
}

// NodeAbsorber is implemented by concrete types whose absorb semantics
// are more than the generic child-matching Absorb performs (Register's
// name reconciliation, Mapping's element-slice bookkeeping). Both Absorb
// and MergeChildren dispatch to AbsorbNode when a matched pair of
// children both implement it, instead of recursing generically.
type NodeAbsorber interface {
	Node
	AbsorbNode(other Node) error
}

// Undefiner is implemented by concrete types that override the default
// undefine behaviour (Register and PeripheralInstance carry no runtime
// value worth undefining at header-end, unlike a Field or Element).
type Undefiner interface {
	Node
	Undefine() bool
}

// NeedsUndefine reports whether n's alias should get a trailing #undef
// at header-end: it must need a #define in the first place, assign a
// value through DefinedValue, and not be a type that opts out via
// Undefiner (the default, for types that don't implement it, is true).
func NeedsUndefine(n Node) bool {
	if !NeedsDefine(n) {
		return false
	}
	if _, ok := n.DefinedValue(); !ok {
		return false
	}
	if u, ok := n.(Undefiner); ok {
		return u.Undefine()
	}
	return true
}

// absorbMatched folds other into selfChild, dispatching to the type's
// own NodeAbsorber when both sides implement it so Register's name
// reconciliation and Mapping's element bookkeeping actually run,
// falling back to the generic Absorb otherwise.
func absorbMatched(selfChild, otherChild Node) error {
	if a, ok := selfChild.(NodeAbsorber); ok {
		return a.AbsorbNode(otherChild)
	}
	return Absorb(selfChild, otherChild)
}

// ChildPruner is implemented by parent types that keep their own typed
// view of a subset of their children alongside Base.children (Peripheral
// keeps instances/mappings, Mapping keeps elements). MergeChildren calls
// PruneChild whenever it drops one of n's children so that view stays in
// sync; types with no such shadow state need not implement it.
type ChildPruner interface {
	Node
	PruneChild(dropped Node)
}

// Absorb merges other into n in place: n keeps its own brief unless it
// has none and other does, chipsets fold together via AddChips, and
// children are matched by Equal and absorbed recursively; unmatched
// children of other are appended as new children of n.
func Absorb(n Node, other Node) error {
	nb := n.Core()
	ob := other.Core()
	if nb.brief == "" && ob.brief != "" {
		nb.brief = ob.brief
	}
	AddChips(n, ob.chips)

	for _, otherChild := range ob.children {
		matched := false
		for _, selfChild := range nb.children {
			if selfChild.Equal(otherChild) {
				if err := absorbMatched(selfChild, otherChild); err != nil {
					return err
				}
				matched = true
				break
			}
		}
		if !matched {
			AddChild(n, otherChild)
		}
	}
	return nil
}

// MergeChildren reconciles n's own children in place: a child that is an
// identical reference to an earlier one is dropped outright, and a child
// that is merely Equal (but distinct) to an earlier one is absorbed into
// it — via the matched pair's NodeAbsorber when available — then
// dropped. It is the tree-local counterpart to Absorb, run once per
// fixpoint iteration so correctors that independently produce
// equivalent children (e.g. two sub-correctors each renaming a register
// towards the same merged name) converge onto a single node instead of
// leaving duplicates behind.
func MergeChildren(n Node) error {
	b := n.Core()
	pruner, _ := n.(ChildPruner)
	kept := b.children[:0:0]
	for _, child := range b.children {
		absorbed := false
		for _, k := range kept {
			if k == child {
				absorbed = true
				break
			}
			if k.Equal(child) {
				if err := absorbMatched(k, child); err != nil {
					return err
				}
				absorbed = true
				break
			}
		}
		if absorbed {
			if pruner != nil {
				pruner.PruneChild(child)
			}
		} else {
			kept = append(kept, child)
		}
	}
	if len(kept) != len(b.children) {
		Invalidate(n)
	}
	b.children = kept
	return nil
}

// String renders a debugging label: the alias, or "<parent>.???" if the
// component has no name of its own.
func String(n Node) string {
	b := n.Core()
	if b.name != "" {
		return b.name
	}
	if b.parent != nil {
		return fmt.Sprintf("%s.???", String(b.parent))
	}
	return "???"
}
