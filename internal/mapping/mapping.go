// Package mapping models one concrete memory layout of a peripheral: an
// ordered set of non-overlapping MappingElements, each binding an
// address offset to a Register or sub-Peripheral.
package mapping

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"sort"

	"periphgen/internal/chipset"
	"periphgen/internal/component"
)

// Element binds an address offset to a Register or Peripheral (its
// Target), optionally repeated as an array.
type Element struct {
	component.Base

	Target      component.Node
	Address     int
	ArraySize   int
	ArrayStride int
}

// NewElement constructs a placement of target at address.
func NewElement(name string, chips *chipset.Set, target component.Node, address int) *Element {
	return &Element{
		Base:    component.NewBase(name, "", chips),
		Target:  target,
		Address: address,
	}
}

// NewArrayElement constructs an array placement: arraySize repetitions
// of target, stride bits apart from each other beyond target's own
// size (0 stride means back-to-back).
func NewArrayElement(name string, chips *chipset.Set, target component.Node, address, arraySize, stride int) *Element {
	return &Element{
		Base:        component.NewBase(name, "", chips),
		Target:      target,
		Address:     address,
		ArraySize:   arraySize,
		ArrayStride: stride,
	}
}

// Size returns the element's total size in bits: the target's size for
// a scalar element, or the full array span (including inter-element
// stride, but not trailing stride after the last element) for an array.
func (e *Element) Size() int {
	if e.ArraySize == 0 {
		return e.Target.Size()
	}
	return e.ArraySize*(e.Target.Size()+e.ArrayStride) - e.ArrayStride
}

// ByteSize is Size rounded up to a whole byte.
func (e *Element) ByteSize() int {
	return (e.Size() + 7) / 8
}

// End returns the byte offset one past the element's last occupied byte.
func (e *Element) End() int { return e.Address + e.ByteSize() }

// Equal reports whether other is an Element with the same address,
// name, array shape, and target register/peripheral (by size and name,
// not identity — two distinct Register values describing the same
// shape are considered the same target for mapping purposes).
func (e *Element) Equal(other component.Node) bool {
	o, ok := other.(*Element)
	if !ok {
		return false
	}
	return e.Address == o.Address &&
		e.Name() == o.Name() &&
		e.ArraySize == o.ArraySize &&
		e.ArrayStride == o.ArrayStride &&
		e.Target.Size() == o.Target.Size() &&
		e.Target.Core().Name() == o.Target.Core().Name()
}

// DefinedValue is the declared member value: the target's alias,
// followed by the element's own name, with an array suffix if
// applicable.
func (e *Element) DefinedValue() (string, bool) {
	val := fmt.Sprintf("%s %s", e.Target.Core().Name(), e.Name())
	if e.ArraySize > 0 {
		val += fmt.Sprintf("[%d]", e.ArraySize)
	}
	return val, true
}

// Overlap reports whether e and other occupy any byte in common.
func (e *Element) Overlap(other *Element) bool {
	if other.Address < e.Address {
		return other.End() > e.Address
	}
	return e.End() > other.Address
}

// Mapping is an ordered, non-overlapping set of Elements describing one
// concrete memory layout of the enclosing peripheral.
type Mapping struct {
	component.Base

	elements []*Element
}

// New constructs an empty Mapping.
func New(name string) *Mapping {
	return &Mapping{Base: component.NewBase(name, "", nil)}
}

// Size returns the mapping's total byte span, in bits: the highest
// address any element's last occupied byte reaches.
func (m *Mapping) Size() int { return m.ByteSpan() * 8 }

// ByteSpan returns the highest byte offset any element in the mapping
// reaches (0 for an empty mapping).
func (m *Mapping) ByteSpan() int {
	span := 0
	for _, e := range m.elements {
		if e.End() > span {
			span = e.End()
		}
	}
	return span
}

// DefinedValue: a mapping itself never carries a #define value.
func (m *Mapping) DefinedValue() (string, bool) { return "", false }

// Equal reports whether other is a Mapping with the same elements (by
// Element.Equal), ignoring order.
func (m *Mapping) Equal(other component.Node) bool {
	o, ok := other.(*Mapping)
	if !ok {
		return false
	}
	if len(m.elements) != len(o.elements) {
		return false
	}
	for _, e := range m.elements {
		if !containsEqualElement(o.elements, e) {
			return false
		}
	}
	return true
}

func containsEqualElement(elements []*Element, target *Element) bool {
	for _, e := range elements {
		if e.Equal(target) {
			return true
		}
	}
	return false
}

// Elements returns the mapping's elements, sorted by address then name.
func (m *Mapping) Elements() []*Element {
	out := make([]*Element, len(m.elements))
	copy(out, m.elements)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Address != out[j].Address {
			return out[i].Address < out[j].Address
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

// HasRoomFor reports whether e can be added to the mapping without
// overlapping any existing element.
func (m *Mapping) HasRoomFor(e *Element) bool {
	for _, existing := range m.elements {
		if existing.Overlap(e) {
			return false
		}
	}
	return true
}

// AddElement inserts e into the mapping, reparenting it. It is the
// caller's responsibility to have checked HasRoomFor first; AddElement
// does not itself reject an overlapping element, matching the source
// behaviour where overlap is a placement-time precondition enforced by
// the caller (Peripheral.add_placement), not by the mapping itself.
func (m *Mapping) AddElement(e *Element) {
	component.AddChild(m, e)
	m.elements = append(m.elements, e)
}

// RemoveElement deletes e from the mapping, if present.
func (m *Mapping) RemoveElement(e *Element) {
	for i, existing := range m.elements {
		if existing == e {
			m.elements = append(m.elements[:i], m.elements[i+1:]...)
			component.Invalidate(m)
			return
		}
	}
}

// AbsorbNode implements component.NodeAbsorber: two mappings matched as
// Equal children go through Merge, which keeps the elements slice in
// sync, rather than the generic child-matching Absorb (which would only
// touch Base.children and desync Elements()).
func (m *Mapping) AbsorbNode(other component.Node) error {
	o, ok := other.(*Mapping)
	if !ok {
		return component.Absorb(m, other)
	}
	m.Merge(o)
	return nil
}

// PruneChild implements component.ChildPruner: when MergeChildren drops
// one of the mapping's own children (an Element absorbed into an equal
// sibling), drop it from elements too so Elements()/HasRoomFor stay in
// sync with Base.children.
func (m *Mapping) PruneChild(dropped component.Node) {
	if e, ok := dropped.(*Element); ok {
		m.RemoveElement(e)
	}
}

// Compatible reports whether m and other can be merged: every pair of
// elements (one from each) that share an address must also share a name
// and target.
func (m *Mapping) Compatible(other *Mapping) bool {
	for _, a := range m.elements {
		for _, b := range other.elements {
			if a.Address == b.Address {
				if a.Name() != b.Name() || a.Target.Core().Name() != b.Target.Core().Name() {
					return false
				}
			}
		}
	}
	return true
}

// Merge folds other's elements into m: elements matching an existing
// one by address+name+target are absorbed into it (their chipsets
// unioned); the rest are appended as new elements. The caller must have
// verified Compatible(other) first.
func (m *Mapping) Merge(other *Mapping) {
	for _, oe := range other.elements {
		merged := false
		for _, se := range m.elements {
			if se.Address == oe.Address && se.Name() == oe.Name() &&
				se.Target.Core().Name() == oe.Target.Core().Name() {
				component.AddChips(se, oe.Core().Chips())
				merged = true
				break
			}
		}
		if !merged {
			m.AddElement(oe)
		}
	}
}

// CreateArrayForComponent finds every element in m that references
// target at addresses forming an arithmetic progression (stride s
// between consecutive occurrences), merges their chipsets, and replaces
// them with a single element named name with ArraySize = count and
// ArrayStride = s - target.byte_size. Elements whose address breaks the
// progression are left untouched. If keepOriginals is true the
// individual elements are kept alongside the new array element instead
// of being removed.
func (m *Mapping) CreateArrayForComponent(target component.Node, name string, keepOriginals bool) {
	var candidates []*Element
	for _, e := range m.elements {
		if e.Target == target && e.ArraySize == 0 {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) < 2 {
		return
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Address < candidates[j].Address })

	targetByteSize := (target.Size() + 7) / 8
	stride := candidates[1].Address - candidates[0].Address

	run := []*Element{candidates[0]}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Address-candidates[i-1].Address == stride {
			run = append(run, candidates[i])
			continue
		}
		m.replaceRunWithArray(run, target, name, stride, targetByteSize, keepOriginals)
		run = []*Element{candidates[i]}
		if i+1 < len(candidates) {
			stride = candidates[i+1].Address - candidates[i].Address
		}
	}
	m.replaceRunWithArray(run, target, name, stride, targetByteSize, keepOriginals)
}

func (m *Mapping) replaceRunWithArray(run []*Element, target component.Node, name string, stride, targetByteSize int, keepOriginals bool) {
	if len(run) < 2 {
		return
	}
	chips := run[0].Core().Chips().Clone()
	for _, e := range run[1:] {
		chips = chips.Union(e.Core().Chips())
	}
	arrayElement := NewArrayElement(name, chips, target, run[0].Address, len(run), stride-targetByteSize)
	if !keepOriginals {
		for _, e := range run {
			m.RemoveElement(e)
		}
	}
	m.AddElement(arrayElement)
}
