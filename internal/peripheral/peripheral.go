// Package peripheral models a peripheral: its registers, the one or more
// alternative memory layouts (Mappings) those registers can take across
// chip variants, the chip-visible Instances at which it is placed, and
// optional single inheritance from a base peripheral.
package peripheral

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	"periphgen/internal/chipset"
	"periphgen/internal/component"
	"periphgen/internal/mapping"
	"periphgen/internal/register"
)

// Peripheral is a named collection of Registers, placed according to one
// or more Mappings, and instantiated on chips via Instances.
type Peripheral struct {
	component.Base

	mappings    []*mapping.Mapping
	instances   []*Instance
	InheritFrom *Peripheral
}

// New constructs an empty Peripheral.
func New(name, brief string, chips *chipset.Set) *Peripheral {
	return &Peripheral{Base: component.NewBase(name, brief, chips)}
}

// Size returns the largest byte span (in bits) among the peripheral's
// mappings; a peripheral with no mapping yet has size 0.
func (p *Peripheral) Size() int {
	max := 0
	for _, m := range p.mappings {
		if s := m.Size(); s > max {
			max = s
		}
	}
	return max
}

// DefinedValue: a peripheral carries no #define value of its own, only
// a class declaration guarded by its alias.
func (p *Peripheral) DefinedValue() (string, bool) { return "", false }

// Equal reports whether other is a Peripheral with the same name and an
// equivalent set of mapping elements (MappingEquivalentTo).
func (p *Peripheral) Equal(other component.Node) bool {
	o, ok := other.(*Peripheral)
	if !ok {
		return false
	}
	return p.Name() == o.Name() && p.MappingEquivalentTo(o)
}

// Registers returns the peripheral's child registers in declaration
// order.
func (p *Peripheral) Registers() []*register.Register {
	children := p.Core().Children()
	out := make([]*register.Register, 0, len(children))
	for _, c := range children {
		if r, ok := c.(*register.Register); ok {
			out = append(out, r)
		}
	}
	return out
}

// AddRegister appends r as one of the peripheral's registers.
func (p *Peripheral) AddRegister(r *register.Register) {
	component.AddChild(p, r)
}

// RemoveRegister deletes r and drops every mapping element that
// references it.
func (p *Peripheral) RemoveRegister(r *register.Register) {
	component.RemoveChild(p, r)
	for _, m := range p.mappings {
		for _, e := range m.Elements() {
			if e.Target == component.Node(r) {
				m.RemoveElement(e)
			}
		}
	}
}

// Mappings returns the peripheral's alternative memory layouts.
func (p *Peripheral) Mappings() []*mapping.Mapping { return p.mappings }

// Instances returns the peripheral's chip-visible placements.
func (p *Peripheral) Instances() []*Instance { return p.instances }

// Inherits reports whether the peripheral derives from a base
// peripheral.
func (p *Peripheral) Inherits() bool { return p.InheritFrom != nil }

// AddInstance merges other into the peripheral's instance list: an
// instance whose name matches an existing one is absorbed into it
// (their chipsets folded together); otherwise other is appended as a
// new instance.
func (p *Peripheral) AddInstance(other *Instance) error {
	component.AddChips(p, other.Core().Chips())
	for _, existing := range p.instances {
		if existing.Name() == other.Name() {
			return component.Absorb(existing, other)
		}
	}
	component.SetParent(other, p)
	p.instances = append(p.instances, other)
	return nil
}

// PruneChild implements component.ChildPruner: when MergeChildren drops
// one of the peripheral's own children (an Instance or Mapping absorbed
// into an equal sibling), drop it from the matching typed slice too, so
// Instances()/Mappings() stay in sync with Base.children. Registers need
// no handling here since Registers() is itself derived from
// Base.children.
func (p *Peripheral) PruneChild(dropped component.Node) {
	switch d := dropped.(type) {
	case *Instance:
		for i, inst := range p.instances {
			if inst == d {
				p.instances = append(p.instances[:i], p.instances[i+1:]...)
				return
			}
		}
	case *mapping.Mapping:
		for i, m := range p.mappings {
			if m == d {
				p.mappings = append(p.mappings[:i], p.mappings[i+1:]...)
				return
			}
		}
	}
}

// MappingEquivalentTo reports whether p and other place exactly the
// same set of elements (across however many mappings each has them
// split into).
func (p *Peripheral) MappingEquivalentTo(other *Peripheral) bool {
	selfElements := p.allElements()
	otherElements := other.allElements()
	if len(selfElements) != len(otherElements) {
		return false
	}
	for _, e := range selfElements {
		if !elementInList(e, otherElements) {
			return false
		}
	}
	for _, e := range otherElements {
		if !elementInList(e, selfElements) {
			return false
		}
	}
	return true
}

func (p *Peripheral) allElements() []*mapping.Element {
	var out []*mapping.Element
	for _, m := range p.mappings {
		out = append(out, m.Elements()...)
	}
	return out
}

func elementInList(target *mapping.Element, list []*mapping.Element) bool {
	for _, e := range list {
		if e.Equal(target) {
			return true
		}
	}
	return false
}

// AddPlacement places element within the peripheral: if an existing
// mapping already has an equal element there, the two are merged
// (chipsets unioned); otherwise element is added to the first mapping
// that has room for it, or to a newly created mapping if none does.
func (p *Peripheral) AddPlacement(element *mapping.Element) {
	for _, m := range p.mappings {
		for _, existing := range m.Elements() {
			if existing.Equal(element) {
				component.AddChips(existing, element.Core().Chips())
				return
			}
		}
	}

	var target *mapping.Mapping
	for _, m := range p.mappings {
		if m.HasRoomFor(element) {
			target = m
			break
		}
	}
	if target == nil {
		target = mapping.New(fmt.Sprintf("MAP%d", len(p.mappings)))
		component.AddChild(p, target)
		p.mappings = append(p.mappings, target)
	}
	target.AddElement(element)
}

// AddMapping folds every element of m into the peripheral via
// AddPlacement, used when absorbing another peripheral's alternative
// layout wholesale.
func (p *Peripheral) AddMapping(m *mapping.Mapping) {
	for _, e := range m.Elements() {
		p.AddPlacement(e)
	}
}

// Merge folds other's registers, instances and mappings into p. This is
// the Peripheral-level step of the intra-SVD / inter-SVD absorb used
// while compiling a single vendor pack and while combining multiple
// packs for the same chip family.
//
// Registers are matched and absorbed explicitly (rather than through the
// generic component.Absorb) so that a register shared by both sides
// folds into one copy: other's registers are children of other, so a
// blanket Absorb(p, other) would already fold matched registers into p's
// existing ones, but a caller also re-adding every one of other's
// registers afterwards would append them a second time, since AddChild
// dedups only by pointer identity, not Equal.
func (p *Peripheral) Merge(other *Peripheral) error {
	if p.Brief() == "" && other.Brief() != "" {
		p.SetBrief(other.Brief())
	}
	component.AddChips(p, other.Core().Chips())

	for _, r := range other.Registers() {
		matched := false
		for _, existing := range p.Registers() {
			if existing.Equal(r) {
				if err := existing.Absorb(r); err != nil {
					return err
				}
				matched = true
				break
			}
		}
		if !matched {
			p.AddRegister(r)
		}
	}
	for _, inst := range other.instances {
		if err := p.AddInstance(inst); err != nil {
			return err
		}
	}
	for _, m := range other.mappings {
		p.AddMapping(m)
	}
	return nil
}

// CompactMappings merges any pair of mappings whose element sets are
// Compatible, reducing the number of alternative layouts the peripheral
// exposes. It should be run once ingest of a single SVD is complete.
func (p *Peripheral) CompactMappings() {
	i := 0
	for i < len(p.mappings) {
		merged := false
		for j := i + 1; j < len(p.mappings); j++ {
			if p.mappings[i].Compatible(p.mappings[j]) {
				p.mappings[i].Merge(p.mappings[j])
				p.mappings = append(p.mappings[:j], p.mappings[j+1:]...)
				merged = true
				break
			}
		}
		if !merged {
			i++
		}
	}
}

// PruneUnusedRegisters drops every register no mapping element
// references, the cleanup pass run once merge and correction have
// settled.
func (p *Peripheral) PruneUnusedRegisters() {
	for _, r := range p.Registers() {
		used := false
		for _, m := range p.mappings {
			for _, e := range m.Elements() {
				if e.Target == component.Node(r) {
					used = true
					break
				}
			}
			if used {
				break
			}
		}
		if !used {
			p.RemoveRegister(r)
		}
	}
}
