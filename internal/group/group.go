// Package group models a named collection of Peripherals emitted as one
// output header file.
package group

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"sort"

	"periphgen/internal/chipset"
	"periphgen/internal/component"
	"periphgen/internal/peripheral"
)

// Group owns the Peripherals merged in the order their owning SVD was
// processed; within a Peripheral, callers sort registers and mapping
// elements ascending (by name and by address respectively) so printing
// is deterministic given the same input set.
type Group struct {
	component.Base

	peripherals []*peripheral.Peripheral
}

// New constructs an empty Group.
func New(name string, chips *chipset.Set) *Group {
	return &Group{Base: component.NewBase(name, "", chips)}
}

// Size is 0: a group has no intrinsic bit width.
func (g *Group) Size() int { return 0 }

// DefinedValue: a group carries no #define value; only a header guard.
func (g *Group) DefinedValue() (string, bool) { return "", false }

// Equal reports whether other is a Group with the same name.
func (g *Group) Equal(other component.Node) bool {
	o, ok := other.(*Group)
	if !ok {
		return false
	}
	return g.NameEqual(o)
}

// Peripherals returns the group's peripherals in merge order.
func (g *Group) Peripherals() []*peripheral.Peripheral {
	out := make([]*peripheral.Peripheral, len(g.peripherals))
	copy(out, g.peripherals)
	return out
}

// PeripheralsSortedByName returns the group's peripherals ordered by
// name, for deterministic printing.
func (g *Group) PeripheralsSortedByName() []*peripheral.Peripheral {
	out := g.Peripherals()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// AddPeripheral appends p to the group if no existing peripheral has
// the same name; otherwise the existing peripheral absorbs p and its
// instances/mappings/registers. Mappings are not compared.
func (g *Group) AddPeripheral(p *peripheral.Peripheral) error {
	for _, existing := range g.peripherals {
		if existing.Name() == p.Name() {
			if err := existing.Merge(p); err != nil {
				return err
			}
			component.AddChips(g, p.Core().Chips())
			return nil
		}
	}
	component.AddChild(g, p)
	g.peripherals = append(g.peripherals, p)
	return nil
}

// RemovePeripheral deletes p from the group.
func (g *Group) RemovePeripheral(p *peripheral.Peripheral) {
	for i, existing := range g.peripherals {
		if existing == p {
			g.peripherals = append(g.peripherals[:i], g.peripherals[i+1:]...)
			component.RemoveChild(g, p)
			return
		}
	}
}

// HeaderName is the output file name this group compiles to.
func (g *Group) HeaderName() string {
	return g.Name() + "_struct.h"
}
