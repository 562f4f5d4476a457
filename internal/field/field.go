// Package field models a bitfield within a Register: a name, a bit
// position, and a size in bits.
package field

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	"periphgen/internal/chipset"
	"periphgen/internal/component"
)

// Field is a bit-slice of a Register.
type Field struct {
	component.Base

	Position int
	size     int
}

// New constructs a Field at the given bit position and size.
func New(name, brief string, chips *chipset.Set, position, size int) *Field {
	return &Field{
		Base:     component.NewBase(name, brief, chips),
		Position: position,
		size:     size,
	}
}

// Size returns the field's width in bits.
func (f *Field) Size() int { return f.size }

// SetSize changes the field's width, invalidating the component.
func (f *Field) SetSize(size int) {
	f.size = size
	component.Invalidate(f)
}

// End returns the bit position one past the field's last bit.
func (f *Field) End() int { return f.Position + f.size }

// Equal reports whether other is a Field with the same position, size
// and name.
func (f *Field) Equal(other component.Node) bool {
	o, ok := other.(*Field)
	if !ok {
		return false
	}
	return f.Position == o.Position && f.size == o.size && f.Name() == o.Name()
}

// DefinedValue is the field's own name: referencing a field's alias in
// generated code expands to the field's bare name, not its full alias.
func (f *Field) DefinedValue() (string, bool) {
	if f.Name() == "" {
		return "", false
	}
	return f.Name(), true
}

// Overlap reports whether f and other occupy any bit position in common.
func (f *Field) Overlap(other *Field) bool {
	switch {
	case other.Position < f.Position:
		return other.End() > f.Position
	case f.Position < other.Position:
		return f.End() > other.Position
	default:
		return true
	}
}

// FillBitMask sets every bit of mask that f occupies to true. mask must
// be at least f.End() bits long.
func (f *Field) FillBitMask(mask []bool) {
	for i := f.Position; i < f.End(); i++ {
		mask[i] = true
	}
}

func (f *Field) String() string {
	return fmt.Sprintf("%s @%d-%d", component.String(f), f.Position, f.End()-1)
}

// Declare renders the C++ bitfield member declaration for f, given the
// backing integer width of its owning Register ("uint8_t"/"uint16_t"/
// "uint32_t"/"uint64_t" selected by the caller).
func (f *Field) Declare(indent string, typeWidth int) string {
	name := f.Name()
	if component.NeedsDefine(f) {
		name = component.Alias(f)
	}
	out := fmt.Sprintf("%suint%d_t %-16s : %d;", indent, typeWidth, name, f.size)
	if f.Brief() != "" {
		out += " /// " + f.Brief()
	}
	return out + "\n"
}
