package peripheral

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	"periphgen/internal/chipset"
	"periphgen/internal/component"
)

// Instance is a chip-visible named occurrence of a peripheral at a
// specific base address.
type Instance struct {
	component.Base

	Address int
}

// NewInstance constructs an Instance at the given base address.
func NewInstance(name, brief string, chips *chipset.Set, address int) *Instance {
	return &Instance{
		Base:    component.NewBase(name, brief, chips),
		Address: address,
	}
}

// Size is 0: an instance has no bit width of its own.
func (i *Instance) Size() int { return 0 }

// Undefine overrides the default: an instance's pointer declaration is
// the header's actual payload, not a #define-guarded intermediate value,
// so it carries nothing worth undefining at header-end.
func (i *Instance) Undefine() bool { return false }

// DefinedValue is the instance's base address, rendered as a pointer
// constant when declared.
func (i *Instance) DefinedValue() (string, bool) {
	return fmt.Sprintf("0x%08X", i.Address), true
}

// Equal reports whether other is an Instance with the same name (two
// instances describe the "same" chip-visible occurrence if and only if
// they share a name — address may still differ across chips that place
// the peripheral differently, which AddInstance resolves by folding
// chipsets rather than rejecting the mismatch).
func (i *Instance) Equal(other component.Node) bool {
	o, ok := other.(*Instance)
	if !ok {
		return false
	}
	return i.NameEqual(o)
}

// Declare renders the instance pointer declaration:
// "static PERIPH * const NAME = reinterpret_cast<PERIPH*>(ADDR);".
func (i *Instance) Declare(indent, peripheralType string) string {
	out := fmt.Sprintf("%sstatic %s * const %s = reinterpret_cast<%s*>(0x%08X);",
		indent, peripheralType, i.Name(), peripheralType, i.Address)
	if i.Brief() != "" {
		out += " /// " + i.Brief()
	}
	return out + "\n"
}
