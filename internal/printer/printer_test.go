package printer

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"

	"periphgen/internal/chip"
	"periphgen/internal/chipset"
	"periphgen/internal/group"
	"periphgen/internal/mapping"
	"periphgen/internal/peripheral"
	"periphgen/internal/register"
)

func chipOf(t *testing.T, define string) chip.Chip {
	t.Helper()
	return chip.New(define, define+".svd", define+".h")
}

func TestGuardExprUnneededWhenChipsMatchParent(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	g := group.New("GPIO", chipset.New(a))
	p := peripheral.New("GPIOA", "", chipset.New(a))
	g.AddPeripheral(p)

	_, needed := GuardExpr(p, chipset.New(a))
	require.False(t, needed)
}

func TestGuardExprNeededWhenChipsNarrowerThanParent(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	b := chipOf(t, "STM32L475xG")
	g := group.New("GPIO", chipset.New(a, b))
	p := peripheral.New("GPIOA", "", chipset.New(a))
	g.AddPeripheral(p)

	expr, needed := GuardExpr(p, chipset.New(a, b))
	require.True(t, needed)
	require.Contains(t, expr, "STM32F4") // the lone STM32F4-family chip collapses to its family guard
}

func TestDeclarePeripheralIncludesRegisterAndGuard(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	b := chipOf(t, "STM32L475xG")
	p := peripheral.New("GPIOA", "port A", chipset.New(a))
	cr := register.New("CR", "control register", chipset.New(a), 32, register.ReadWrite)
	p.AddRegister(cr)
	p.AddPlacement(mapping.NewElement("CR", chipset.New(a), cr, 0x00))
	g := group.New("GPIO", chipset.New(a, b)) // the guard is relative to the enclosing group's chipset
	g.AddPeripheral(p)

	out := DeclarePeripheral(p, chipset.New(a, b), "")
	require.Contains(t, out, "#if defined(STM32F4")
	require.Contains(t, out, "class GPIOA")
	require.Contains(t, out, "struct CR_t")
}

func TestDeclareGroupHasIncludeGuard(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	g := group.New("GPIO", chipset.New(a))
	p := peripheral.New("GPIOA", "", chipset.New(a))
	p.AddInstance(peripheral.NewInstance("GPIOA", "", chipset.New(a), 0x40020000))
	g.AddPeripheral(p)

	out := DeclareGroup(g, chipset.New(a))
	require.Contains(t, out, "#ifndef GPIO_STRUCT_H")
	require.Contains(t, out, "#define GPIO_STRUCT_H")
	require.Contains(t, out, "class GPIOA")
	require.Contains(t, out, "reinterpret_cast<GPIOA*>")
	require.Contains(t, out, "#endif // GPIO_STRUCT_H")
}
