package peripheral

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"

	"periphgen/internal/chip"
	"periphgen/internal/chipset"
	"periphgen/internal/field"
	"periphgen/internal/mapping"
	"periphgen/internal/register"
)

func chipOf(t *testing.T, define string) chip.Chip {
	t.Helper()
	return chip.New(define, define+".svd", define+".h")
}

func TestAddPlacementCreatesAndFillsMappings(t *testing.T) {
	p := New("GPIOA", "", nil)
	cr := register.New("CR", "", nil, 32, register.ReadWrite)
	p.AddRegister(cr)

	p.AddPlacement(mapping.NewElement("CR", nil, cr, 0x00))
	require.Len(t, p.Mappings(), 1)

	idr := register.New("IDR", "", nil, 32, register.ReadWrite)
	p.AddRegister(idr)
	p.AddPlacement(mapping.NewElement("IDR", nil, idr, 0x04))
	require.Len(t, p.Mappings(), 1) // fits in the same mapping, no overlap

	overlapping := register.New("ALT", "", nil, 32, register.ReadWrite)
	p.AddRegister(overlapping)
	p.AddPlacement(mapping.NewElement("ALT", nil, overlapping, 0x00))
	require.Len(t, p.Mappings(), 2) // overlaps CR, needs an alternative mapping
}

func TestMappingEquivalentTo(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	b := chipOf(t, "STM32L475xG")

	p1 := New("GPIOA", "", chipset.New(a))
	cr1 := register.New("CR", "", chipset.New(a), 32, register.ReadWrite)
	p1.AddRegister(cr1)
	p1.AddPlacement(mapping.NewElement("CR", chipset.New(a), cr1, 0x00))

	p2 := New("GPIOA", "", chipset.New(b))
	cr2 := register.New("CR", "", chipset.New(b), 32, register.ReadWrite)
	p2.AddRegister(cr2)
	p2.AddPlacement(mapping.NewElement("CR", chipset.New(b), cr2, 0x00))

	require.True(t, p1.MappingEquivalentTo(p2))
	require.True(t, p1.Equal(p2))
}

func TestMergeFoldsRegistersInstancesAndMappings(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	b := chipOf(t, "STM32L475xG")

	p1 := New("GPIOA", "", chipset.New(a))
	cr1 := register.New("CR", "", chipset.New(a), 32, register.ReadWrite)
	cr1.AddField(field.New("EN", "", chipset.New(a), 0, 1))
	p1.AddRegister(cr1)
	p1.AddPlacement(mapping.NewElement("CR", chipset.New(a), cr1, 0x00))
	p1.AddInstance(NewInstance("GPIOA", "", chipset.New(a), 0x40020000))

	p2 := New("GPIOA", "", chipset.New(b))
	cr2 := register.New("IDR", "", chipset.New(b), 32, register.ReadWrite)
	cr2.AddField(field.New("IDR0", "", chipset.New(b), 0, 1)) // a distinct field set keeps IDR from matching CR
	p2.AddRegister(cr2)
	p2.AddPlacement(mapping.NewElement("IDR", chipset.New(b), cr2, 0x04))
	p2.AddInstance(NewInstance("GPIOA", "", chipset.New(b), 0x48000000))

	p1.Merge(p2)

	require.Len(t, p1.Registers(), 2)
	require.Len(t, p1.Instances(), 1) // same instance name, chipsets folded
	require.True(t, p1.Instances()[0].Chips().Contains(a))
	require.True(t, p1.Instances()[0].Chips().Contains(b))
}

func TestPruneUnusedRegisters(t *testing.T) {
	p := New("GPIOA", "", nil)
	used := register.New("CR", "", nil, 32, register.ReadWrite)
	unused := register.New("DEAD", "", nil, 32, register.ReadWrite)
	p.AddRegister(used)
	p.AddRegister(unused)
	p.AddPlacement(mapping.NewElement("CR", nil, used, 0x00))

	p.PruneUnusedRegisters()

	require.Len(t, p.Registers(), 1)
	require.Equal(t, "CR", p.Registers()[0].Name())
}

func TestCompactMappingsMergesCompatibleLayouts(t *testing.T) {
	p := New("GPIOA", "", nil)
	cr := register.New("CR", "", nil, 32, register.ReadWrite)
	p.AddRegister(cr)

	m1 := mapping.New("MAP0")
	m1.AddElement(mapping.NewElement("CR", nil, cr, 0x00))
	m2 := mapping.New("MAP1")
	m2.AddElement(mapping.NewElement("CR", nil, cr, 0x00))

	p.mappings = append(p.mappings, m1, m2)
	p.CompactMappings()

	require.Len(t, p.Mappings(), 1)
}
