package component

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"

	"periphgen/internal/chip"
	"periphgen/internal/chipset"
)

// fakeNode is a minimal Node implementation used to exercise the generic
// tree algorithms without depending on any concrete domain type.
type fakeNode struct {
	Base
	sizeBits int
}

func newFake(name string, chips *chipset.Set) *fakeNode {
	n := &fakeNode{Base: NewBase(name, "", chips)}
	return n
}

func (f *fakeNode) Equal(other Node) bool          { return f.NameEqual(other) }
func (f *fakeNode) Size() int                      { return f.sizeBits }
func (f *fakeNode) DefinedValue() (string, bool)   { return "", false }

func chipOf(t *testing.T, define string) chip.Chip {
	t.Helper()
	return chip.New(define, define+".svd", define+".h")
}

func TestAliasHierarchy(t *testing.T) {
	root := newFake("GPIOA", nil)
	reg := newFake("CR", nil)
	AddChild(root, reg)

	require.Equal(t, "GPIOA_CR", Alias(reg))
	require.Equal(t, "GPIOA", Alias(root))
}

func TestInvalidatePropagatesToAncestors(t *testing.T) {
	root := newFake("GPIOA", nil)
	reg := newFake("CR", nil)
	AddChild(root, reg)
	Validate(root)
	require.False(t, root.Edited())
	require.False(t, reg.Edited())

	Invalidate(reg)
	require.True(t, reg.Edited())
	require.True(t, root.Edited())
}

func TestValidateClearsWholeSubtree(t *testing.T) {
	root := newFake("GPIOA", nil)
	reg := newFake("CR", nil)
	field := newFake("EN", nil)
	AddChild(root, reg)
	AddChild(reg, field)

	Validate(root)
	require.False(t, root.Edited())
	require.False(t, reg.Edited())
	require.False(t, field.Edited())
}

func TestAddChipsPropagatesUpwardAndSkipsSubsets(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	b := chipOf(t, "STM32L475xG")

	root := newFake("GPIOA", nil)
	reg := newFake("CR", chipset.New(a))
	AddChild(root, reg)

	require.True(t, root.Chips().Contains(a))

	Validate(root)
	AddChips(reg, chipset.New(a)) // already a subset, must not re-invalidate
	require.False(t, root.Edited())

	AddChips(reg, chipset.New(b))
	require.True(t, root.Chips().Contains(b))
	require.True(t, root.Edited())
}

func TestComputedChipsUnionsDescendants(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	b := chipOf(t, "STM32L475xG")

	root := newFake("GPIOA", nil)
	reg1 := newFake("CR1", chipset.New(a))
	reg2 := newFake("CR2", chipset.New(b))
	AddChild(root, reg1)
	AddChild(root, reg2)

	computed := ComputedChips(root)
	require.True(t, computed.Contains(a))
	require.True(t, computed.Contains(b))
}

func TestNeedsDefine(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	b := chipOf(t, "STM32L475xG")

	root := newFake("GPIOA", chipset.New(a, b))
	sameAsParent := newFake("CR1", chipset.New(a, b))
	narrower := newFake("CR2", chipset.New(a))
	AddChild(root, sameAsParent)
	AddChild(root, narrower)

	require.False(t, NeedsDefine(sameAsParent))
	require.True(t, NeedsDefine(narrower))
}

func TestAbsorbMergesMatchingChildrenAndAppendsRest(t *testing.T) {
	a := chipOf(t, "STM32F401xE")
	b := chipOf(t, "STM32L475xG")

	self := newFake("GPIOA", nil)
	selfReg := newFake("CR", chipset.New(a))
	AddChild(self, selfReg)

	other := newFake("GPIOA", nil)
	otherReg := newFake("CR", chipset.New(b))   // matches selfReg by name
	otherOnly := newFake("IDR", chipset.New(b)) // new child
	AddChild(other, otherReg)
	AddChild(other, otherOnly)

	Absorb(self, other)

	require.Len(t, self.Children(), 2)
	require.True(t, selfReg.Chips().Contains(a))
	require.True(t, selfReg.Chips().Contains(b))
}

func TestAbsorbKeepsSelfBriefUnlessEmpty(t *testing.T) {
	self := newFake("CR", nil)
	self.SetBrief("control register")
	other := newFake("CR", nil)
	other.SetBrief("should not override")

	Absorb(self, other)
	require.Equal(t, "control register", self.Brief())

	empty := newFake("CR2", nil)
	Absorb(empty, other)
	require.Equal(t, "should not override", empty.Brief())
}

func TestLock(t *testing.T) {
	n := newFake("CR", nil)
	require.False(t, n.Locked())
	n.Lock()
	require.True(t, n.Locked())
}
