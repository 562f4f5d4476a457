package register

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"

	"periphgen/internal/component"
	"periphgen/internal/engineerr"
	"periphgen/internal/field"
)

func TestAccessTypeFromString(t *testing.T) {
	rw, err := AccessTypeFromString("read-write")
	require.NoError(t, err)
	require.Equal(t, ReadWrite, rw)

	_, err = AccessTypeFromString("bogus")
	require.Error(t, err)
}

func TestMergeNamesPrefix(t *testing.T) {
	merged, ok := MergeNames("CR", "CR1")
	require.True(t, ok)
	require.Equal(t, "CR", merged)
}

// TestMergeNamesSingleVaryingDigit pins spec Scenario E: two register
// names varying by a single character collapse to the "x" wildcard form.
func TestMergeNamesSingleVaryingDigit(t *testing.T) {
	merged, ok := MergeNames("CRy", "CRz")
	require.True(t, ok)
	require.Equal(t, "CRx", merged)
}

func TestMergeNamesCommonPrefixSuffix(t *testing.T) {
	merged, ok := MergeNames("USART1_CR", "USART2_CR")
	require.True(t, ok)
	require.Equal(t, "USARTx_CR", merged)
}

func TestMergeNamesUnreconcilable(t *testing.T) {
	_, ok := MergeNames("ABC", "XYZ")
	require.False(t, ok)
}

func TestRegisterEqualByFields(t *testing.T) {
	r1 := New("CR", "", nil, 32, ReadWrite)
	r1.AddField(field.New("EN", "", nil, 0, 1))

	r2 := New("CR", "", nil, 32, ReadWrite)
	r2.AddField(field.New("EN", "", nil, 0, 1))

	require.True(t, r1.Equal(r2))

	r3 := New("CR", "", nil, 32, ReadWrite)
	r3.AddField(field.New("EN", "", nil, 1, 1))
	require.False(t, r1.Equal(r3))
}

// TestAbsorbRenamesAndDeduplicatesFields pins spec Scenario E end to end:
// merging CRy and CRz (identical shape) under a shared parent yields a
// register renamed CRx, with both original names gone.
func TestAbsorbRenamesAndDeduplicatesFields(t *testing.T) {
	parent := newFakeParent("PERIPH")

	self := New("CRy", "", nil, 32, ReadWrite)
	self.AddField(field.New("EN", "", nil, 0, 1))
	component.AddChild(parent, self)

	other := New("CRz", "", nil, 32, ReadWrite)
	other.AddField(field.New("EN", "", nil, 0, 1))

	err := self.Absorb(other)
	require.NoError(t, err)
	require.Equal(t, "CRx", self.Name())
	require.NotEqual(t, "CRy", self.Name())
	require.NotEqual(t, "CRz", self.Name())
}

func TestAbsorbFallsBackThroughSubstitutionOrderOnCollision(t *testing.T) {
	parent := newFakeParent("PERIPH")

	taken := New("CRx", "", nil, 32, ReadWrite)
	component.AddChild(parent, taken)

	self := New("CRy", "", nil, 32, ReadWrite)
	component.AddChild(parent, self)
	other := New("CRz", "", nil, 32, ReadWrite)

	err := self.Absorb(other)
	require.NoError(t, err)
	require.NotEqual(t, "CRx", self.Name()) // already taken by sibling
}

// TestAbsorbUnresolvableRename exhausts every slot in the x -> y -> z ->
// n search order and expects a typed UnresolvableRenameError rather than
// a silent fallback.
func TestAbsorbUnresolvableRename(t *testing.T) {
	parent := newFakeParent("PERIPH")
	for _, n := range []string{"ABx", "ABy", "ABz", "ABn"} {
		component.AddChild(parent, New(n, "", nil, 32, ReadWrite))
	}
	self := New("AB1", "", nil, 32, ReadWrite)
	component.AddChild(parent, self)
	other := New("AB2", "", nil, 32, ReadWrite) // MergeNames("AB1","AB2") == "ABx", already taken

	err := self.Absorb(other)
	require.Error(t, err)
	var renameErr *engineerr.UnresolvableRenameError
	require.ErrorAs(t, err, &renameErr)
}

// fakeParent is a minimal Node used only to give registers a parent
// whose children list participates in sibling name collision checks.
type fakeParent struct {
	component.Base
}

func newFakeParent(name string) *fakeParent {
	return &fakeParent{Base: component.NewBase(name, "", nil)}
}

func (p *fakeParent) Equal(other component.Node) bool        { return p.NameEqual(other) }
func (p *fakeParent) Size() int                               { return 0 }
func (p *fakeParent) DefinedValue() (string, bool)            { return "", false }
