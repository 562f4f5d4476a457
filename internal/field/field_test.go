package field

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverlap(t *testing.T) {
	en := New("EN", "", nil, 0, 1)
	mode := New("MODE", "", nil, 1, 2)
	require.False(t, en.Overlap(mode))

	overlapping := New("X", "", nil, 0, 2)
	require.True(t, en.Overlap(overlapping))
	require.True(t, overlapping.Overlap(en))
}

func TestOverlapSamePosition(t *testing.T) {
	a := New("A", "", nil, 4, 4)
	b := New("B", "", nil, 4, 2)
	require.True(t, a.Overlap(b))
}

func TestEqual(t *testing.T) {
	a := New("EN", "", nil, 0, 1)
	b := New("EN", "", nil, 0, 1)
	c := New("EN", "", nil, 1, 1)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestFillBitMask(t *testing.T) {
	f := New("MODE", "", nil, 2, 3)
	mask := make([]bool, 8)
	f.FillBitMask(mask)
	require.Equal(t, []bool{false, false, true, true, true, false, false, false}, mask)
}

func TestDeclare(t *testing.T) {
	f := New("EN", "enable bit", nil, 0, 1)
	out := f.Declare("    ", 32)
	require.Contains(t, out, "uint32_t EN")
	require.Contains(t, out, ": 1;")
	require.Contains(t, out, "/// enable bit")
}
