package chip

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputedDefine(t *testing.T) {
	c := New("STM32F401xE", "STM32F401.svd", "stm32f401xe.h")
	require.Equal(t, "STM32F401xE", c.ComputedDefine())

	c2 := c.WithProcessor("CM7", "CORE_CM7")
	require.Equal(t, "STM32F401xE_CORE_CM7", c2.ComputedDefine())
}

func TestNormalizeDefine(t *testing.T) {
	c := New("stm32f401xe", "a\\b.svd", "a\\b.h")
	require.Equal(t, "STM32F401xE", c.Define)
	require.Equal(t, "a/b.svd", c.SVDPath)
	require.Equal(t, "a/b.h", c.HeaderPath)
}

func TestFamily(t *testing.T) {
	require.Equal(t, "STM32F4", Family("STM32F401xE"))
	require.Equal(t, "STM32MP1", Family("STM32MP157C"))
}

func TestIsComplete(t *testing.T) {
	c := Chip{Define: "STM32F401xE"}
	require.False(t, c.IsComplete())
	c.SVDPath = "x.svd"
	c.HeaderPath = "x.h"
	require.True(t, c.IsComplete())
}

func TestKeyEquality(t *testing.T) {
	a := New("STM32F401xE", "a.svd", "a.h")
	b := New("STM32F401xE", "a.svd", "a.h")
	require.Equal(t, a.Key(), b.Key())

	c := b.WithProcessor("CM7", "CORE_CM7")
	require.NotEqual(t, a.Key(), c.Key())
}
