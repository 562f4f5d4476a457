package ingest

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixturePDSCSourceStreamsEntries(t *testing.T) {
	src := &FixturePDSCSource{Entries: []ChipEntry{
		{Define: "STM32F401xE", SVDPath: "a.svd", HeaderPath: "a.h"},
		{Define: "STM32F401xC", SVDPath: "b.svd", HeaderPath: "b.h"},
	}}

	ch, err := src.Chips(context.Background())
	require.NoError(t, err)

	var got []ChipEntry
	for e := range ch {
		got = append(got, e)
	}
	require.Len(t, got, 2)
	require.Equal(t, "STM32F401xE", got[0].Define)
}

func TestFixturePDSCSourceRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &FixturePDSCSource{Entries: []ChipEntry{{Define: "X"}}}
	_, err := src.Chips(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFixtureSVDSourceStreamsPeripherals(t *testing.T) {
	src := &FixtureSVDSource{Entries: []SVDPeripheral{
		{Name: "GPIOA", BaseAddr: 0x40020000},
	}}
	ch, err := src.Peripherals(context.Background())
	require.NoError(t, err)

	var got []SVDPeripheral
	for p := range ch {
		got = append(got, p)
	}
	require.Len(t, got, 1)
	require.Equal(t, "GPIOA", got[0].Name)
}

func TestFixtureCMSISHeaderSource(t *testing.T) {
	src := &FixtureCMSISHeaderSource{
		Registers: map[string][]CMSISRegisterEntry{
			"USART1": {{FieldName: "CR1", CType: "uint32_t", ArraySize: 1}},
		},
		IRQNumbers: map[string]int{"USART1_IRQn": 37},
	}

	entries, ok := src.PeripheralRegisters("USART1")
	require.True(t, ok)
	require.Len(t, entries, 1)

	_, ok = src.PeripheralRegisters("NOPE")
	require.False(t, ok)

	require.Equal(t, 37, src.Interrupts()["USART1_IRQn"])
}

func TestFixturePackRetrieverSuccessAndFailure(t *testing.T) {
	ok := &FixturePackRetriever{LocalDir: "/packs/stm32f4"}
	dir, err := ok.Fetch(context.Background(), "STM32F4", "")
	require.NoError(t, err)
	require.Equal(t, "/packs/stm32f4", dir)

	failing := &FixturePackRetriever{Failure: &PackFailure{Kind: VersionUnavailable, Detail: "2.1.0 not found"}}
	_, err = failing.Fetch(context.Background(), "STM32F4", "2.1.0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "version unavailable")
}
