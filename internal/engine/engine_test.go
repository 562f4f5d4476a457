package engine

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"periphgen/internal/config"
	"periphgen/internal/corrector"
	"periphgen/internal/ingest"
	"periphgen/internal/telemetry"
	"periphgen/internal/workerpool"
)

func gpioaPeripheral(prefix string) ingest.SVDPeripheral {
	return ingest.SVDPeripheral{
		Name:      "GPIOA",
		GroupName: "GPIO",
		Brief:     "general purpose I/O",
		BaseAddr:  0x40020000,
		Registers: []ingest.SVDRegister{
			{
				Name:          prefix + "MODER",
				AddressOffset: 0x00,
				SizeBits:      32,
				Access:        "read-write",
				Fields: []ingest.SVDField{
					{Name: "MODER0", BitOffset: 0, BitWidth: 2},
				},
			},
		},
	}
}

func twoChipSources() Sources {
	pdsc := &ingest.FixturePDSCSource{Entries: []ingest.ChipEntry{
		{Define: "STM32F401xE", SVDPath: "STM32F401xE.svd", HeaderPath: "STM32F401xE.h"},
		{Define: "STM32F411xE", SVDPath: "STM32F411xE.svd", HeaderPath: "STM32F411xE.h"},
	}}

	svdByChip := map[string]*ingest.FixtureSVDSource{
		"STM32F401xE": {Entries: []ingest.SVDPeripheral{gpioaPeripheral("GPIOA_")}},
		"STM32F411xE": {Entries: []ingest.SVDPeripheral{gpioaPeripheral("GPIOA_")}},
	}

	return Sources{
		PDSC: pdsc,
		OpenSVD: func(_ context.Context, entry ingest.ChipEntry) (ingest.SVDSource, error) {
			return svdByChip[entry.Define], nil
		},
	}
}

func TestRunMergesSameGpioAcrossChipsIntoOneGroup(t *testing.T) {
	result, err := Run(context.Background(), config.Default(), corrector.BaseRoot(), twoChipSources(), workerpool.New(2), nil)
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)

	g := result.Groups[0]
	require.Equal(t, "GPIO", g.Name())
	require.Len(t, g.Peripherals(), 1)

	p := g.Peripherals()[0]
	require.Equal(t, "GPIOA", p.Name())
	require.Equal(t, 2, p.Core().Chips().Len())
}

func TestRunHonoursChipFilter(t *testing.T) {
	cfg := config.Default()
	cfg.ChipsFilter = []string{"STM32F401xE"}

	result, err := Run(context.Background(), cfg, corrector.BaseRoot(), twoChipSources(), workerpool.New(2), nil)
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	require.Equal(t, 1, result.Groups[0].Peripherals()[0].Core().Chips().Len())
}

func TestRunHonoursGroupFilter(t *testing.T) {
	cfg := config.Default()
	cfg.GroupFilter = []string{"USART*"}

	result, err := Run(context.Background(), cfg, corrector.BaseRoot(), twoChipSources(), workerpool.New(2), nil)
	require.NoError(t, err)
	require.Empty(t, result.Groups)
}

func TestRunRecordsTelemetryForMergedComponents(t *testing.T) {
	tel := telemetry.New()
	_, err := Run(context.Background(), config.Default(), corrector.BaseRoot(), twoChipSources(), workerpool.New(2), tel)
	require.NoError(t, err)
}

func TestRunAppliesCorrectorStrippingGpioPrefix(t *testing.T) {
	result, err := Run(context.Background(), config.Default(), corrector.BaseRoot(), twoChipSources(), workerpool.New(2), nil)
	require.NoError(t, err)

	regs := result.Groups[0].Peripherals()[0].Registers()
	require.Len(t, regs, 1)
	require.Equal(t, "MODER", regs[0].Name())
}
