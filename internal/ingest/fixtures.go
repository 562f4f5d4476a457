package ingest

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "context"

// FixturePDSCSource is an in-memory PDSCSource backed by a fixed entry
// list, used by merge-engine tests that need a PDSCSource without parsing
// a real PDSC document.
type FixturePDSCSource struct {
	Entries []ChipEntry
}

func (f *FixturePDSCSource) Chips(ctx context.Context) (<-chan ChipEntry, error) {
	out := make(chan ChipEntry, len(f.Entries))
	for _, e := range f.Entries {
		select {
		case <-ctx.Done():
			close(out)
			return out, ctx.Err()
		default:
		}
		out <- e
	}
	close(out)
	return out, nil
}

// FixtureSVDSource is an in-memory SVDSource backed by a fixed peripheral
// list.
type FixtureSVDSource struct {
	Entries []SVDPeripheral
}

func (f *FixtureSVDSource) Peripherals(ctx context.Context) (<-chan SVDPeripheral, error) {
	out := make(chan SVDPeripheral, len(f.Entries))
	for _, p := range f.Entries {
		select {
		case <-ctx.Done():
			close(out)
			return out, ctx.Err()
		default:
		}
		out <- p
	}
	close(out)
	return out, nil
}

// FixtureCMSISHeaderSource is an in-memory CMSISHeaderSource backed by
// fixed lookup tables.
type FixtureCMSISHeaderSource struct {
	Registers  map[string][]CMSISRegisterEntry
	IRQNumbers map[string]int
}

func (f *FixtureCMSISHeaderSource) PeripheralRegisters(peripheralName string) ([]CMSISRegisterEntry, bool) {
	entries, ok := f.Registers[peripheralName]
	return entries, ok
}

func (f *FixtureCMSISHeaderSource) Interrupts() map[string]int {
	return f.IRQNumbers
}

// FixturePackRetriever is an in-memory PackRetriever returning a fixed
// directory, or a fixed failure.
type FixturePackRetriever struct {
	LocalDir string
	Failure  *PackFailure
}

func (f *FixturePackRetriever) Fetch(ctx context.Context, family, version string) (string, error) {
	if f.Failure != nil {
		return "", f.Failure
	}
	return f.LocalDir, nil
}
