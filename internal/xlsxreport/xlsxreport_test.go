package xlsxreport

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"periphgen/internal/chip"
	"periphgen/internal/chipset"
	"periphgen/internal/engineerr"
	"periphgen/internal/group"
	"periphgen/internal/peripheral"
	"periphgen/internal/register"
)

func buildGroup(t *testing.T) *group.Group {
	t.Helper()
	a := chip.New("STM32F401xE", "STM32F401xE.svd", "STM32F401xE.h")
	cs := chipset.New(a)
	g := group.New("GPIO", cs)
	p := peripheral.New("GPIOA", "", cs)
	cr := register.New("CR", "", cs, 32, register.ReadWrite)
	p.AddRegister(cr)
	g.AddPeripheral(p)
	return g
}

func TestWriteGroupsPopulatesSummarySheet(t *testing.T) {
	wb, err := New()
	require.NoError(t, err)
	require.NoError(t, wb.WriteGroups([]*group.Group{buildGroup(t)}))

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, wb.Save(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(summarySheet, "A2")
	require.NoError(t, err)
	require.Equal(t, "GPIO", name)

	peripherals, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	require.Equal(t, "1", peripherals)
}

func TestWriteWarningsPopulatesWarningsSheet(t *testing.T) {
	wb, err := New()
	require.NoError(t, err)

	warnings := []*engineerr.StructuralWarning{
		engineerr.NewStructuralWarning("GPIOA.CR", "array size mismatch"),
	}
	require.NoError(t, wb.WriteWarnings(warnings))

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, wb.Save(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	component, err := f.GetCellValue(warningsSheet, "A2")
	require.NoError(t, err)
	require.Equal(t, "GPIOA.CR", component)
}
