package sqlout

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"periphgen/internal/chip"
	"periphgen/internal/chipset"
	"periphgen/internal/field"
	"periphgen/internal/group"
	"periphgen/internal/mapping"
	"periphgen/internal/peripheral"
	"periphgen/internal/register"
)

func buildGroup(t *testing.T) *group.Group {
	t.Helper()
	a := chip.New("STM32F401xE", "STM32F401xE.svd", "STM32F401xE.h")
	cs := chipset.New(a)

	g := group.New("GPIO", cs)
	p := peripheral.New("GPIOA", "port A", cs)
	cr := register.New("CR", "control register", cs, 32, register.ReadWrite)
	cr.AddField(field.New("MODE0", "mode bits", cs, 0, 2))
	p.AddRegister(cr)
	p.AddPlacement(mapping.NewElement("CR", cs, cr, 0x00))
	p.AddInstance(peripheral.NewInstance("GPIOA", "", cs, 0x40020000))
	g.AddPeripheral(p)
	return g
}

func TestDumpPopulatesAllTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge.sqlite")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Dump(db, []*group.Group{buildGroup(t)}))

	var groupCount, peripheralCount, registerCount, fieldCount, placementCount, instanceCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM groups`).Scan(&groupCount))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM peripherals`).Scan(&peripheralCount))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM registers`).Scan(&registerCount))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM fields`).Scan(&fieldCount))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM placements`).Scan(&placementCount))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM instances`).Scan(&instanceCount))

	require.Equal(t, 1, groupCount)
	require.Equal(t, 1, peripheralCount)
	require.Equal(t, 1, registerCount)
	require.Equal(t, 1, fieldCount)
	require.Equal(t, 1, placementCount)
	require.Equal(t, 1, instanceCount)
}

func TestDumpRecordsRegisterAccessMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge.sqlite")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Dump(db, []*group.Group{buildGroup(t)}))

	var access string
	require.NoError(t, db.QueryRow(`SELECT access FROM registers WHERE name = 'CR'`).Scan(&access))
	require.Equal(t, "read-write", access)
}
