// Package xlsxreport renders an Excel summary workbook for a merge run:
// one row per group with its peripheral/register/field counts, and a
// Warnings sheet listing every structural warning raised.
package xlsxreport

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"periphgen/internal/engineerr"
	"periphgen/internal/group"
)

const (
	summarySheet  = "Summary"
	warningsSheet = "Warnings"
)

// Workbook wraps an excelize.File with the two sheets a merge run
// reports through.
type Workbook struct {
	file *excelize.File
}

// New builds an empty Workbook with its Summary and Warnings sheets
// headered and styled.
func New() (*Workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, errors.Wrap(err, "renaming default sheet")
	}
	if _, err := f.NewSheet(warningsSheet); err != nil {
		return nil, errors.Wrap(err, "creating warnings sheet")
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}

	setHeaderRow(f, summarySheet, boldStyle, "Group", "Peripherals", "Registers", "Fields")
	setHeaderRow(f, warningsSheet, boldStyle, "Component", "Detail")

	return &Workbook{file: f}, nil
}

func setHeaderRow(f *excelize.File, sheet string, style int, headers ...string) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
}

// WriteGroups appends one Summary row per group, counting its
// peripherals, registers (summed across peripherals) and fields (summed
// across registers).
func (w *Workbook) WriteGroups(groups []*group.Group) error {
	row := 2
	for _, g := range groups {
		registers, fields := 0, 0
		for _, p := range g.Peripherals() {
			regs := p.Registers()
			registers += len(regs)
			for _, r := range regs {
				fields += len(r.Fields())
			}
		}

		values := []any{g.Name(), len(g.Peripherals()), registers, fields}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := w.file.SetCellValue(summarySheet, cell, v); err != nil {
				return errors.Wrapf(err, "writing summary row for group %s", g.Name())
			}
		}
		row++
	}
	return nil
}

// WriteWarnings appends one Warnings row per structural warning.
func (w *Workbook) WriteWarnings(warnings []*engineerr.StructuralWarning) error {
	row := 2
	for _, warning := range warnings {
		cellComponent, _ := excelize.CoordinatesToCellName(1, row)
		cellDetail, _ := excelize.CoordinatesToCellName(2, row)
		if err := w.file.SetCellValue(warningsSheet, cellComponent, warning.Component); err != nil {
			return errors.Wrap(err, "writing warning component")
		}
		if err := w.file.SetCellValue(warningsSheet, cellDetail, warning.Detail); err != nil {
			return errors.Wrap(err, "writing warning detail")
		}
		row++
	}
	return nil
}

// Save writes the workbook to path.
func (w *Workbook) Save(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return errors.Wrapf(err, "saving report workbook to %s", path)
	}
	return nil
}
