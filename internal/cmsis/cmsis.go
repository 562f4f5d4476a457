// Package cmsis cross-checks a merged Peripheral's register table against
// the table a vendor CMSIS C header declares for the same peripheral,
// surfacing discrepancies as non-fatal structural warnings rather than
// failing the merge: the SVD is trusted as authoritative, the header is
// only used to catch cases where the two disagree.
package cmsis

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"regexp"

	"periphgen/internal/engineerr"
	"periphgen/internal/mapping"
	"periphgen/internal/peripheral"
	"periphgen/internal/register"
)

var (
	reservedPattern = regexp.MustCompile(`(?i)^reserved[\w\d]?`)
	intTypePattern  = regexp.MustCompile(`^u?int\d+_t`)
)

// HeaderRegister is one entry of a CMSISHeaderSource's register table for
// a given peripheral (see internal/ingest.CMSISHeaderSource).
type HeaderRegister struct {
	Name      string
	Type      string
	ArraySize int
}

// HeaderPeripheral is the CMSIS header's full register table for one
// peripheral.
type HeaderPeripheral struct {
	Name      string
	Registers []HeaderRegister
}

// CheckPeripheral compares p's placed elements against header's register
// table and returns one StructuralWarning per discrepancy found. It never
// returns a fatal error: a CMSIS header is corroborating evidence, not a
// second source of truth the merge must match exactly.
func CheckPeripheral(p *peripheral.Peripheral, header HeaderPeripheral) []*engineerr.StructuralWarning {
	var warnings []*engineerr.StructuralWarning

	for _, cmsisReg := range header.Registers {
		if reservedPattern.MatchString(cmsisReg.Name) {
			continue
		}

		element, mappingName := findElement(p, cmsisReg.Name)
		if element == nil {
			continue
		}

		headerArraySize := cmsisReg.ArraySize
		elementArraySize := element.ArraySize
		expectedArraySize := 1
		if elementArraySize != 0 {
			expectedArraySize = elementArraySize
		}
		if headerArraySize != expectedArraySize {
			warnings = append(warnings, engineerr.NewStructuralWarning(
				p.Name(),
				"array size mismatch for "+mappingName+"."+cmsisReg.Name,
			))
			continue
		}

		_, isRegister := element.Target.(*register.Register)
		headerLooksScalar := intTypePattern.MatchString(cmsisReg.Type)
		switch {
		case headerLooksScalar && !isRegister:
			warnings = append(warnings, engineerr.NewStructuralWarning(
				p.Name(),
				"header register "+cmsisReg.Name+" doesn't match sub-peripheral "+mappingName,
			))
		case !headerLooksScalar && isRegister:
			warnings = append(warnings, engineerr.NewStructuralWarning(
				p.Name(),
				"header sub-peripheral "+cmsisReg.Name+" doesn't match register "+mappingName,
			))
		}
	}

	return warnings
}

func findElement(p *peripheral.Peripheral, name string) (element *mapping.Element, mappingName string) {
	for _, m := range p.Mappings() {
		for _, e := range m.Elements() {
			if e.Name() == name {
				return e, m.Name()
			}
		}
	}
	return nil, ""
}
