package engine

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"github.com/pkg/errors"

	"periphgen/internal/chipset"
	"periphgen/internal/engineerr"
	"periphgen/internal/field"
	"periphgen/internal/group"
	"periphgen/internal/peripheral"
	"periphgen/internal/register"
)

// Snapshot is the JSON-serialisable projection of a Result that
// internal/checkpoint persists at POST_MERGE: component names, briefs and
// bit layout, without the live chipset/glob/corrector machinery a
// component tree carries. A driver resuming from a checkpoint rebuilds a
// tree with Groups for rendering (internal/xlsxreport, internal/sqlout);
// chip membership itself is not reconstructed, since the counts and
// layout a report needs do not depend on it.
type Snapshot struct {
	Groups   []GroupSnapshot   `json:"groups"`
	Warnings []WarningSnapshot `json:"warnings"`
}

type GroupSnapshot struct {
	Name        string               `json:"name"`
	Peripherals []PeripheralSnapshot `json:"peripherals"`
}

type PeripheralSnapshot struct {
	Name      string             `json:"name"`
	Brief     string             `json:"brief"`
	Registers []RegisterSnapshot `json:"registers"`
}

type RegisterSnapshot struct {
	Name   string          `json:"name"`
	Brief  string          `json:"brief"`
	Size   int             `json:"size"`
	Access string          `json:"access"`
	Fields []FieldSnapshot `json:"fields"`
}

type FieldSnapshot struct {
	Name      string `json:"name"`
	Brief     string `json:"brief"`
	BitOffset int    `json:"bit_offset"`
	BitWidth  int    `json:"bit_width"`
}

type WarningSnapshot struct {
	Component string `json:"component"`
	Detail    string `json:"detail"`
}

// NewSnapshot projects result into its checkpoint-friendly form.
func NewSnapshot(result *Result) Snapshot {
	s := Snapshot{}
	for _, g := range result.Groups {
		gs := GroupSnapshot{Name: g.Name()}
		for _, p := range g.PeripheralsSortedByName() {
			ps := PeripheralSnapshot{Name: p.Name(), Brief: p.Brief()}
			for _, r := range p.Registers() {
				rs := RegisterSnapshot{Name: r.Name(), Brief: r.Brief(), Size: r.Size(), Access: accessString(r.Access)}
				for _, f := range r.Fields() {
					rs.Fields = append(rs.Fields, FieldSnapshot{Name: f.Name(), Brief: f.Brief(), BitOffset: f.Position, BitWidth: f.Size()})
				}
				ps.Registers = append(ps.Registers, rs)
			}
			gs.Peripherals = append(gs.Peripherals, ps)
		}
		s.Groups = append(s.Groups, gs)
	}
	for _, w := range result.Warnings {
		s.Warnings = append(s.Warnings, WarningSnapshot{Component: w.Component, Detail: w.Detail})
	}
	return s
}

// Rebuild reconstructs a tree of Groups from the snapshot, against an
// empty chipset (no chip is rebuilt as a member of any component), for
// report renderers that only need names and counts. Peripheral names
// within a GroupSnapshot are already unique (NewSnapshot projects from an
// already-merged Group), so AddPeripheral never takes its merge branch
// here; the error return only guards against a hand-edited or corrupted
// checkpoint file naming the same peripheral twice.
func (s Snapshot) Rebuild() ([]*group.Group, error) {
	empty := chipset.New()
	groups := make([]*group.Group, 0, len(s.Groups))
	for _, gs := range s.Groups {
		g := group.New(gs.Name, empty)
		for _, ps := range gs.Peripherals {
			p := peripheral.New(ps.Name, ps.Brief, empty)
			for _, rs := range ps.Registers {
				access, err := register.AccessTypeFromString(rs.Access)
				if err != nil {
					access = register.ReadWrite
				}
				r := register.New(rs.Name, rs.Brief, empty, rs.Size, access)
				for _, fs := range rs.Fields {
					r.AddField(field.New(fs.Name, fs.Brief, empty, fs.BitOffset, fs.BitWidth))
				}
				p.AddRegister(r)
			}
			if err := g.AddPeripheral(p); err != nil {
				return nil, errors.Wrapf(err, "rebuilding group %s", gs.Name)
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// StructuralWarnings reconstructs the snapshot's warnings as engineerr.StructuralWarnings.
func (s Snapshot) StructuralWarnings() []*engineerr.StructuralWarning {
	warnings := make([]*engineerr.StructuralWarning, 0, len(s.Warnings))
	for _, w := range s.Warnings {
		warnings = append(warnings, &engineerr.StructuralWarning{Component: w.Component, Detail: w.Detail})
	}
	return warnings
}

func accessString(a register.AccessType) string {
	switch a {
	case register.ReadOnly:
		return "read-only"
	case register.WriteOnly:
		return "write-only"
	default:
		return "read-write"
	}
}
