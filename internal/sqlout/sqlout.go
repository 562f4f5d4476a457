// Package sqlout dumps a merged tree of Groups into a relational SQLite
// database for ad hoc querying, alongside the xlsx summary report.
package sqlout

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"periphgen/internal/group"
	"periphgen/internal/mapping"
	"periphgen/internal/peripheral"
	"periphgen/internal/register"
)

const schema = `
CREATE TABLE IF NOT EXISTS groups (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS peripherals (
	id       INTEGER PRIMARY KEY,
	group_id INTEGER NOT NULL REFERENCES groups(id),
	name     TEXT NOT NULL,
	brief    TEXT
);
CREATE TABLE IF NOT EXISTS registers (
	id            INTEGER PRIMARY KEY,
	peripheral_id INTEGER NOT NULL REFERENCES peripherals(id),
	name          TEXT NOT NULL,
	size          INTEGER NOT NULL,
	access        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fields (
	id          INTEGER PRIMARY KEY,
	register_id INTEGER NOT NULL REFERENCES registers(id),
	name        TEXT NOT NULL,
	position    INTEGER NOT NULL,
	size        INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS placements (
	id            INTEGER PRIMARY KEY,
	peripheral_id INTEGER NOT NULL REFERENCES peripherals(id),
	register_name TEXT NOT NULL,
	element_name  TEXT NOT NULL,
	address       INTEGER NOT NULL,
	array_size    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS instances (
	id            INTEGER PRIMARY KEY,
	peripheral_id INTEGER NOT NULL REFERENCES peripherals(id),
	name          TEXT NOT NULL,
	address       INTEGER NOT NULL
);
`

// Open opens the SQLite database at path (creating the file if absent)
// and applies the schema with CREATE TABLE IF NOT EXISTS; tables and
// rows already present in an existing file are kept.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite database %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "applying sqlout schema")
	}
	return db, nil
}

// Dump writes every group's peripherals, registers, fields, mapping
// placements and instances into db.
func Dump(db *sql.DB, groups []*group.Group) error {
	for _, g := range groups {
		if err := dumpGroup(db, g); err != nil {
			return errors.Wrapf(err, "dumping group %s", g.Name())
		}
	}
	return nil
}

func dumpGroup(db *sql.DB, g *group.Group) error {
	res, err := db.Exec(`INSERT INTO groups (name) VALUES (?)`, g.Name())
	if err != nil {
		return err
	}
	groupID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, p := range g.Peripherals() {
		if err := dumpPeripheral(db, p, groupID); err != nil {
			return errors.Wrapf(err, "peripheral %s", p.Name())
		}
	}
	return nil
}

func dumpPeripheral(db *sql.DB, p *peripheral.Peripheral, groupID int64) error {
	res, err := db.Exec(`INSERT INTO peripherals (group_id, name, brief) VALUES (?, ?, ?)`,
		groupID, p.Name(), p.Brief())
	if err != nil {
		return err
	}
	peripheralID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	registerIDs := make(map[string]int64)
	for _, r := range p.Registers() {
		id, err := dumpRegister(db, r, peripheralID)
		if err != nil {
			return errors.Wrapf(err, "register %s", r.Name())
		}
		registerIDs[r.Name()] = id
	}

	for _, m := range p.Mappings() {
		for _, elt := range m.Elements() {
			if err := dumpPlacement(db, elt, peripheralID); err != nil {
				return errors.Wrapf(err, "placement %s", elt.Name())
			}
		}
	}

	for _, inst := range p.Instances() {
		if _, err := db.Exec(`INSERT INTO instances (peripheral_id, name, address) VALUES (?, ?, ?)`,
			peripheralID, inst.Name(), inst.Address); err != nil {
			return errors.Wrapf(err, "instance %s", inst.Name())
		}
	}

	return nil
}

func dumpRegister(db *sql.DB, r *register.Register, peripheralID int64) (int64, error) {
	res, err := db.Exec(`INSERT INTO registers (peripheral_id, name, size, access) VALUES (?, ?, ?, ?)`,
		peripheralID, r.Name(), r.Size(), accessString(r.Access))
	if err != nil {
		return 0, err
	}
	registerID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, f := range r.Fields() {
		if _, err := db.Exec(`INSERT INTO fields (register_id, name, position, size) VALUES (?, ?, ?, ?)`,
			registerID, f.Name(), f.Position, f.Size()); err != nil {
			return 0, errors.Wrapf(err, "field %s", f.Name())
		}
	}
	return registerID, nil
}

func dumpPlacement(db *sql.DB, elt *mapping.Element, peripheralID int64) error {
	_, err := db.Exec(`INSERT INTO placements (peripheral_id, register_name, element_name, address, array_size) VALUES (?, ?, ?, ?, ?)`,
		peripheralID, elt.Target.Core().Name(), elt.Name(), elt.Address, elt.ArraySize)
	return err
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
