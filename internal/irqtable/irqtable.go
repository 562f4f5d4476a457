// Package irqtable accumulates each chip's CMSIS interrupt table and
// renders the union as the guarded IRQn_Type enum every chip family
// ships alongside its struct header.
package irqtable

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"sort"
	"strings"

	"periphgen/internal/chip"
	"periphgen/internal/chipset"
)

type key struct {
	name  string
	value int
}

// Table is the per-(name, value) synthesis of every chip's interrupt
// table: which chips requested a given interrupt name at a given
// number, grounded on the original generator's two-pass
// synthesis/reverse_synthesis grouping.
type Table struct {
	chips map[key]*chipset.Set
	order []key
}

// New returns an empty Table.
func New() *Table {
	return &Table{chips: make(map[key]*chipset.Set)}
}

// Observe folds chip c's interrupt table into the union.
func (t *Table) Observe(c chip.Chip, irqs map[string]int) {
	names := make([]string, 0, len(irqs))
	for name := range irqs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		k := key{name, irqs[name]}
		cs, ok := t.chips[k]
		if !ok {
			cs = chipset.New()
			t.chips[k] = cs
			t.order = append(t.order, k)
		}
		cs.Add(c)
	}
}

type group struct {
	chips   *chipset.Set
	entries []key
}

// Render produces the contents of IRQn.h: a typedef enum listing every
// distinct (name, value) pair observed, grouped by the exact set of
// chips that requested it and wrapped in a #if guard relative to
// reference — the group matching reference outright needs no guard.
func (t *Table) Render(reference *chipset.Set) string {
	groups := make(map[string]*group)
	var hashOrder []string
	for _, k := range t.order {
		cs := t.chips[k]
		h := cs.Hash()
		g, ok := groups[h]
		if !ok {
			g = &group{chips: cs}
			groups[h] = g
			hashOrder = append(hashOrder, h)
		}
		g.entries = append(g.entries, k)
	}
	for _, h := range hashOrder {
		entries := groups[h].entries
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].value != entries[j].value {
				return entries[i].value < entries[j].value
			}
			return entries[i].name < entries[j].name
		})
	}
	sort.Slice(hashOrder, func(i, j int) bool {
		gi, gj := groups[hashOrder[i]], groups[hashOrder[j]]
		iRef := gi.chips.Equal(reference)
		jRef := gj.chips.Equal(reference)
		if iRef != jRef {
			return iRef
		}
		return hashOrder[i] < hashOrder[j]
	})

	var b strings.Builder
	b.WriteString("#ifndef SOOL_IRQN_H\n#define SOOL_IRQN_H\n\n")
	b.WriteString("#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n")
	b.WriteString("typedef enum\n{\n")
	for _, h := range hashOrder {
		g := groups[h]
		needGuard := !g.chips.Equal(reference)
		if needGuard {
			fmt.Fprintf(&b, "#if %s\n", g.chips.DefinedList(4, reference, "\t"))
		}
		for _, k := range g.entries {
			fmt.Fprintf(&b, "\t%s = %d,\n", k.name, k.value)
		}
		if needGuard {
			b.WriteString("#endif\n")
		}
	}
	b.WriteString("} IRQn_Type;\n\n")
	b.WriteString("#ifdef __cplusplus\n}\n#endif\n\n")
	b.WriteString("#endif // SOOL_IRQN_H\n")
	return b.String()
}
