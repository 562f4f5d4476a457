// Package printer renders a merged Group into the C++ header text an
// outer driver writes to disk: per-component guard expressions computed
// from the component's chipset, and bitfield/register/peripheral/instance
// declarations built on top of the Declare methods each domain package
// already exposes.
package printer

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"periphgen/internal/chipset"
	"periphgen/internal/component"
	"periphgen/internal/group"
	"periphgen/internal/peripheral"
)

// chipsPerLine bounds how many "defined(CHIP)" terms a guard expression
// packs onto one physical line before wrapping, matching the teacher's
// preference for keeping generated lines within a readable width.
const chipsPerLine = 4

// GuardExpr returns the preprocessor boolean expression gating n's
// declaration, and whether a guard is needed at all: a component whose
// chipset equals its parent's needs no guard of its own.
func GuardExpr(n component.Node, reference *chipset.Set) (expr string, needed bool) {
	if !component.NeedsDefine(n) {
		return "", false
	}
	chips := component.ComputedChips(n)
	return chips.DefinedList(chipsPerLine, reference, "\t"), true
}

// WrapGuard wraps body in "#if <expr> / #endif" when n needs a guard,
// and returns body unchanged otherwise.
func WrapGuard(n component.Node, reference *chipset.Set, indent, body string) string {
	expr, needed := GuardExpr(n, reference)
	if !needed {
		return body
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s#if %s\n", indent, expr)
	b.WriteString(body)
	fmt.Fprintf(&b, "%s#endif // %s\n", indent, component.Alias(n))
	return b.String()
}

// DeclareMapping renders one Mapping's elements as struct members: a
// union arm when the owning Peripheral has more than one Mapping, a flat
// member list otherwise (the caller decides which by checking
// len(p.Mappings())).
func DeclareMapping(elements []MappingElementView, reference *chipset.Set, indent string) string {
	var b strings.Builder
	for _, e := range elements {
		val, _ := e.Node.DefinedValue()
		line := fmt.Sprintf("%s%s;", indent, val)
		if e.Brief != "" {
			line += " /// " + e.Brief
		}
		b.WriteString(WrapGuard(e.Node, reference, indent, line+"\n"))
	}
	return b.String()
}

// MappingElementView adapts a mapping.Element for printing without this
// package needing to import internal/mapping's concrete Element type
// directly in its exported surface: Node supplies DefinedValue/guarding,
// Brief is carried separately since component.Node does not expose it.
type MappingElementView struct {
	Node  component.Node
	Brief string
}

// DeclarePeripheral renders one Peripheral's full class declaration:
// registers, placement members (unioned across mappings when there is
// more than one), all wrapped in the peripheral's own guard.
func DeclarePeripheral(p *peripheral.Peripheral, reference *chipset.Set, indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sclass %s", indent, p.Name())
	if p.Inherits() {
		fmt.Fprintf(&b, ": public %s", p.InheritFrom.Name())
	}
	if p.Brief() != "" {
		fmt.Fprintf(&b, " /// %s", p.Brief())
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s{\n%spublic:\n", indent, indent)

	inner := indent + "\t"
	for _, r := range p.Registers() {
		b.WriteString(WrapGuard(r, reference, inner, r.Declare(inner)))
	}

	mappings := p.Mappings()
	multi := len(mappings) > 1
	if multi {
		fmt.Fprintf(&b, "%sunion\n%s{\n", inner, inner)
	}
	for _, m := range mappings {
		views := make([]MappingElementView, 0, len(m.Elements()))
		for _, e := range m.Elements() {
			views = append(views, MappingElementView{Node: e, Brief: e.Brief()})
		}
		memberIndent := inner
		if multi {
			memberIndent = inner + "\t"
		}
		b.WriteString(DeclareMapping(views, reference, memberIndent))
	}
	if multi {
		fmt.Fprintf(&b, "%s};\n", inner)
	}

	fmt.Fprintf(&b, "%s};\n", indent)
	return WrapGuard(p, reference, indent, b.String())
}

// DeclareInstances renders the pointer declarations for every instance of
// p, deduplicated by name (two instances sharing a name across chip
// variants print once, their chipsets already folded by
// Peripheral.AddInstance).
func DeclareInstances(p *peripheral.Peripheral, reference *chipset.Set, indent string) string {
	var b strings.Builder
	for _, inst := range p.Instances() {
		b.WriteString(WrapGuard(inst, reference, indent, inst.Declare(indent, p.Name())))
	}
	return b.String()
}

// DeclareGroup renders a whole Group as the contents of its output
// header: one class per Peripheral (sorted by name for determinism),
// followed by every peripheral's instance declarations, followed by an
// #undef for every name that requested one.
func DeclareGroup(g *group.Group, reference *chipset.Set) string {
	var b strings.Builder
	guardMacro := strings.ToUpper(g.Name()) + "_STRUCT_H"
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guardMacro, guardMacro)

	for _, p := range g.PeripheralsSortedByName() {
		b.WriteString(DeclarePeripheral(p, reference, ""))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, p := range g.PeripheralsSortedByName() {
		b.WriteString(DeclareInstances(p, reference, ""))
	}

	undefines := collectUndefines(g)
	if len(undefines) > 0 {
		b.WriteString("\n")
		for _, alias := range undefines {
			fmt.Fprintf(&b, "#undef %s\n", alias)
		}
	}

	fmt.Fprintf(&b, "\n#endif // %s\n", guardMacro)
	return b.String()
}

// collectUndefines walks n's subtree and returns the alias of every
// descendant component.NeedsUndefine approves, in declaration order, for
// emission as trailing #undef directives at header-end.
func collectUndefines(n component.Node) []string {
	var out []string
	for _, child := range n.Core().Children() {
		if component.NeedsUndefine(child) {
			out = append(out, component.Alias(child))
		}
		out = append(out, collectUndefines(child)...)
	}
	return out
}
