// Package register models one named register of a peripheral: its bit
// width, access mode, and the bitfields it declares. It also implements
// the register-name merge algorithm used when absorbing two registers
// that describe the same hardware location under different names across
// chip variants.
package register

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"regexp"
	"strings"

	"periphgen/internal/chipset"
	"periphgen/internal/component"
	"periphgen/internal/engineerr"
	"periphgen/internal/field"
)

// DefaultSize is the register width, in bits, used when an SVD register
// node omits an explicit size.
const DefaultSize = 32

// AccessType is the read/write permission declared for a register.
type AccessType int

const (
	ReadWrite AccessType = iota
	ReadOnly
	WriteOnly
)

// AccessTypeFromString parses the SVD <access> element's text.
func AccessTypeFromString(s string) (AccessType, error) {
	switch s {
	case "read-write", "":
		return ReadWrite, nil
	case "read-only":
		return ReadOnly, nil
	case "write-only":
		return WriteOnly, nil
	default:
		return 0, fmt.Errorf("unknown access type %q", s)
	}
}

// Register is a named, sized collection of Fields.
type Register struct {
	component.Base

	size   int
	Access AccessType
	// Type overrides the default "RegN_t" backing type name, or "" to
	// use the default.
	Type string
}

// New constructs a Register with the given size and access mode.
func New(name, brief string, chips *chipset.Set, size int, access AccessType) *Register {
	if size == 0 {
		size = DefaultSize
	}
	return &Register{
		Base:   component.NewBase(name, brief, chips),
		size:   size,
		Access: access,
	}
}

// Size returns the register's width in bits.
func (r *Register) Size() int { return r.size }

// SetSize changes the register's width, invalidating the component.
func (r *Register) SetSize(size int) {
	r.size = size
	component.Invalidate(r)
}

// Fields returns the register's child fields in declaration order.
func (r *Register) Fields() []*field.Field {
	children := r.Core().Children()
	out := make([]*field.Field, 0, len(children))
	for _, c := range children {
		if f, ok := c.(*field.Field); ok {
			out = append(out, f)
		}
	}
	return out
}

// AddField appends f as one of the register's bitfields.
func (r *Register) AddField(f *field.Field) {
	component.AddChild(r, f)
}

// Undefine overrides the default: a register's name itself carries no
// runtime value to undefine at the end of a header, only its fields do.
func (r *Register) Undefine() bool { return false }

// DefinedValue returns ("", false): a register's alias guards its own
// declaration but assigns no #define value.
func (r *Register) DefinedValue() (string, bool) { return "", false }

// Equal reports whether other is a Register whose field set matches
// exactly: every field in r has an equal counterpart in other and vice
// versa.
func (r *Register) Equal(other component.Node) bool {
	o, ok := other.(*Register)
	if !ok {
		return false
	}
	for _, f := range r.Fields() {
		if !containsEqualField(o.Fields(), f) {
			return false
		}
	}
	for _, f := range o.Fields() {
		if !containsEqualField(r.Fields(), f) {
			return false
		}
	}
	return true
}

func containsEqualField(fields []*field.Field, target *field.Field) bool {
	for _, f := range fields {
		if f.Equal(target) {
			return true
		}
	}
	return false
}

// varTokenPattern matches the original's "([nxyz\d]+)" run of digits or
// n/x/y/z wildcard letters, the part of a register name that varies
// across chip variants (e.g. the "1" in "USART1").
var varTokenPattern = regexp.MustCompile(`[nxyz\d]+`)

// MergeNames decides the merged name for two register names that
// describe the same register under different per-chip spellings.
//
// If one name is a prefix of the other, the shorter wins outright.
// Otherwise both names are split on their varying [nxyz0-9]+ run; if the
// non-varying parts match, the varying run is collapsed to "x" (the
// wildcard digit marker). If the names differ outside their varying run
// too, MergeNames looks for a common literal prefix and suffix and
// splices a single "x" filler between them, as long as the filler is
// short and the names are the same length. When no such reconciliation
// exists, ok is false and the caller must decide its own fallback.
func MergeNames(name1, name2 string) (merged string, ok bool) {
	if len(name1) > len(name2) {
		name1, name2 = name2, name1
	}
	if strings.HasPrefix(name2, name1) {
		return name1, true
	}

	tokens1 := splitVarying(name1)
	tokens2 := splitVarying(name2)
	noDigit1 := stripVarying(tokens1)
	noDigit2 := stripVarying(tokens2)

	if noDigit1 == noDigit2 {
		if len(tokens1) >= 3 && len(tokens2) >= 3 {
			if tokens1[0]+strings.Join(tokens1[2:], "") == tokens2[0]+strings.Join(tokens2[2:], "") {
				return tokens1[0] + "x" + strings.Join(tokens1[2:], ""), true
			}
			if tokens2[0]+strings.Join(tokens2[2:], "") == name1 {
				return name1, true
			}
			if joinAllButLastTwo(tokens1)+lastOf(tokens1) == joinAllButLastTwo(tokens2)+lastOf(tokens2) {
				return joinAllButLastTwo(tokens1) + "x" + lastOf(tokens1), true
			}
			if joinAllButLastTwo(tokens2)+lastOf(tokens2) == name1 {
				return name1, true
			}
		}
		return noDigit1, true
	}

	suffix := name1
	for len(suffix) > 0 && (suffix[0] == '_' || !strings.HasSuffix(name2, suffix)) {
		suffix = suffix[1:]
	}
	prefix := name1
	for len(prefix) > 0 && (prefix[len(prefix)-1] == '_' || !strings.HasPrefix(name2, prefix)) {
		prefix = prefix[:len(prefix)-1]
	}

	fillerLength := 0
	if len(prefix) > 0 && len(suffix) > 0 {
		fillerLength = len(name1) - len(prefix) - len(suffix)
	}

	if (fillerLength > 0 && absInt(len(name1)-len(name2)) > 0) ||
		fillerLength > 2 ||
		(len(prefix)+len(suffix)) < 2 {
		return "", false
	}
	return prefix + "x" + suffix, true
}

func splitVarying(name string) []string {
	loc := varTokenPattern.FindStringIndex(name)
	if loc == nil {
		return []string{name}
	}
	return []string{name[:loc[0]], name[loc[0]:loc[1]], name[loc[1]:]}
}

func stripVarying(tokens []string) string {
	var b strings.Builder
	for _, t := range tokens {
		if varTokenPattern.MatchString(t) && varTokenPattern.FindString(t) == t {
			b.WriteString("x")
		} else {
			b.WriteString(t)
		}
	}
	return b.String()
}

func joinAllButLastTwo(tokens []string) string {
	if len(tokens) <= 2 {
		return ""
	}
	return strings.Join(tokens[:len(tokens)-2], "")
}

func lastOf(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// renameSubstitutions is the fixed x -> y -> z -> n search order used
// when a merged name is already taken by a sibling register. It is
// preserved verbatim; no new substitution strategy is invented.
var renameSubstitutions = []struct{ from, to byte }{
	{'x', 'y'},
	{'y', 'z'},
	{'z', 'n'},
}

// Absorb merges other into r: children (fields) are absorbed via the
// shared component algorithm, then the register's own name is
// reconciled if the two differ. If the merged candidate collides with
// a sibling register's name, Absorb searches x -> y -> z -> n
// substitutions of the varying character for a free name; if every slot
// is already taken it returns an UnresolvableRenameError, leaving r
// unrenamed.
func (r *Register) Absorb(other *Register) error {
	if err := component.Absorb(r, other); err != nil {
		return err
	}

	if r.Name() == other.Name() {
		return nil
	}

	newName, ok := MergeNames(r.Name(), other.Name())
	if !ok {
		newName = r.Name()
	}

	for newName != r.Name() && newName != other.Name() && siblingNameTaken(r, newName) {
		substituted := false
		for _, sub := range renameSubstitutions {
			if strings.IndexByte(newName, sub.from) >= 0 {
				newName = strings.ReplaceAll(newName, string(sub.from), string(sub.to))
				substituted = true
				break
			}
		}
		if !substituted {
			return engineerr.NewUnresolvableRenameError(r.Name(), other.Name(), newName)
		}
	}
	r.SetName(r, newName)
	return nil
}

// SetName renames r, invalidating it (and its ancestors) if the name
// actually changes.
func (r *Register) SetName(n component.Node, name string) {
	r.Base.SetName(n, name)
}

// AbsorbNode implements component.NodeAbsorber: two registers matched as
// Equal children (same field set, possibly different names) go through
// Register.Absorb rather than the generic field-by-field recursion, so
// the name-reconciliation algorithm actually runs wherever the merge
// engine folds duplicate registers together.
func (r *Register) AbsorbNode(other component.Node) error {
	o, ok := other.(*Register)
	if !ok {
		return component.Absorb(r, other)
	}
	return r.Absorb(o)
}

func siblingNameTaken(r *Register, name string) bool {
	parent := r.Core().Parent()
	if parent == nil {
		return false
	}
	for _, sibling := range parent.Core().Children() {
		if sibling == component.Node(r) {
			continue
		}
		if reg, ok := sibling.(*Register); ok && reg.Name() == name {
			return true
		}
	}
	return false
}

// Declare renders the register's C++ wrapper struct: a thin struct
// inheriting the backing integer type, with one bitfield member per
// Field.
func (r *Register) Declare(indent string) string {
	backingType := r.Type
	if backingType == "" {
		backingType = fmt.Sprintf("Reg%d_t", r.size)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%sstruct %s_t: public %s /// %s\n", indent, r.Name(), backingType, r.Brief())
	fmt.Fprintf(&b, "%s{\n", indent)
	fmt.Fprintf(&b, "%s\tusing %s::operator=;\n", indent, backingType)
	typeWidth := 32
	if r.size <= 32 {
		typeWidth = r.size
		if typeWidth == 0 {
			typeWidth = 32
		}
	} else {
		typeWidth = 64
	}
	for _, f := range r.Fields() {
		b.WriteString(f.Declare(indent+"\t", typeWidth))
	}
	fmt.Fprintf(&b, "%s};\n", indent)
	return b.String()
}
