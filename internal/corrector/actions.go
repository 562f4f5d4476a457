package corrector

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"strings"

	"periphgen/internal/component"
	"periphgen/internal/field"
	"periphgen/internal/peripheral"
	"periphgen/internal/register"
)

// Modify rewrites the name, brief and/or size of whatever component it is
// applied to. Any argument left as "" (name/brief) or 0 (size) leaves that
// attribute untouched.
func Modify(name, brief string, size int) Fn {
	return func(n component.Node) error {
		if name != "" {
			n.Core().SetName(n, name)
		}
		if brief != "" {
			n.Core().SetBrief(brief)
		}
		if size != 0 {
			switch v := n.(type) {
			case *register.Register:
				v.SetSize(size)
			case *field.Field:
				v.SetSize(size)
			}
		}
		return nil
	}
}

// RemovePrefix strips the component's name up to and including its first
// underscore, count times ("USART1_CR1" -> "CR1" for count=1).
func RemovePrefix(count int) Fn {
	return func(n component.Node) error {
		name := n.Core().Name()
		for i := 0; i < count; i++ {
			idx := strings.IndexByte(name, '_')
			if idx < 0 {
				break
			}
			name = name[idx+1:]
		}
		n.Core().SetName(n, name)
		return nil
	}
}

// RemovePeriphPrefix strips a peripheral's own name plus "_" from the
// front of each of its registers' names; instance names are left as they
// are. It does so only when the peripheral has no instance, or exactly one
// instance whose name equals the peripheral name (the instance is the
// peripheral); a peripheral with more than one instance, or with a single
// differently-named instance, is left unchanged.
func RemovePeriphPrefix() Fn {
	return func(n component.Node) error {
		p, ok := n.(*peripheral.Peripheral)
		if !ok {
			return nil
		}
		instances := p.Instances()
		if len(instances) > 1 {
			return nil
		}
		if len(instances) == 1 && instances[0].Name() != p.Name() {
			return nil
		}
		prefix := p.Name() + "_"
		for _, r := range p.Registers() {
			if strings.HasPrefix(r.Name(), prefix) {
				r.SetName(r, strings.TrimPrefix(r.Name(), prefix))
			}
		}
		return nil
	}
}

// CmsisRemoveRegPrefix strips a fixed CMSIS-style peripheral-instance
// prefix ("USART1->") from a register's name, used when cross-checking
// against a CMSIS header whose field names are always instance-qualified
// regardless of how many instances exist.
func CmsisRemoveRegPrefix(prefix string) Fn {
	return func(n component.Node) error {
		r, ok := n.(*register.Register)
		if !ok {
			return nil
		}
		r.SetName(r, strings.TrimPrefix(r.Name(), prefix))
		return nil
	}
}

// CloneField duplicates an existing field under a new name within the same
// register, typically used to expose one hardware bit under two
// historically-distinct aliases.
func CloneField(sourceName, newName string) Fn {
	return func(n component.Node) error {
		r, ok := n.(*register.Register)
		if !ok {
			return nil
		}
		for _, f := range r.Fields() {
			if f.Name() == sourceName {
				clone := field.New(newName, f.Brief(), f.Chips().Clone(), f.Position, f.Size())
				r.AddField(clone)
				return nil
			}
		}
		return nil
	}
}

// CreateArray wraps Mapping.CreateArrayForComponent as a corrector action,
// applied to a Peripheral: it collapses every mapping's arithmetic-
// progression placements of the named register into one array element.
func CreateArray(registerName, arrayName string, keepOriginals bool) Fn {
	return func(n component.Node) error {
		p, ok := n.(*peripheral.Peripheral)
		if !ok {
			return nil
		}
		var target component.Node
		for _, r := range p.Registers() {
			if r.Name() == registerName {
				target = r
				break
			}
		}
		if target == nil {
			return nil
		}
		for _, m := range p.Mappings() {
			m.CreateArrayForComponent(target, arrayName, keepOriginals)
		}
		return nil
	}
}

// combine runs multiple Fns in sequence, stopping at the first error.
func combine(fns ...Fn) Fn {
	return func(n component.Node) error {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(n); err != nil {
				return err
			}
		}
		return nil
	}
}
