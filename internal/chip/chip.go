// Package chip models a single target hardware variant: the preprocessor
// define that selects it, the SVD/header pair that describes it, and the
// family prefix rule used to collapse guard expressions.
package chip

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// Chip is an immutable record identifying one chip variant.
//
// Equality and hashing are by (Define, Header, SVD, Processor), matching
// the original SooL Chip.__eq__/__hash__.
type Chip struct {
	Define         string
	Processor      string // optional processor sub-identifier, e.g. "CM4", "CM7"
	ProcessorDefine string
	SVDPath        string
	HeaderPath     string
}

// New builds a Chip, normalizing define casing and path separators the way
// Chip.normalize() does in the original implementation.
func New(define, svdPath, headerPath string) Chip {
	return Chip{
		Define:     normalizeDefine(define),
		SVDPath:    filepathSlashes(svdPath),
		HeaderPath: filepathSlashes(headerPath),
	}
}

// WithProcessor returns a copy of the chip tagged with a processor
// sub-identifier (e.g. a dual-core part's CM4/CM7 split).
func (c Chip) WithProcessor(processor, processorDefine string) Chip {
	c.Processor = processor
	c.ProcessorDefine = processorDefine
	return c
}

func normalizeDefine(define string) string {
	// The original also lowercases stray 'x' wildcard characters after
	// upper-casing everything else; 'x' is the SVD wildcard digit marker
	// (e.g. STM32F401xE) and must survive case folding untouched.
	d := upper.String(define)
	return strings.ReplaceAll(d, "X", "x")
}

func filepathSlashes(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// IsComplete reports whether the chip has enough information to participate
// in a merge: a define, a header, and an SVD.
func (c Chip) IsComplete() bool {
	return c.Define != "" && c.HeaderPath != "" && c.SVDPath != ""
}

// ComputedDefine is the define used in generated guard expressions:
// Define, optionally suffixed with "_"+ProcessorDefine.
func (c Chip) ComputedDefine() string {
	if c.ProcessorDefine == "" {
		return c.Define
	}
	return fmt.Sprintf("%s_%s", c.Define, c.ProcessorDefine)
}

// Name is an alias for ComputedDefine, matching the original's Chip.name property.
func (c Chip) Name() string {
	return c.ComputedDefine()
}

// Key is the tuple identity used for equality/hashing: (Define, Header, SVD, Processor).
type Key struct {
	Define, Header, SVD, Processor string
}

// Key returns the equality/hash key for the chip.
func (c Chip) Key() Key {
	return Key{Define: c.Define, Header: c.HeaderPath, SVD: c.SVDPath, Processor: c.Processor}
}

// Family returns the family prefix for a chip name: the first 7 characters,
// or the first 8 for the "STM32MP" sub-family, per spec.md §3.1.
func Family(name string) string {
	if len(name) >= 7 && strings.HasPrefix(strings.ToUpper(name), "STM32MP") {
		if len(name) >= 8 {
			return strings.ToUpper(name[:8])
		}
		return strings.ToUpper(name)
	}
	if len(name) < 7 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(name[:7])
}

// Family returns the family prefix for this chip's computed name.
func (c Chip) Family() string {
	return Family(c.Name())
}

func (c Chip) String() string {
	return c.Name()
}
