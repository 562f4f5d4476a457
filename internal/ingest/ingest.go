// Package ingest defines the seams external collaborators plug into:
// retrieving a vendor pack, traversing its PDSC/SVD/CMSIS-header content,
// and the DTOs that traversal yields. Concrete PDSC/SVD/header parsing and
// pack retrieval are explicitly out of scope for this module — only the
// interfaces and the data shapes crossing them live here, plus
// fixture-backed fakes so the merge engine's tests do not need real XML.
package ingest

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "context"

// ChipEntry is one row a PDSC traversal yields: a chip variant together
// with the SVD/header pair it should be merged from. Processor and
// ProcessorDefine are set only for multi-core parts where one SVD
// describes several cores.
type ChipEntry struct {
	Define          string
	Processor       string
	ProcessorDefine string
	SVDPath         string
	HeaderPath      string
}

// PDSCSource traverses one family's PDSC file, yielding one ChipEntry per
// chip variant it declares. Implementations drop incomplete tuples (a
// chip missing an SVD or header path) themselves and report that as a
// warning through the context supplied to Chips — this package only
// defines the seam.
type PDSCSource interface {
	// Chips streams the family's chip entries. The returned channel is
	// closed when traversal completes or ctx is cancelled; a non-nil
	// error is only returned for a failure that aborts the whole
	// traversal (a malformed PDSC document), not for a single dropped
	// entry.
	Chips(ctx context.Context) (<-chan ChipEntry, error)
}

// SVDField is one bitfield of an SVDRegister.
type SVDField struct {
	Name      string
	Brief     string
	BitOffset int
	BitWidth  int
}

// SVDRegister is one register of an SVDPeripheral.
type SVDRegister struct {
	Name          string
	DisplayName   string
	Brief         string
	AddressOffset int
	SizeBits      int
	Access        string
	Fields        []SVDField
}

// SVDPeripheral is one peripheral block of an SVD document. GroupName
// mirrors the SVD schema's own <groupName> element, the vendor-assigned
// peripheral family (e.g. "GPIO", "USART") that output headers are
// grouped by; it falls back to Name when a source leaves it blank.
type SVDPeripheral struct {
	Name      string
	GroupName string
	Brief     string
	BaseAddr  int
	Registers []SVDRegister
}

// SVDSource traverses one SVD file, yielding its peripherals.
type SVDSource interface {
	// Peripherals streams the SVD's peripheral blocks for the chip this
	// source was opened for.
	Peripherals(ctx context.Context) (<-chan SVDPeripheral, error)
}

// CMSISRegisterEntry is one row of a CMSIS header's per-peripheral
// register table.
type CMSISRegisterEntry struct {
	FieldName string
	CType     string
	ArraySize int
}

// CMSISHeaderSource exposes the two lookup tables a vendor CMSIS C header
// contributes: per-peripheral register shape (used by internal/cmsis) and
// the interrupt-name-to-number table (used to emit IRQn.h).
type CMSISHeaderSource interface {
	// PeripheralRegisters returns the expected register table for the
	// named peripheral, or ok=false if the header has no entry for it.
	PeripheralRegisters(peripheralName string) (entries []CMSISRegisterEntry, ok bool)

	// Interrupts returns the header's full interrupt-name-to-number
	// table.
	Interrupts() map[string]int
}

// PackFailureKind distinguishes the ways pack retrieval can fail, so a
// driver can decide whether falling back to a pinned version is
// appropriate.
type PackFailureKind int

const (
	DownloadFailed PackFailureKind = iota
	VersionUnavailable
	InvalidArchive
)

// PackFailure reports why PackRetriever.Fetch could not produce a pack.
type PackFailure struct {
	Kind   PackFailureKind
	Detail string
}

func (e *PackFailure) Error() string {
	switch e.Kind {
	case DownloadFailed:
		return "pack download failed: " + e.Detail
	case VersionUnavailable:
		return "pack version unavailable: " + e.Detail
	case InvalidArchive:
		return "pack archive invalid: " + e.Detail
	default:
		return "pack retrieval failed: " + e.Detail
	}
}

// PackRetriever resolves a chip family (and optional pinned version) to a
// local directory containing the family's PDSC file and its .svd/.h tree.
// Download and archive extraction are themselves out of scope; only this
// seam is defined.
type PackRetriever interface {
	Fetch(ctx context.Context, family, version string) (localDir string, err error)
}
