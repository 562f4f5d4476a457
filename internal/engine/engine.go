// Package engine orchestrates the merge engine's top-level phases: PDSC
// ingest, per-SVD parse (fanned out via internal/workerpool), the
// single-threaded merge into a tree of Groups with fixpoint correction,
// and the CMSIS cross-check. It is the seam a CLI driver calls into once it has
// concrete ingest.PDSCSource/SVDSource/CMSISHeaderSource implementations
// to hand it; this package itself never parses XML.
package engine

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pkg/errors"

	"periphgen/internal/chip"
	"periphgen/internal/chipset"
	"periphgen/internal/cmsis"
	"periphgen/internal/config"
	"periphgen/internal/corrector"
	"periphgen/internal/engineerr"
	"periphgen/internal/field"
	"periphgen/internal/fixpoint"
	"periphgen/internal/group"
	"periphgen/internal/ingest"
	"periphgen/internal/irqtable"
	"periphgen/internal/mapping"
	"periphgen/internal/peripheral"
	"periphgen/internal/register"
	"periphgen/internal/telemetry"
	"periphgen/internal/workerpool"
)

// Sources bundles the ingest seams a concrete driver wires in. OpenSVD
// and OpenCMSIS are factories rather than single values because each
// chip entry the PDSCSource yields names its own SVD and header path.
type Sources struct {
	PDSC      ingest.PDSCSource
	OpenSVD   func(ctx context.Context, entry ingest.ChipEntry) (ingest.SVDSource, error)
	OpenCMSIS func(entry ingest.ChipEntry) (ingest.CMSISHeaderSource, error)
}

// Result is the merge engine's output: the merged Groups, ready for
// internal/printer, internal/sqlout and internal/xlsxreport, plus every
// structural warning raised along the way.
type Result struct {
	Groups    []*group.Group
	Warnings  []*engineerr.StructuralWarning
	Reference *chipset.Set
	IRQs      *irqtable.Table
	Chips     []chip.Chip
}

type svdDraft struct {
	Chip        chip.Chip
	Peripherals []ingest.SVDPeripheral
	CMSIS       ingest.CMSISHeaderSource
}

// Run executes the full pipeline for one family: ingest chip entries
// matching cfg's filters, parse their SVDs concurrently through pool,
// then merge and fixpoint-correct, and finally cross-check the result,
// sequentially (the merge core is single-threaded by design). tel may be nil to skip
// telemetry.
func Run(ctx context.Context, cfg config.Config, root *corrector.Corrector, src Sources, pool *workerpool.Pool, tel *telemetry.Metrics) (*Result, error) {
	entries, err := ingestChips(ctx, cfg, src, tel)
	if err != nil {
		return nil, errors.Wrap(err, "PDSC ingest")
	}

	var drafts []svdDraft
	parse := func() error {
		results, err := workerpool.Run(ctx, pool, entries, func(ctx context.Context, entry ingest.ChipEntry) (svdDraft, error) {
			return parseEntry(ctx, src, entry)
		})
		if err != nil {
			return err
		}
		drafts = results
		return nil
	}
	if tel != nil {
		err = tel.ObservePhase("svd_parse", parse)
	} else {
		err = parse()
	}
	if err != nil {
		return nil, errors.Wrap(err, "SVD parse")
	}

	var result Result
	mergeFn := func() error {
		result.Groups = mergeDrafts(drafts, root, cfg, tel)
		return nil
	}
	if tel != nil {
		err = tel.ObservePhase("merge", mergeFn)
	} else {
		err = mergeFn()
	}
	if err != nil {
		return nil, errors.Wrap(err, "merge")
	}

	checkFn := func() error {
		result.Warnings = crossCheck(drafts, result.Groups, tel)
		return nil
	}
	if tel != nil {
		err = tel.ObservePhase("cmsis_check", checkFn)
	} else {
		err = checkFn()
	}
	if err != nil {
		return nil, errors.Wrap(err, "CMSIS cross-check")
	}

	registry := chipset.NewRegistry()
	table := irqtable.New()
	for _, draft := range drafts {
		registry.Observe(draft.Chip)
		result.Chips = append(result.Chips, draft.Chip)
		if draft.CMSIS != nil {
			table.Observe(draft.Chip, draft.CMSIS.Interrupts())
		}
	}
	result.Reference = registry.Reference()
	result.IRQs = table

	return &result, nil
}

func ingestChips(ctx context.Context, cfg config.Config, src Sources, tel *telemetry.Metrics) ([]ingest.ChipEntry, error) {
	var entries []ingest.ChipEntry
	collect := func() error {
		ch, err := src.PDSC.Chips(ctx)
		if err != nil {
			return err
		}
		for entry := range ch {
			if cfg.MatchesChip(entry.Define) {
				entries = append(entries, entry)
			}
		}
		return ctx.Err()
	}
	var err error
	if tel != nil {
		err = tel.ObservePhase("pdsc_ingest", collect)
	} else {
		err = collect()
	}
	return entries, err
}

func parseEntry(ctx context.Context, src Sources, entry ingest.ChipEntry) (svdDraft, error) {
	c := chip.New(entry.Define, entry.SVDPath, entry.HeaderPath)
	if entry.Processor != "" {
		c = c.WithProcessor(entry.Processor, entry.ProcessorDefine)
	}

	svdSource, err := src.OpenSVD(ctx, entry)
	if err != nil {
		return svdDraft{}, errors.Wrapf(err, "opening SVD source for %s", entry.Define)
	}
	peripheralsCh, err := svdSource.Peripherals(ctx)
	if err != nil {
		return svdDraft{}, errors.Wrapf(err, "reading SVD peripherals for %s", entry.Define)
	}
	var peripherals []ingest.SVDPeripheral
	for p := range peripheralsCh {
		peripherals = append(peripherals, p)
	}

	var cmsisSource ingest.CMSISHeaderSource
	if src.OpenCMSIS != nil {
		cmsisSource, err = src.OpenCMSIS(entry)
		if err != nil {
			return svdDraft{}, errors.Wrapf(err, "opening CMSIS header for %s", entry.Define)
		}
	}

	return svdDraft{Chip: c, Peripherals: peripherals, CMSIS: cmsisSource}, nil
}

// mergeDrafts folds every chip's parsed peripherals into a shared set of
// Groups (keyed by SVD group name), then runs the fixpoint corrector over
// each peripheral of each resulting group.
func mergeDrafts(drafts []svdDraft, root *corrector.Corrector, cfg config.Config, tel *telemetry.Metrics) []*group.Group {
	groups := make(map[string]*group.Group)
	var order []string

	for _, draft := range drafts {
		chips := chipset.New(draft.Chip)
		for _, svdPeriph := range draft.Peripherals {
			groupName := svdPeriph.GroupName
			if groupName == "" {
				groupName = svdPeriph.Name
			}
			if !cfg.MatchesGroup(groupName) {
				continue
			}

			g, ok := groups[groupName]
			if !ok {
				g = group.New(groupName, chips)
				groups[groupName] = g
				order = append(order, groupName)
			}

			p := buildPeripheral(svdPeriph, chips, tel)
			if err := g.AddPeripheral(p); err != nil {
				slog.Error("peripheral merge failed", slog.String("group", groupName), slog.String("peripheral", p.Name()), slog.String("error", err.Error()))
			}
		}
	}

	iterCap := cfg.FixpointCap
	if iterCap <= 0 {
		iterCap = fixpoint.DefaultMaxIterations
	}

	sort.Strings(order)
	result := make([]*group.Group, 0, len(order))
	for _, name := range order {
		g := groups[name]
		if root != nil {
			// BaseRoot's top-level keys are peripheral-name globs
			// ("GPIO*", "USART*", ...), so the fixpoint loop has to start
			// at each Peripheral, not at the Group that holds them.
			for _, p := range g.Peripherals() {
				if err := fixpoint.ApplyWithCap(p, root, iterCap); err != nil {
					slog.Error("fixpoint did not converge", slog.String("group", name), slog.String("peripheral", p.Name()), slog.String("error", err.Error()))
				}
			}
		}
		result = append(result, g)
	}
	return result
}

func buildPeripheral(svdPeriph ingest.SVDPeripheral, chips *chipset.Set, tel *telemetry.Metrics) *peripheral.Peripheral {
	p := peripheral.New(svdPeriph.Name, svdPeriph.Brief, chips)
	countMerged(tel, "peripheral")

	for _, svdReg := range svdPeriph.Registers {
		access, err := register.AccessTypeFromString(svdReg.Access)
		if err != nil {
			access = register.ReadWrite
		}
		size := svdReg.SizeBits
		if size == 0 {
			size = register.DefaultSize
		}
		r := register.New(svdReg.Name, svdReg.Brief, chips, size, access)
		countMerged(tel, "register")

		for _, svdField := range svdReg.Fields {
			f := field.New(svdField.Name, svdField.Brief, chips, svdField.BitOffset, svdField.BitWidth)
			r.AddField(f)
			countMerged(tel, "field")
		}

		p.AddRegister(r)
		p.AddPlacement(mapping.NewElement(r.Name(), chips, r, svdReg.AddressOffset))
	}

	return p
}

func countMerged(tel *telemetry.Metrics, kind string) {
	if tel != nil {
		tel.ComponentsMerged.WithLabelValues(kind).Inc()
	}
}

func crossCheck(drafts []svdDraft, groups []*group.Group, tel *telemetry.Metrics) []*engineerr.StructuralWarning {
	var warnings []*engineerr.StructuralWarning

	peripheralsByName := make(map[string]*peripheral.Peripheral)
	for _, g := range groups {
		for _, p := range g.Peripherals() {
			peripheralsByName[p.Name()] = p
		}
	}

	for _, draft := range drafts {
		if draft.CMSIS == nil {
			continue
		}
		for _, svdPeriph := range draft.Peripherals {
			p, ok := peripheralsByName[svdPeriph.Name]
			if !ok {
				continue
			}
			entries, ok := draft.CMSIS.PeripheralRegisters(svdPeriph.Name)
			if !ok {
				continue
			}
			headerPeripheral := toHeaderPeripheral(svdPeriph.Name, entries)
			for _, w := range cmsis.CheckPeripheral(p, headerPeripheral) {
				warnings = append(warnings, w)
				slog.Warn("structural warning", slog.String("component", w.Component), slog.String("detail", w.Detail))
				if tel != nil {
					tel.Warnings.WithLabelValues("cmsis_mismatch").Inc()
				}
			}
		}
	}
	return warnings
}

func toHeaderPeripheral(name string, entries []ingest.CMSISRegisterEntry) cmsis.HeaderPeripheral {
	regs := make([]cmsis.HeaderRegister, 0, len(entries))
	for _, e := range entries {
		regs = append(regs, cmsis.HeaderRegister{Name: e.FieldName, Type: e.CType, ArraySize: e.ArraySize})
	}
	return cmsis.HeaderPeripheral{Name: name, Registers: regs}
}
