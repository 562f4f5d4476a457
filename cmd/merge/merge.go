// Package merge is a subcommand of the root command. It runs the merge
// engine for one chip family: PDSC ingest, per-SVD parse, merge and
// fixpoint correction, and the CMSIS cross-check.
package merge

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"periphgen/internal/app"
	"periphgen/internal/checkpoint"
	"periphgen/internal/config"
	"periphgen/internal/corrector"
	"periphgen/internal/engine"
	"periphgen/internal/manifest"
	"periphgen/internal/printer"
	"periphgen/internal/progress"
	"periphgen/internal/sysheader"
	"periphgen/internal/telemetry"
	"periphgen/internal/workerpool"
)

const cmdName = "merge"

var examples = []string{
	fmt.Sprintf("  Merge a chip family:                       $ %s %s --family STM32F4", app.Name, cmdName),
	fmt.Sprintf("  Merge only the groups matching a pattern:  $ %s %s --family STM32F4 --groups 'GPIO*,USART*'", app.Name, cmdName),
	fmt.Sprintf("  Checkpoint the merged tree for later report: $ %s %s --family STM32F4 --checkpoint .periphgen", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " --family <name>",
	Short:         "Merge a chip family's PDSC/SVD sources into a unified component tree",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagFamily      string
	flagGroups      []string
	flagChips       []string
	flagCheckpoint  string
	flagMetricsAddr string
)

func init() {
	Cmd.Flags().StringVar(&flagFamily, app.FlagFamilyName, "", "chip family to merge (required)")
	Cmd.Flags().StringSliceVar(&flagGroups, app.FlagGroupName, nil, "restrict output to groups matching these glob patterns")
	Cmd.Flags().StringSliceVar(&flagChips, app.FlagChipName, nil, "restrict merge input to chips matching these glob patterns")
	Cmd.Flags().StringVar(&flagCheckpoint, app.FlagCheckpointName, "", "directory to checkpoint the merged tree to")
	Cmd.Flags().StringVar(&flagMetricsAddr, app.FlagMetricsAddr, "", "address to serve Prometheus metrics on, e.g. :9090 (disabled if empty)")
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if flagFamily == "" {
		return errors.Errorf("--%s is required", app.FlagFamilyName)
	}
	return nil
}

// SourceFactory resolves a chip family name to the ingest sources a merge
// run reads from. Concrete PDSC/SVD/CMSIS-header retrieval and parsing
// are out of scope for this module; a real driver replaces this with one
// backed by a vendor pack on disk. The default implementation reports
// that plainly rather than fabricating a fixture-backed result.
var SourceFactory = func(ctx context.Context, family string) (engine.Sources, error) {
	return engine.Sources{}, errors.Errorf("no ingest.PDSCSource wired for family %q: parsing PDSC/SVD/CMSIS sources is out of scope for this module, plug in merge.SourceFactory", family)
}

func runCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Parent().Context()
	appContext := ctx.Value(app.Context{}).(app.Context)

	cfg := config.Default()
	if appContext.ConfigPath != "" {
		var err error
		cfg, err = config.Load(appContext.ConfigPath)
		if err != nil {
			return errors.Wrapf(err, "loading configuration %s", appContext.ConfigPath)
		}
	}
	if len(flagGroups) > 0 {
		cfg.GroupFilter = flagGroups
	}
	if len(flagChips) > 0 {
		cfg.ChipsFilter = flagChips
	}

	tel := telemetry.New()
	if flagMetricsAddr != "" {
		go func() {
			if err := tel.Serve(ctx, flagMetricsAddr); err != nil {
				slog.Error("metrics server stopped", slog.String("error", err.Error()))
			}
		}()
	}

	src, err := SourceFactory(ctx, flagFamily)
	if err != nil {
		return err
	}

	spinner := progress.NewMergeSpinner()
	spinner.Start()
	for _, phase := range progress.MergePhases {
		_ = spinner.Status(phase, "running")
	}

	pool := workerpool.New(cfg.Jobs)
	result, err := engine.Run(ctx, cfg, corrector.BaseRoot(), src, pool, tel)
	finalStatus := "done"
	if err != nil {
		finalStatus = "failed"
	}
	for _, phase := range progress.MergePhases {
		_ = spinner.Status(phase, finalStatus)
	}
	spinner.Finish()
	if err != nil {
		return errors.Wrap(err, "merge run failed")
	}

	slog.Info("merge complete",
		slog.String("family", flagFamily),
		slog.Int("groups", len(result.Groups)),
		slog.Int("warnings", len(result.Warnings)),
	)
	for _, w := range result.Warnings {
		slog.Warn("structural warning", slog.String("component", w.Component), slog.String("detail", w.Detail))
	}

	if err := writeOutputs(appContext, flagFamily, result); err != nil {
		return errors.Wrap(err, "writing merge output")
	}

	if flagCheckpoint != "" {
		mgr := checkpoint.NewManager(flagCheckpoint)
		if err := mgr.Save(checkpoint.PostMerge, engine.NewSnapshot(result)); err != nil {
			return errors.Wrapf(err, "checkpointing merge result to %s", flagCheckpoint)
		}
		slog.Info("checkpoint saved", slog.String("stage", string(checkpoint.PostMerge)), slog.String("dir", flagCheckpoint))
	}

	return nil
}

// writeOutputs renders and writes every named output this module
// produces for one merge run to ctx.OutputDir: one <GROUP>_struct.h per
// merged group, IRQn.h, the chip-setup and CMSIS config dispatch
// headers, and the SHA-1-pinned build manifest.
func writeOutputs(ctx app.Context, family string, result *engine.Result) error {
	if err := os.MkdirAll(ctx.OutputDir, 0755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", ctx.OutputDir)
	}

	var groupNames []string
	for _, g := range result.Groups {
		groupNames = append(groupNames, g.Name())
		content := printer.DeclareGroup(g, result.Reference)
		path := filepath.Join(ctx.OutputDir, g.HeaderName())
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	slog.Info("struct headers written", slog.Int("count", len(result.Groups)), slog.String("dir", ctx.OutputDir))

	irqPath := filepath.Join(ctx.OutputDir, "IRQn.h")
	if err := os.WriteFile(irqPath, []byte(result.IRQs.Render(result.Reference)), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", irqPath)
	}

	setupPath := filepath.Join(ctx.OutputDir, "sool_chip_setup.h")
	if err := os.WriteFile(setupPath, []byte(sysheader.ChipSetup(result.Chips)), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", setupPath)
	}

	cmsisConfigPath := filepath.Join(ctx.OutputDir, "cmsis_config.h")
	if err := os.WriteFile(cmsisConfigPath, []byte(sysheader.CMSISConfig(result.Chips)), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", cmsisConfigPath)
	}

	manifestBytes, err := manifest.Build(gitCommitSHA(), time.Now().Local().Format(time.RFC3339), os.Args[1:],
		[]manifest.FamilyVersion{{Family: family}}, groupNames, result.Chips)
	if err != nil {
		return errors.Wrap(err, "rendering build manifest")
	}
	manifestPath := filepath.Join(ctx.OutputDir, "manifest.xml")
	if err := os.WriteFile(manifestPath, manifestBytes, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", manifestPath)
	}

	return nil
}

// gitCommitSHA returns the repository's current commit, or 40 zeroes if
// none can be resolved (not a repository, git unavailable): the same
// fallback the original manifest tool uses.
func gitCommitSHA() string {
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return strings.Repeat("0", 40)
	}
	return strings.TrimSpace(string(out))
}
