// Package report is a subcommand of the root command. It renders the
// Excel summary workbook (and, optionally, a relational SQLite dump) for
// a merge run previously checkpointed by `merge --checkpoint`.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"periphgen/internal/app"
	"periphgen/internal/checkpoint"
	"periphgen/internal/engine"
	"periphgen/internal/sqlout"
	"periphgen/internal/xlsxreport"
)

const cmdName = "report"

var examples = []string{
	fmt.Sprintf("  Render the summary workbook for a completed merge: $ %s %s --checkpoint .periphgen --output summary.xlsx", app.Name, cmdName),
	fmt.Sprintf("  Also dump the merged tree to SQLite:               $ %s %s --checkpoint .periphgen --output summary.xlsx --sql summary.db", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " --checkpoint <dir>",
	Short:         "Render a report from a checkpointed merge result",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagCheckpoint string
	flagStage      string
	flagOutput     string
	flagSQL        string
)

func init() {
	Cmd.Flags().StringVar(&flagCheckpoint, app.FlagCheckpointName, "", "checkpoint directory to read the merge result from (required)")
	Cmd.Flags().StringVar(&flagStage, app.FlagStageName, string(checkpoint.PostMerge), "checkpoint stage to read")
	Cmd.Flags().StringVar(&flagOutput, "output", "report.xlsx", "path to write the summary workbook to")
	Cmd.Flags().StringVar(&flagSQL, "sql", "", "path to also write a relational SQLite dump to (skipped if empty)")
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if flagCheckpoint == "" {
		return errors.Errorf("--%s is required", app.FlagCheckpointName)
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	mgr := checkpoint.NewManager(flagCheckpoint)

	var snapshot engine.Snapshot
	if err := mgr.Load(checkpoint.Stage(flagStage), &snapshot); err != nil {
		return errors.Wrapf(err, "loading checkpoint %s from %s", flagStage, flagCheckpoint)
	}
	groups, err := snapshot.Rebuild()
	if err != nil {
		return errors.Wrap(err, "rebuilding merge result")
	}
	warnings := snapshot.StructuralWarnings()

	wb, err := xlsxreport.New()
	if err != nil {
		return errors.Wrap(err, "building report workbook")
	}
	if err := wb.WriteGroups(groups); err != nil {
		return errors.Wrap(err, "writing summary sheet")
	}
	if err := wb.WriteWarnings(warnings); err != nil {
		return errors.Wrap(err, "writing warnings sheet")
	}
	if err := wb.Save(flagOutput); err != nil {
		return errors.Wrapf(err, "saving report workbook to %s", flagOutput)
	}
	slog.Info("report written", slog.String("path", flagOutput), slog.Int("groups", len(groups)))

	if flagSQL != "" {
		db, err := sqlout.Open(flagSQL)
		if err != nil {
			return errors.Wrapf(err, "opening SQLite database %s", flagSQL)
		}
		defer db.Close()
		if err := sqlout.Dump(db, groups); err != nil {
			return errors.Wrapf(err, "dumping merge result to %s", flagSQL)
		}
		slog.Info("SQL dump written", slog.String("path", flagSQL))
	}

	return nil
}
