// Package checkpoint is a subcommand of the root command. It inspects a
// checkpoint directory a merge run wrote to and reports which stage a
// resume would actually restart from.
package checkpoint

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"periphgen/internal/app"
	internalcheckpoint "periphgen/internal/checkpoint"
)

const cmdName = "checkpoint"

var examples = []string{
	fmt.Sprintf("  Inspect where a resume would restart from: $ %s %s --checkpoint .periphgen --stage POST_MERGE", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " --checkpoint <dir>",
	Short:         "Inspect a checkpoint directory's resume point",
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
)

func init() {
	Cmd.Flags().StringVar(&flagCheckpoint, app.FlagCheckpointName, "", "checkpoint directory to inspect (required)")
	Cmd.Flags().StringVar(&flagStage, app.FlagStageName, string(internalcheckpoint.PostAnalyze), "stage to resolve a resume point from")
}

var stageNames = []internalcheckpoint.Stage{
	internalcheckpoint.PostPDSC,
	internalcheckpoint.PostSVD,
	internalcheckpoint.PostMerge,
	internalcheckpoint.PostAnalyze,
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if flagCheckpoint == "" {
		return errors.Errorf("--%s is required", app.FlagCheckpointName)
	}
	for _, s := range stageNames {
		if string(s) == flagStage {
			return nil
		}
	}
	return errors.Errorf("--%s must be one of POST_PDSC, POST_SVD, POST_MERGE, POST_ANALYZE", app.FlagStageName)
}

func runCmd(cmd *cobra.Command, args []string) error {
	mgr := internalcheckpoint.NewManager(flagCheckpoint)
	stage, ok := mgr.Restore(internalcheckpoint.Stage(flagStage))
	if !ok {
		return errors.Errorf("no checkpoint at or before %s found in %s", flagStage, flagCheckpoint)
	}
	if stage == internalcheckpoint.Stage(flagStage) {
		fmt.Printf("%s is checkpointed; a resume would restart after it\n", stage)
	} else {
		fmt.Printf("%s is not checkpointed; a resume would fall back to %s\n", flagStage, stage)
	}
	return nil
}
