package checkpoint

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	internalcheckpoint "periphgen/internal/checkpoint"
)

func TestValidateFlagsRequiresCheckpointDir(t *testing.T) {
	flagCheckpoint = ""
	flagStage = string(internalcheckpoint.PostMerge)
	require.Error(t, validateFlags(Cmd, nil))
}

func TestValidateFlagsRejectsUnknownStage(t *testing.T) {
	flagCheckpoint = "somewhere"
	flagStage = "NOT_A_STAGE"
	require.Error(t, validateFlags(Cmd, nil))
}

func TestValidateFlagsAcceptsKnownStage(t *testing.T) {
	flagCheckpoint = "somewhere"
	flagStage = string(internalcheckpoint.PostPDSC)
	require.NoError(t, validateFlags(Cmd, nil))
}

func TestRunCmdFallsBackToEarlierDumpedStage(t *testing.T) {
	dir := t.TempDir()
	mgr := internalcheckpoint.NewManager(dir)
	require.NoError(t, mgr.Save(internalcheckpoint.PostSVD, map[string]string{"ok": "true"}))

	flagCheckpoint = dir
	flagStage = string(internalcheckpoint.PostMerge)
	require.NoError(t, runCmd(Cmd, nil))

	_, err := os.Stat(filepath.Join(dir, string(internalcheckpoint.PostSVD)+".json"))
	require.NoError(t, err)
}

func TestRunCmdFailsWhenNothingCheckpointed(t *testing.T) {
	flagCheckpoint = t.TempDir()
	flagStage = string(internalcheckpoint.PostPDSC)
	require.Error(t, runCmd(Cmd, nil))
}
