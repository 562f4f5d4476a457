// Package config loads the YAML-driven run configuration: which groups
// and chips to include, per-family update/upgrade requests, output
// layout, and the handful of generation-wide switches the original
// exposed as command-line flags.
package config

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"sort"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v2"
)

// Config is the merge engine's run configuration.
type Config struct {
	// GroupFilter, if non-empty, restricts emitted output to groups
	// whose name matches one of these glob patterns.
	GroupFilter []string `yaml:"group_filter"`
	// ChipsFilter, if non-empty, restricts merge input to chips whose
	// define matches one of these glob patterns.
	ChipsFilter []string `yaml:"chips_filter"`
	// ChipsExclude drops chips matching these glob patterns even if
	// ChipsFilter would otherwise keep them.
	ChipsExclude []string `yaml:"chips_exclude"`

	FamilyUpdateRequest  []string `yaml:"family_update_request"`
	FamilyUpgradeRequest []string `yaml:"family_upgrade_request"`

	PhysicalMapping bool `yaml:"physical_mapping"`
	BigEndian       bool `yaml:"big_endian"`
	GenerateRCCF    bool `yaml:"generate_rccf"`
	DumpSQL         bool `yaml:"dump_sql"`

	Jobs int `yaml:"jobs"`

	OutputDir   string `yaml:"output_dir"`
	FixpointCap int    `yaml:"fixpoint_cap"`

	CheckpointRestorePoint string `yaml:"checkpoint_restore_point"`
}

// Default returns the configuration used when no file is supplied:
// physical mapping on, little-endian, single-threaded, default 100
// fixpoint iterations.
func Default() Config {
	return Config{
		PhysicalMapping: true,
		Jobs:            1,
		OutputDir:       "out",
		FixpointCap:     100,
	}
}

// Load parses a YAML configuration file, starting from Default so fields
// the file omits keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// HasGroupFilter reports whether the configuration restricts which
// groups are emitted.
func (c Config) HasGroupFilter() bool { return len(c.GroupFilter) > 0 }

// HasChipFilter reports whether the configuration restricts which chips
// participate in merge.
func (c Config) HasChipFilter() bool { return len(c.ChipsFilter) > 0 }

// NeedsUpdate reports whether any family update or upgrade was
// requested.
func (c Config) NeedsUpdate() bool {
	return len(c.FamilyUpdateRequest) > 0 || len(c.FamilyUpgradeRequest) > 0
}

// UpdateList returns the deduplicated, sorted union of families
// requested for update or upgrade.
func (c Config) UpdateList() []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{c.FamilyUpdateRequest, c.FamilyUpgradeRequest} {
		for _, family := range list {
			if !seen[family] {
				seen[family] = true
				out = append(out, family)
			}
		}
	}
	sort.Strings(out)
	return out
}

// MatchesGroup reports whether name passes the group filter: always true
// when no filter was configured, otherwise true only if name matches one
// of GroupFilter's glob patterns.
func (c Config) MatchesGroup(name string) bool {
	if !c.HasGroupFilter() {
		return true
	}
	return matchesAny(name, c.GroupFilter)
}

// MatchesChip reports whether a chip define should participate in merge:
// it must match ChipsFilter (if configured) and must not match
// ChipsExclude.
func (c Config) MatchesChip(define string) bool {
	if matchesAny(define, c.ChipsExclude) {
		return false
	}
	if !c.HasChipFilter() {
		return true
	}
	return matchesAny(define, c.ChipsFilter)
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		if g.Match(name) {
			return true
		}
	}
	return false
}
