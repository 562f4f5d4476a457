// Package manifest renders the SHA-1-pinned build manifest that
// accompanies a merge run's generated headers: the PDSC version per
// family, the groups actually emitted, and the chip/SVD/header
// associations that went into them, each section carrying its own
// digest so a consumer can tell at a glance whether inputs changed
// without diffing the generated headers themselves.
package manifest

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"crypto/sha1"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"periphgen/internal/chip"
)

// FamilyVersion names the PDSC version merged for one chip family.
type FamilyVersion struct {
	Family  string
	Version string
}

type hashEntry struct {
	Short string `xml:"short,attr"`
	Value string `xml:"value,attr"`
}

type hashSection struct {
	Mainv hashEntry `xml:"mainv"`
	Files hashEntry `xml:"files"`
	Group hashEntry `xml:"group"`
	Chips hashEntry `xml:"chips"`
}

type dateElem struct {
	Value string `xml:"value,attr"`
}

type commandLineElem struct {
	Args string `xml:"args,attr"`
}

type generationSection struct {
	Date        dateElem        `xml:"date"`
	CommandLine commandLineElem `xml:"command-line"`
}

type familyVersionXML struct {
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
}

type filesetSection struct {
	Families []familyVersionXML `xml:"family"`
}

type groupXML struct {
	Name string `xml:"name,attr"`
}

type groupsSection struct {
	Groups []groupXML `xml:"group"`
}

type chipXML struct {
	Define string `xml:"define,attr"`
	Header string `xml:"header,attr"`
	SVD    string `xml:"svd,attr"`
}

type chipFamilyXML struct {
	Name  string    `xml:"name,attr"`
	Chips []chipXML `xml:"chip"`
}

type chipsSection struct {
	Families []chipFamilyXML `xml:"family"`
}

type document struct {
	XMLName    xml.Name          `xml:"manifest"`
	Hash       hashSection       `xml:"hash"`
	Generation generationSection `xml:"generation"`
	Fileset    filesetSection    `xml:"fileset"`
	Groups     groupsSection     `xml:"groups"`
	Chips      chipsSection      `xml:"chips"`
}

// Build renders the manifest document. commitSHA identifies the tool
// revision that produced the run (the original pins this to `git
// rev-parse HEAD`; callers with no repository to ask fall back to 40
// zeroes, same as the original's except branch). generatedAt is an
// ISO-8601 timestamp and args the command line that triggered the run.
// FileVersions, groups and chips each get their own SHA-1 digest folded
// into the <hash> section, so a consumer can tell which part of a
// previous run's inputs changed without re-parsing any generated
// header.
func Build(commitSHA, generatedAt string, args []string, fileVersions []FamilyVersion, groups []string, chips []chip.Chip) ([]byte, error) {
	mainv := commitSHA
	if mainv == "" {
		mainv = strings.Repeat("0", 40)
	}

	fileset, filesDigest := buildFileset(fileVersions)
	groupsXML, groupDigest := buildGroups(groups)
	chipsXML, chipsDigest := buildChips(chips)

	doc := document{
		Hash: hashSection{
			Mainv: hashEntry{Short: short(mainv), Value: mainv},
			Files: hashEntry{Short: short(filesDigest), Value: filesDigest},
			Group: hashEntry{Short: short(groupDigest), Value: groupDigest},
			Chips: hashEntry{Short: short(chipsDigest), Value: chipsDigest},
		},
		Generation: generationSection{
			Date:        dateElem{Value: generatedAt},
			CommandLine: commandLineElem{Args: strings.Join(args, " ")},
		},
		Fileset: fileset,
		Groups:  groupsXML,
		Chips:   chipsXML,
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func buildFileset(fileVersions []FamilyVersion) (filesetSection, string) {
	sorted := append([]FamilyVersion(nil), fileVersions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Family < sorted[j].Family })

	h := sha1.New()
	var out filesetSection
	for _, fv := range sorted {
		out.Families = append(out.Families, familyVersionXML{Name: fv.Family, Version: fv.Version})
		fmt.Fprintf(h, "%s=%s", fv.Family, fv.Version)
	}
	return out, fmt.Sprintf("%x", h.Sum(nil))
}

func buildGroups(groups []string) (groupsSection, string) {
	sorted := append([]string(nil), groups...)
	sort.Strings(sorted)

	h := sha1.New()
	var out groupsSection
	for _, g := range sorted {
		out.Groups = append(out.Groups, groupXML{Name: g})
		h.Write([]byte(g))
	}
	return out, fmt.Sprintf("%x", h.Sum(nil))
}

func buildChips(chips []chip.Chip) (chipsSection, string) {
	sorted := append([]chip.Chip(nil), chips...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })

	h := sha1.New()
	byFamily := make(map[string]*chipFamilyXML)
	var familyOrder []string
	var out chipsSection
	for _, c := range sorted {
		family := c.Family()
		fam, ok := byFamily[family]
		if !ok {
			fam = &chipFamilyXML{Name: family}
			byFamily[family] = fam
			familyOrder = append(familyOrder, family)
		}
		elt := chipXML{Define: c.Define, Header: filepath.Base(c.HeaderPath), SVD: filepath.Base(c.SVDPath)}
		fam.Chips = append(fam.Chips, elt)
		eltBytes, _ := xml.Marshal(elt)
		h.Write(eltBytes)
	}
	for _, family := range familyOrder {
		out.Families = append(out.Families, *byFamily[family])
	}
	return out, fmt.Sprintf("%x", h.Sum(nil))
}

func short(digest string) string {
	if len(digest) < 6 {
		return digest
	}
	return digest[:6]
}
