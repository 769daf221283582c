// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package mlc

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// Section is a run of trimmed lines belonging to one measurement section
type Section struct {
	Kind  SectionKind
	Lines []string
}

// boundaryFunc reports whether the section ends after lines[i]
type boundaryFunc func(lines []string, i int) bool

// sectionBoundaries holds the end-of-section rule for each section kind.
// Every kind also ends at end of input and before the next "Measuring" line.
var sectionBoundaries = map[SectionKind]boundaryFunc{
	IdleLatencies:       blankLineBoundary,
	PeakBandwidths:      noBoundary,
	InterNodeBandwidths: blankLineBoundary,
	LoadedLatencies:     blankLineBoundary,
	CacheToCache: func(lines []string, i int) bool {
		return blankLineBoundary(lines, i) || trailingBlankLines(lines, i)
	},
}

// peak bandwidth sections contain blank lines between their sub-headings
func noBoundary([]string, int) bool {
	return false
}

// blankLineBoundary ends a section after a non-blank line that is followed by a
// blank line which is itself followed by a blank line, a new section or the end
// of the input.
func blankLineBoundary(lines []string, i int) bool {
	if lines[i] == "" || i+1 >= len(lines) || lines[i+1] != "" {
		return false
	}
	return i+2 == len(lines) || lines[i+2] == "" || isSectionStart(lines[i+2])
}

// trailingBlankLines ends a section when the next line is blank and is either
// the last line or followed by another blank line.
func trailingBlankLines(lines []string, i int) bool {
	if i+1 >= len(lines) || lines[i+1] != "" {
		return false
	}
	return i+2 == len(lines) || lines[i+2] == ""
}

func sectionEnds(kind SectionKind, lines []string, i int) bool {
	if i+1 == len(lines) || isSectionStart(lines[i+1]) {
		return true
	}
	if boundary, ok := sectionBoundaries[kind]; ok {
		return boundary(lines, i)
	}
	return false
}

// Segment splits the lines of an mlc output into measurement sections, in
// input order. Lines outside a known section, e.g., the tool banner, are
// dropped.
func Segment(lines []string) []Section {
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimSpace(line)
	}
	var sections []Section
	state := None
	var buffer []string
	for i, line := range trimmed {
		if isSectionStart(line) {
			state = sectionKindOf(line)
			buffer = nil
		}
		if state == None {
			continue
		}
		if !strings.HasPrefix(line, bannerPrefix) {
			buffer = append(buffer, line)
		}
		if sectionEnds(state, trimmed, i) {
			sections = append(sections, Section{Kind: state, Lines: buffer})
			state = None
			buffer = nil
		}
	}
	return sections
}

// Parse parses the text output of mlc. It never fails: sections that cannot be
// parsed are left empty and reported in the warnings of the returned report.
func Parse(text string) *Report {
	report := &Report{ToolVersion: ToolVersion(text)}
	for _, section := range Segment(strings.Split(text, "\n")) {
		if err := report.addSection(section); err != nil {
			slog.Warn("failed to parse section",
				slog.String("section", section.Kind.String()),
				slog.String("error", err.Error()),
				slog.String("lines", strings.Join(section.Lines, "\n")))
			report.Warnings = append(report.Warnings, err.Error())
		}
	}
	return report
}

// ParseReader reads all of r and parses it
func ParseReader(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read mlc output")
	}
	return Parse(string(data)), nil
}

func (r *Report) addSection(section Section) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("%s: unexpected section content: %v", section.Kind, p)
		}
	}()
	switch section.Kind {
	case IdleLatencies:
		matrix, matrixErr := r.parseNodeMatrix(section)
		if matrixErr != nil {
			return matrixErr
		}
		r.IdleLatencies = matrix
	case InterNodeBandwidths:
		matrix, matrixErr := r.parseNodeMatrix(section)
		if matrixErr != nil {
			return matrixErr
		}
		r.InterNodeBandwidths = matrix
	case PeakBandwidths:
		bandwidths, parseErr := ParsePeakBandwidths(section.Lines)
		if parseErr != nil {
			return errors.Wrapf(parseErr, "%s", section.Kind)
		}
		r.PeakBandwidths = bandwidths
	case LoadedLatencies:
		samples, parseErr := ParseLoadedLatencies(section.Lines)
		if parseErr != nil {
			return errors.Wrapf(parseErr, "%s", section.Kind)
		}
		r.LoadedLatencies = samples
	case CacheToCache:
		c2c, warnings, parseErr := ParseCacheToCache(section.Lines, r.NumaNodeCount)
		r.addWarnings(section.Kind, warnings)
		if parseErr != nil {
			return errors.Wrapf(parseErr, "%s", section.Kind)
		}
		r.CacheToCache = &c2c
	}
	return nil
}

// parseNodeMatrix parses a node matrix section and raises the report's NUMA
// node count to the matrix's node count.
func (r *Report) parseNodeMatrix(section Section) (*NodeMatrix, error) {
	matrix, warnings, err := ParseMatrix(section.Lines, NumaNodeLabels, r.NumaNodeCount)
	r.addWarnings(section.Kind, warnings)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", section.Kind)
	}
	r.NumaNodeCount = max(r.NumaNodeCount, len(matrix.Nodes))
	return &matrix, nil
}

func (r *Report) addWarnings(kind SectionKind, warnings []string) {
	for _, warning := range warnings {
		slog.Warn("section parsed with warnings", slog.String("section", kind.String()), slog.String("warning", warning))
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %s", kind, warning))
	}
}
