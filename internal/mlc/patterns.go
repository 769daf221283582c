// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package mlc

// patterns.go holds the phrasings mlc has used across releases. Each table is
// tried in order, first match wins. New tool output variants should only
// require a new entry here.

import (
	"regexp"
	"strings"
)

// SectionKind identifies a measurement section of the mlc output
type SectionKind int

const (
	None SectionKind = iota
	IdleLatencies
	PeakBandwidths
	InterNodeBandwidths
	LoadedLatencies
	CacheToCache
)

func (k SectionKind) String() string {
	switch k {
	case IdleLatencies:
		return "idle latencies"
	case PeakBandwidths:
		return "peak bandwidths"
	case InterNodeBandwidths:
		return "inter-node bandwidths"
	case LoadedLatencies:
		return "loaded latencies"
	case CacheToCache:
		return "cache-to-cache"
	}
	return "none"
}

// sectionPrefix starts every section of the mlc output, known or not
const sectionPrefix = "Measuring"

// bannerPrefix starts the tool banner line, which never belongs to a section
const bannerPrefix = "Intel(R) Memory Latency Checker"

type sectionMarker struct {
	prefix string
	kind   SectionKind
}

var sectionMarkers = []sectionMarker{
	{"Measuring idle latencies", IdleLatencies},
	{"Measuring Peak Injection Memory Bandwidths", PeakBandwidths},
	{"Measuring Memory Bandwidths between nodes", InterNodeBandwidths},
	{"Measuring Loaded Latencies", LoadedLatencies},
	{"Measuring cache-to-cache transfer latency", CacheToCache},
}

// isSectionStart reports whether the trimmed line opens a section
func isSectionStart(line string) bool {
	return strings.HasPrefix(line, sectionPrefix)
}

// sectionKindOf returns the kind of section opened by the trimmed line. Lines
// that open a section this package does not parse, e.g., "Measuring Maximum
// Memory Bandwidths", return None.
func sectionKindOf(line string) SectionKind {
	for _, marker := range sectionMarkers {
		if strings.HasPrefix(line, marker.prefix) {
			return marker.kind
		}
	}
	return None
}

var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Intel\(R\) Memory Latency Checker\s*-\s*(v[0-9]+\.[0-9]+[a-zA-Z]?)`),
	regexp.MustCompile(`Memory Latency Checker\s+(v[0-9]+\.[0-9]+[a-zA-Z]?)`),
	regexp.MustCompile(`(?i)^mlc\s+(v[0-9]+\.[0-9]+[a-zA-Z]?)$`),
}

// MatrixLabels names the row and column axes of a node matrix as printed by mlc
type MatrixLabels struct {
	Row    string
	Column string
}

var (
	// NumaNodeLabels label the idle latency and inter-node bandwidth matrices
	NumaNodeLabels = MatrixLabels{Row: "Numa node", Column: "Numa node"}
	// WriterReaderLabels label the remote cache-to-cache matrices
	WriterReaderLabels = MatrixLabels{Row: "Writer Numa Node", Column: "Reader Numa Node"}
)

// matrixHeaderPhrases precede the run of node ids on a matrix header line
var matrixHeaderPhrases = []string{
	"Numa node",
	"Writer Numa Node",
	"Reader Numa Node",
}

var (
	rxMatrixHeader = regexp.MustCompile(`^(.*?)\s+(\d+(?:\s+\d+)*)$`)
	rxSeparator    = regexp.MustCompile(`^[-=]+$`)
	rxInteger      = regexp.MustCompile(`^\d+$`)
	rxSummaryRow   = regexp.MustCompile(`(?i)average|total`)
)

// missingTokens are printed by mlc in place of a measurement it did not take
var missingTokens = []string{"-", "N/A", "null"}

type loadedLatencyDialect struct {
	name   string
	header *regexp.Regexp
}

var loadedLatencyDialects = []loadedLatencyDialect{
	{"verbose", regexp.MustCompile(`(?i)Inject\s+Delay\s+Latency(?:\s*\(ns\))?(?:\s+Cycles)?\s+Bandwidth`)},
	{"compact", regexp.MustCompile(`(?i)Inject\s+Latency(?:\s+Cycles)?\s+Bandwidth`)},
}

var (
	// rxLabelValue captures everything before the last colon followed by a value token
	rxLabelValue   = regexp.MustCompile(`^(.*\S)\s*:\s*([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)(?:\s+(.*))?$`)
	rxParenthetic  = regexp.MustCompile(`\s*\([^)]*\)`)
	rxUnitSuffix   = regexp.MustCompile(`(?i)\s*\b[KMGT]i?B/s(?:ec)?$`)
	rxStreamTriad  = regexp.MustCompile(`(?i)stream-triad`)
	peakHeaderText = []string{"peak memory bandwidths", "peak injection memory bandwidths", "read-write ratios"}
	// peakContinuationText marks lines that may follow bandwidth entries without ending the list
	peakContinuationText = []string{"memory bandwidths", "bandwidths are in", "read-write ratio", "using "}
)

var (
	rxLocalHit      = regexp.MustCompile(`(?i)^Local Socket L2->L2 HIT\s+latency`)
	rxLocalHitm     = regexp.MustCompile(`(?i)^Local Socket L2->L2 HITM\s+latency`)
	rxRemoteHitm    = regexp.MustCompile(`(?i)Remote Socket L2->L2 HITM\s+latency`)
	rxWriterHomed   = regexp.MustCompile(`(?i)homed in writer socket`)
	rxReaderHomed   = regexp.MustCompile(`(?i)homed in reader socket`)
	localSocketText = "Local Socket"
	rxRemoteSocket  = regexp.MustCompile(`(?i)^Remote Socket`)
)
