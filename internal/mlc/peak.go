// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package mlc

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var errNoPeakBandwidths = errors.New("no peak bandwidth values found")

// ParsePeakBandwidths parses the "label : value [unit]" lines of the peak
// injection bandwidth section, in the order they appear. Example input:
//
//	Using traffic with the following read-write ratios
//	ALL Reads        :	221712.2
//	3:1 Reads-Writes :	195498.2
//	Stream-triad like:	182328.3
//
// The Stream-triad entry is the last one. If it is missing, the list ends at
// the first line after the collected values that is neither blank, a
// bandwidth entry, nor a known heading.
func ParsePeakBandwidths(lines []string) ([]LabeledScalar, error) {
	var bandwidths []LabeledScalar
	for _, line := range lines {
		if line == "" {
			continue
		}
		// before the first value, headings and other prose are skipped
		if len(bandwidths) == 0 && containsAnyFold(line, peakHeaderText) {
			slog.Debug("found peak bandwidth header", slog.String("line", line))
			continue
		}
		scalar, ok := parseLabeledScalar(line)
		if !ok {
			if len(bandwidths) > 0 && !isPeakContinuation(line) {
				break
			}
			continue
		}
		bandwidths = append(bandwidths, scalar)
		if rxStreamTriad.MatchString(scalar.Label) {
			break
		}
	}
	if len(bandwidths) == 0 {
		return nil, errNoPeakBandwidths
	}
	return bandwidths, nil
}

// parseLabeledScalar parses "<label> : <value>[ <unit>]". The label is the
// text before the last colon without parenthetical notes or a unit suffix.
func parseLabeledScalar(line string) (LabeledScalar, bool) {
	match := rxLabelValue.FindStringSubmatch(line)
	if match == nil {
		return LabeledScalar{}, false
	}
	value, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return LabeledScalar{}, false
	}
	label := rxParenthetic.ReplaceAllString(match[1], "")
	label = strings.TrimSpace(rxUnitSuffix.ReplaceAllString(strings.TrimSpace(label), ""))
	if label == "" {
		return LabeledScalar{}, false
	}
	return LabeledScalar{Label: label, Value: value, Unit: strings.TrimSpace(match[3])}, true
}

func isPeakContinuation(line string) bool {
	return isMatrixSeparator(line) || containsAnyFold(line, peakContinuationText)
}

func containsAnyFold(line string, texts []string) bool {
	lower := strings.ToLower(line)
	return slices.ContainsFunc(texts, func(text string) bool {
		return strings.Contains(lower, text)
	})
}
