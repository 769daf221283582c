// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package mlc

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	errNoLoadedLatencyHeader  = errors.New("loaded latency header not found")
	errNoLoadedLatencySamples = errors.New("no loaded latency samples found")
)

// ParseLoadedLatencies parses the loaded latency table. Both header dialects
// are accepted:
//
//	Inject	Latency	Bandwidth
//	Delay	(ns)	MB/sec
//	==========================
//	 00000	261.65	 225060.9
//
//	Inject  Delay  Latency (ns)  Cycles  Bandwidth
//	   100          250.5            1    12000.0
//
// The first token of a row is the delay, the second the latency and the last
// the bandwidth. Rows keep the order of the input.
func ParseLoadedLatencies(lines []string) ([]Sample, error) {
	start := findLoadedLatencyHeader(lines)
	if start == -1 {
		return nil, errNoLoadedLatencyHeader
	}
	var samples []Sample
	for _, line := range lines[start:] {
		if line == "" {
			if len(samples) > 0 {
				break
			}
			continue
		}
		sample, ok := parseSample(line)
		if !ok {
			// sub-headers and separators may sit between the header and the first row
			if len(samples) > 0 {
				break
			}
			continue
		}
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return nil, errNoLoadedLatencySamples
	}
	return samples, nil
}

// findLoadedLatencyHeader returns the index of the line after the first header
// matched by any dialect, or -1.
func findLoadedLatencyHeader(lines []string) int {
	for i, line := range lines {
		for _, dialect := range loadedLatencyDialects {
			if dialect.header.MatchString(line) {
				slog.Debug("found loaded latency header", slog.String("dialect", dialect.name))
				return i + 1
			}
		}
	}
	return -1
}

func parseSample(line string) (Sample, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return Sample{}, false
	}
	for _, token := range tokens {
		if _, err := strconv.ParseFloat(token, 64); err != nil {
			return Sample{}, false
		}
	}
	delay, err := strconv.Atoi(tokens[0])
	if err != nil {
		return Sample{}, false
	}
	latency, _ := strconv.ParseFloat(tokens[1], 64)
	bandwidth, _ := strconv.ParseFloat(tokens[len(tokens)-1], 64)
	return Sample{Delay: delay, Latency: latency, Bandwidth: bandwidth}, true
}
