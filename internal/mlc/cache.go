// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package mlc

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var errNoCacheToCache = errors.New("no cache-to-cache measurements found")

type remoteHitmKind int

const (
	unknownHomed remoteHitmKind = iota
	writerHomed
	readerHomed
)

// remoteHitmBuffer collects the lines of one remote HITM matrix
type remoteHitmBuffer struct {
	kind  remoteHitmKind
	lines []string
	open  bool
}

// ParseCacheToCache parses the cache-to-cache transfer section. Example input:
//
//	Local Socket L2->L2 HIT  latency	45.2
//	Local Socket L2->L2 HITM latency	46.1
//	Remote Socket L2->L2 HITM latency (data address homed in writer socket)
//				Reader Numa Node
//	Writer Numa Node     0	     1
//	            0	     -	 115.1
//	            1	 116.3	     -
//
// fallbackNodeCount is used for remote matrices printed without node ids.
func ParseCacheToCache(lines []string, fallbackNodeCount int) (CacheTransferReport, []string, error) {
	var c2c CacheTransferReport
	var warnings []string
	var buffer remoteHitmBuffer
	found := false

	flush := func() {
		if !buffer.open {
			return
		}
		defer func() { buffer = remoteHitmBuffer{} }()
		var target *NodeMatrix
		switch buffer.kind {
		case writerHomed:
			target = &c2c.RemoteHitmWriterHomed
		case readerHomed:
			target = &c2c.RemoteHitmReaderHomed
		default:
			warnings = append(warnings, fmt.Sprintf("ignored remote HITM matrix with unknown data homing: %q", buffer.lines[0]))
			return
		}
		matrix, matrixWarnings, err := ParseMatrix(buffer.lines, WriterReaderLabels, fallbackNodeCount)
		warnings = append(warnings, matrixWarnings...)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", buffer.lines[0], err))
			return
		}
		*target = matrix
		found = true
	}

	for i, line := range lines {
		switch {
		case rxLocalHit.MatchString(line):
			flush()
			c2c.LocalHit = lastTokenMeasurement(line)
			found = true
		case rxLocalHitm.MatchString(line):
			flush()
			c2c.LocalHitm = lastTokenMeasurement(line)
			found = true
		case rxRemoteHitm.MatchString(line):
			flush()
			buffer = remoteHitmBuffer{kind: homingOf(line), lines: []string{line}, open: true}
		case !buffer.open:
			continue
		case strings.HasPrefix(line, localSocketText):
			flush()
		case line == "":
			previousBlank := i > 0 && lines[i-1] == ""
			nextRemote := i+1 < len(lines) && rxRemoteSocket.MatchString(lines[i+1])
			if previousBlank || nextRemote {
				flush()
			}
		default:
			buffer.lines = append(buffer.lines, line)
		}
	}
	flush()

	if !found {
		return c2c, warnings, errNoCacheToCache
	}
	return c2c, warnings, nil
}

func homingOf(line string) remoteHitmKind {
	switch {
	case rxWriterHomed.MatchString(line):
		return writerHomed
	case rxReaderHomed.MatchString(line):
		return readerHomed
	}
	return unknownHomed
}

// lastTokenMeasurement parses the last whitespace separated token of the line.
// A token that is not a number yields a missing measurement.
func lastTokenMeasurement(line string) Measurement {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Missing()
	}
	value, err := parseMeasurement(tokens[len(tokens)-1])
	if err != nil {
		return Missing()
	}
	return value
}
