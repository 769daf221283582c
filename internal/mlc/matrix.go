// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package mlc

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

var errNoMatrixRows = errors.New("no node matrix rows found")

type matrixRow struct {
	node   int
	values []Measurement
}

// ParseMatrix parses a node matrix from the lines of a section. Example input:
//
//			Numa node
//	Numa node	     0	     1
//	       0	  82.6	 136.9
//	       1	 137.2	  82.9
//
// When no header is found, node ids 0..n-1 are assumed, where n is
// fallbackNodeCount if a data row has that many values, else the length of the
// first data row. Rows whose length does not match the node count are dropped
// and reported in the returned warnings. RowNodes holds the node id of each
// kept row.
func ParseMatrix(lines []string, labels MatrixLabels, fallbackNodeCount int) (NodeMatrix, []string, error) {
	matrix := NodeMatrix{RowLabel: labels.Row, ColumnLabel: labels.Column}
	var warnings []string
	nodes, dataStart := findMatrixHeader(lines)
	if dataStart == -1 {
		nodes, dataStart = inferMatrixHeader(lines, fallbackNodeCount)
	}
	if dataStart == -1 {
		return matrix, warnings, errNoMatrixRows
	}
	matrix.Nodes = nodes
	for _, row := range collectMatrixRows(lines[dataStart:]) {
		values := row.values
		if len(values) > len(matrix.Nodes) {
			values = values[:len(matrix.Nodes)]
		}
		if len(values) != len(matrix.Nodes) {
			warnings = append(warnings, fmt.Sprintf("dropped row for node %d: found %d value(s), expected %d", row.node, len(values), len(matrix.Nodes)))
			continue
		}
		if slices.Contains(matrix.RowNodes, row.node) {
			warnings = append(warnings, fmt.Sprintf("dropped repeated row for node %d", row.node))
			continue
		}
		matrix.RowNodes = append(matrix.RowNodes, row.node)
		matrix.Matrix = append(matrix.Matrix, values)
	}
	if len(matrix.Matrix) == 0 {
		return matrix, warnings, errNoMatrixRows
	}
	if len(matrix.Matrix) != len(matrix.Nodes) {
		warnings = append(warnings, fmt.Sprintf("matrix dimensions mismatch: expected %dx%d, got %dx%d", len(matrix.Nodes), len(matrix.Nodes), len(matrix.Matrix), len(matrix.Matrix[0])))
	}
	return matrix, warnings, nil
}

// findMatrixHeader returns the node ids from the matrix header line and the
// index of the first line after the header (and its optional separator).
// The index is -1 if no header is found.
func findMatrixHeader(lines []string) ([]int, int) {
	for i, line := range lines {
		if line == "" || isMatrixSeparator(line) {
			continue
		}
		match := rxMatrixHeader.FindStringSubmatch(line)
		if match == nil || !hasMatrixHeaderPhrase(match[1]) {
			continue
		}
		nodes, err := parseNodeIDs(match[2])
		if err != nil {
			slog.Warn("ignoring matrix header", slog.String("line", line), slog.String("error", err.Error()))
			continue
		}
		dataStart := i + 1
		if dataStart < len(lines) && rxSeparator.MatchString(lines[dataStart]) {
			dataStart++
		}
		return nodes, dataStart
	}
	return nil, -1
}

func hasMatrixHeaderPhrase(prefix string) bool {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	return slices.ContainsFunc(matrixHeaderPhrases, func(phrase string) bool {
		return strings.HasSuffix(prefix, strings.ToLower(phrase))
	})
}

// parseNodeIDs parses the whitespace separated node ids of a matrix header.
// Node ids must be unique.
func parseNodeIDs(field string) ([]int, error) {
	var nodes []int
	seen := mapset.NewThreadUnsafeSet[int]()
	for _, token := range strings.Fields(field) {
		node, err := strconv.Atoi(token)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid node id %q", token)
		}
		if !seen.Add(node) {
			return nil, errors.Errorf("duplicate node id %d", node)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// inferMatrixHeader finds the first data row and assumes node ids 0..n-1.
// n is fallbackNodeCount when a data row has that many values, otherwise the
// number of values in the first data row.
func inferMatrixHeader(lines []string, fallbackNodeCount int) ([]int, int) {
	dataStart, count := -1, 0
	for i, line := range lines {
		if line == "" || isMatrixSeparator(line) {
			if dataStart != -1 {
				break
			}
			continue
		}
		row, ok := parseMatrixRow(line)
		if !ok {
			continue
		}
		if dataStart == -1 {
			dataStart, count = i, len(row.values)
		}
		if fallbackNodeCount > 0 && len(row.values) == fallbackNodeCount {
			count = fallbackNodeCount
			break
		}
	}
	if dataStart == -1 {
		return nil, -1
	}
	nodes := make([]int, count)
	for j := range nodes {
		nodes[j] = j
	}
	return nodes, dataStart
}

// collectMatrixRows gathers data rows until a blank or separator line ends
// the table. Blank and separator lines before the first row are skipped.
func collectMatrixRows(lines []string) []matrixRow {
	var rows []matrixRow
	for _, line := range lines {
		if line == "" || isMatrixSeparator(line) {
			if len(rows) > 0 {
				break
			}
			continue
		}
		if rxSummaryRow.MatchString(line) {
			continue
		}
		row, ok := parseMatrixRow(line)
		if !ok {
			slog.Debug("skipping matrix line", slog.String("line", line))
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// parseMatrixRow parses "<node id> <value> [<value>...]"
func parseMatrixRow(line string) (matrixRow, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 || !rxInteger.MatchString(tokens[0]) {
		return matrixRow{}, false
	}
	node, err := strconv.Atoi(tokens[0])
	if err != nil {
		return matrixRow{}, false
	}
	values := make([]Measurement, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		value, err := parseMeasurement(token)
		if err != nil {
			return matrixRow{}, false
		}
		values = append(values, value)
	}
	return matrixRow{node: node, values: values}, true
}

// parseMeasurement converts a token to a measurement. The tool's missing
// markers yield a missing measurement. Any other non-numeric token is an error.
func parseMeasurement(token string) (Measurement, error) {
	if slices.Contains(missingTokens, token) {
		return Missing(), nil
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return Missing(), err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Missing(), errors.Errorf("invalid measurement %q", token)
	}
	return Measured(value), nil
}

func isMatrixSeparator(line string) bool {
	return rxSeparator.MatchString(line) || strings.HasPrefix(line, "===") || strings.HasPrefix(line, "---")
}
