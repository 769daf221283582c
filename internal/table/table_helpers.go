// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// table_helpers.go contains base helper functions that are used to convert parsed mlc measurements into table fields.

package table

import (
	"fmt"
	"strconv"
	"strings"

	"mlcreport/internal/mlc"
)

// matrixFields returns one field for the source node ids followed by one field
// per destination node. Missing measurements are rendered as "-".
//
//	Numa node | 0     | 1
//	0         | 82.6  | 136.9
//	1         | 137.2 | 82.9
func matrixFields(matrix *mlc.NodeMatrix) []Field {
	if matrix == nil || matrix.Empty() {
		return []Field{}
	}
	rowLabel := matrix.RowLabel
	if rowLabel == "" {
		rowLabel = "Node"
	}
	fields := []Field{{Name: rowLabel, Description: "source node"}}
	for _, node := range matrix.Nodes {
		fields = append(fields, Field{Name: strconv.Itoa(node), Description: matrix.ColumnLabel})
	}
	for i, row := range matrix.Matrix {
		source := ""
		if node, ok := matrix.RowNode(i); ok {
			source = strconv.Itoa(node)
		}
		fields[0].Values = append(fields[0].Values, source)
		for j := range matrix.Nodes {
			value := mlc.Missing()
			if j < len(row) {
				value = row[j]
			}
			fields[j+1].Values = append(fields[j+1].Values, value.String())
		}
	}
	return fields
}

// formatFloat formats the value with the fewest digits that represent it
// exactly, e.g., 45000.32 or 12000.
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// diagonalMeans returns the mean of the valid measurements whose source and
// destination node are the same (local) and differ (remote). The ok flags are false
// when no valid measurement contributed to the corresponding mean.
func diagonalMeans(matrix *mlc.NodeMatrix) (local float64, localOK bool, remote float64, remoteOK bool) {
	if matrix == nil {
		return
	}
	var localSum, remoteSum float64
	var localCount, remoteCount int
	for i, row := range matrix.Matrix {
		source, ok := matrix.RowNode(i)
		if !ok {
			continue
		}
		for j, value := range row {
			if j >= len(matrix.Nodes) || value.IsMissing() {
				continue
			}
			if source == matrix.Nodes[j] {
				localSum += value.Value
				localCount++
			} else {
				remoteSum += value.Value
				remoteCount++
			}
		}
	}
	if localCount > 0 {
		local, localOK = localSum/float64(localCount), true
	}
	if remoteCount > 0 {
		remote, remoteOK = remoteSum/float64(remoteCount), true
	}
	return
}

// sectionNames joins the names of the sections present in the report
func sectionNames(report *mlc.Report) string {
	var names []string
	for _, kind := range report.Sections() {
		names = append(names, kind.String())
	}
	return strings.Join(names, ", ")
}

func percentDifference(baseline, value float64) string {
	if baseline == 0 {
		return ""
	}
	return fmt.Sprintf("%+.1f%%", (value-baseline)/baseline*100)
}
