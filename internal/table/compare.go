// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package table

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"mlcreport/internal/mlc"
)

const ComparisonTableName = "Comparison"

// comparisonRow holds one metric's value for each compared report
type comparisonRow struct {
	metric  string
	values  []float64
	present []bool
}

func newComparisonRow(metric string, count int) *comparisonRow {
	return &comparisonRow{metric: metric, values: make([]float64, count), present: make([]bool, count)}
}

func (r *comparisonRow) set(i int, value float64) {
	r.values[i] = value
	r.present[i] = true
}

// ComparisonTable compares the reports metric by metric. The first report is
// the baseline: for each other report a column holds the percent difference
// from the baseline. names label the reports and must be as long as reports.
func ComparisonTable(reports []*mlc.Report, names []string) TableValues {
	tableValues := TableValues{
		TableDefinition: TableDefinition{
			Name:        ComparisonTableName,
			MenuLabel:   ComparisonTableName,
			HasRows:     true,
			NoDataFound: "No metric is present in more than one report.",
		},
		Fields: []Field{},
	}
	if len(reports) < 2 || len(reports) != len(names) {
		slog.Error("cannot compare reports", slog.Int("reports", len(reports)), slog.Int("names", len(names)))
		return tableValues
	}
	summaries := make([]map[string]float64, len(reports))
	for i, report := range reports {
		summaries[i] = SummaryValues(report)
	}
	var rows []*comparisonRow
	for _, metric := range summaryMetrics {
		row := newComparisonRow(metric.Name, len(reports))
		for i := range reports {
			if value, ok := summaries[i][metric.Name]; ok {
				row.set(i, value)
			}
		}
		rows = append(rows, row)
	}
	rows = append(rows, peakBandwidthComparisonRows(reports)...)
	rows = append(rows, loadedLatencyComparisonRows(reports)...)

	fields := []Field{{Name: "Metric"}}
	for _, name := range names {
		fields = append(fields, Field{Name: name})
	}
	for _, name := range names[1:] {
		fields = append(fields, Field{Name: fmt.Sprintf("%s vs %s", name, names[0]), Description: "percent difference from " + names[0]})
	}
	for _, row := range rows {
		if countPresent(row.present) < 2 {
			continue
		}
		fields[0].Values = append(fields[0].Values, row.metric)
		for i := range reports {
			value := ""
			if row.present[i] {
				value = formatFloat(roundTo(row.values[i], 2))
			}
			fields[i+1].Values = append(fields[i+1].Values, value)
		}
		for i := 1; i < len(reports); i++ {
			diff := ""
			if row.present[0] && row.present[i] {
				diff = percentDifference(row.values[0], row.values[i])
			}
			fields[len(reports)+i].Values = append(fields[len(reports)+i].Values, diff)
		}
	}
	if len(fields[0].Values) == 0 {
		return tableValues
	}
	tableValues.Fields = fields
	if err := validateTableValues(tableValues); err != nil {
		slog.Error("table validation failed", "table", tableValues.Name, "error", err)
		tableValues.Fields = []Field{}
	}
	return tableValues
}

// peakBandwidthComparisonRows matches peak bandwidth entries by label. A label
// repeated within a report is matched by its occurrence, e.g., the second
// "1:1 Reads-Writes" of each report.
func peakBandwidthComparisonRows(reports []*mlc.Report) []*comparisonRow {
	var rows []*comparisonRow
	index := make(map[string]*comparisonRow)
	for i, report := range reports {
		occurrences := make(map[string]int)
		for _, bandwidth := range report.PeakBandwidths {
			occurrences[bandwidth.Label]++
			key := bandwidth.Label
			if occurrences[bandwidth.Label] > 1 {
				key = fmt.Sprintf("%s (%d)", bandwidth.Label, occurrences[bandwidth.Label])
			}
			row, ok := index[key]
			if !ok {
				row = newComparisonRow("Peak Bandwidth: "+key, len(reports))
				index[key] = row
				rows = append(rows, row)
			}
			row.set(i, bandwidth.Value)
		}
	}
	return rows
}

// loadedLatencyComparisonRows matches loaded latency samples by inject delay
func loadedLatencyComparisonRows(reports []*mlc.Report) []*comparisonRow {
	var rows []*comparisonRow
	index := make(map[int]*comparisonRow)
	for i, report := range reports {
		for _, sample := range report.LoadedLatencies {
			row, ok := index[sample.Delay]
			if !ok {
				row = newComparisonRow("Loaded Latency (ns) at Delay "+strconv.Itoa(sample.Delay), len(reports))
				index[sample.Delay] = row
				rows = append(rows, row)
			}
			if !row.present[i] {
				row.set(i, sample.Latency)
			}
		}
	}
	return rows
}

func countPresent(present []bool) (count int) {
	for _, p := range present {
		if p {
			count++
		}
	}
	return
}

func roundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
