// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package table

import (
	"strconv"

	"mlcreport/internal/mlc"
)

// table names
const (
	MLCSummaryTableName            = "MLC Summary"
	MemorySummaryTableName         = "Memory Summary"
	IdleLatencyTableName           = "Idle Latency"
	PeakBandwidthTableName         = "Peak Injection Bandwidth"
	NodeBandwidthTableName         = "Node Bandwidth"
	LoadedLatencyTableName         = "Loaded Latency"
	CacheToCacheLocalTableName     = "Cache-to-Cache Local Latency"
	RemoteHitmWriterHomedTableName = "Remote HITM Latency (Writer Homed)"
	RemoteHitmReaderHomedTableName = "Remote HITM Latency (Reader Homed)"
	ParseWarningsTableName         = "Parse Warnings"
)

const noMLCDataFound = "No data found in the mlc output for this section."

var tableDefinitions = map[string]TableDefinition{
	MLCSummaryTableName: {
		Name:       MLCSummaryTableName,
		MenuLabel:  MLCSummaryTableName,
		HasRows:    false,
		FieldsFunc: mlcSummaryTableValues},
	MemorySummaryTableName: {
		Name:        MemorySummaryTableName,
		MenuLabel:   MemorySummaryTableName,
		HasRows:     false,
		NoDataFound: "Not enough measurements to summarize memory performance.",
		FieldsFunc:  memorySummaryTableValues},
	IdleLatencyTableName: {
		Name:        IdleLatencyTableName,
		MenuLabel:   IdleLatencyTableName,
		HasRows:     true,
		NoDataFound: noMLCDataFound,
		FieldsFunc:  idleLatencyTableValues},
	PeakBandwidthTableName: {
		Name:        PeakBandwidthTableName,
		MenuLabel:   PeakBandwidthTableName,
		HasRows:     true,
		NoDataFound: noMLCDataFound,
		FieldsFunc:  peakBandwidthTableValues},
	NodeBandwidthTableName: {
		Name:        NodeBandwidthTableName,
		MenuLabel:   NodeBandwidthTableName,
		HasRows:     true,
		NoDataFound: noMLCDataFound,
		FieldsFunc:  nodeBandwidthTableValues},
	LoadedLatencyTableName: {
		Name:        LoadedLatencyTableName,
		MenuLabel:   LoadedLatencyTableName,
		HasRows:     true,
		NoDataFound: noMLCDataFound,
		FieldsFunc:  loadedLatencyTableValues},
	CacheToCacheLocalTableName: {
		Name:        CacheToCacheLocalTableName,
		MenuLabel:   "Cache-to-Cache Latency",
		HasRows:     false,
		NoDataFound: noMLCDataFound,
		FieldsFunc:  cacheToCacheLocalTableValues},
	RemoteHitmWriterHomedTableName: {
		Name:        RemoteHitmWriterHomedTableName,
		HasRows:     true,
		NoDataFound: noMLCDataFound,
		FieldsFunc:  remoteHitmWriterHomedTableValues},
	RemoteHitmReaderHomedTableName: {
		Name:        RemoteHitmReaderHomedTableName,
		HasRows:     true,
		NoDataFound: noMLCDataFound,
		FieldsFunc:  remoteHitmReaderHomedTableValues},
	ParseWarningsTableName: {
		Name:        ParseWarningsTableName,
		MenuLabel:   ParseWarningsTableName,
		HasRows:     true,
		NoDataFound: "No warnings.",
		FieldsFunc:  parseWarningsTableValues},
}

// ReportTableNames is the order of the tables in a report
var ReportTableNames = []string{
	MLCSummaryTableName,
	MemorySummaryTableName,
	IdleLatencyTableName,
	PeakBandwidthTableName,
	NodeBandwidthTableName,
	LoadedLatencyTableName,
	CacheToCacheLocalTableName,
	RemoteHitmWriterHomedTableName,
	RemoteHitmReaderHomedTableName,
	ParseWarningsTableName,
}

// GetTableDefinition returns the definition of the table with the given name
func GetTableDefinition(name string) (TableDefinition, bool) {
	def, ok := tableDefinitions[name]
	return def, ok
}

// ReportTables returns the definitions of the report tables in report order
func ReportTables() []TableDefinition {
	var defs []TableDefinition
	for _, name := range ReportTableNames {
		defs = append(defs, tableDefinitions[name])
	}
	return defs
}

func mlcSummaryTableValues(report *mlc.Report) []Field {
	version := report.ToolVersion
	if version == "" {
		version = "unknown"
	}
	return []Field{
		{Name: "Tool Version", Values: []string{version}},
		{Name: "NUMA Nodes", Values: []string{strconv.Itoa(report.NumaNodeCount)}},
		{Name: "Sections", Values: []string{sectionNames(report)}},
	}
}

func idleLatencyTableValues(report *mlc.Report) []Field {
	return matrixFields(report.IdleLatencies)
}

func nodeBandwidthTableValues(report *mlc.Report) []Field {
	return matrixFields(report.InterNodeBandwidths)
}

func peakBandwidthTableValues(report *mlc.Report) []Field {
	if len(report.PeakBandwidths) == 0 {
		return []Field{}
	}
	fields := []Field{
		{Name: "Traffic"},
		{Name: "Bandwidth"},
		{Name: "Unit", Description: "as printed after the value, if any"},
	}
	for _, bandwidth := range report.PeakBandwidths {
		fields[0].Values = append(fields[0].Values, bandwidth.Label)
		fields[1].Values = append(fields[1].Values, formatFloat(bandwidth.Value))
		fields[2].Values = append(fields[2].Values, bandwidth.Unit)
	}
	return fields
}

func loadedLatencyTableValues(report *mlc.Report) []Field {
	if len(report.LoadedLatencies) == 0 {
		return []Field{}
	}
	/* MLC Output:
	Inject	Latency	Bandwidth
	Delay	(ns)	MB/sec
	==========================
	 00000	261.65	 225060.9
	 00002	261.63	 225040.5
	*/
	fields := []Field{
		{Name: "Inject Delay"},
		{Name: "Latency (ns)"},
		{Name: "Bandwidth"},
	}
	for _, sample := range report.LoadedLatencies {
		fields[0].Values = append(fields[0].Values, strconv.Itoa(sample.Delay))
		fields[1].Values = append(fields[1].Values, formatFloat(sample.Latency))
		fields[2].Values = append(fields[2].Values, formatFloat(sample.Bandwidth))
	}
	return fields
}

func cacheToCacheLocalTableValues(report *mlc.Report) []Field {
	c2c := report.CacheToCache
	if c2c == nil || (c2c.LocalHit.IsMissing() && c2c.LocalHitm.IsMissing()) {
		return []Field{}
	}
	return []Field{
		{Name: "L2->L2 HIT (ns)", Description: "clean line in another core's cache", Values: []string{c2c.LocalHit.String()}},
		{Name: "L2->L2 HITM (ns)", Description: "modified line in another core's cache", Values: []string{c2c.LocalHitm.String()}},
	}
}

func remoteHitmWriterHomedTableValues(report *mlc.Report) []Field {
	if report.CacheToCache == nil {
		return []Field{}
	}
	return matrixFields(&report.CacheToCache.RemoteHitmWriterHomed)
}

func remoteHitmReaderHomedTableValues(report *mlc.Report) []Field {
	if report.CacheToCache == nil {
		return []Field{}
	}
	return matrixFields(&report.CacheToCache.RemoteHitmReaderHomed)
}

func parseWarningsTableValues(report *mlc.Report) []Field {
	if len(report.Warnings) == 0 {
		return []Field{}
	}
	return []Field{{Name: "Warning", Values: append([]string(nil), report.Warnings...)}}
}
