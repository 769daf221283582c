// Package report provides functions to generate reports in various formats such as txt, json, html, xlsx.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"mlcreport/internal/table"
)

const (
	FormatHtml = "html"
	FormatXlsx = "xlsx"
	FormatJson = "json"
	FormatTxt  = "txt"
	FormatRaw  = "raw"
	FormatAll  = "all"
)

const NoDataFound = "No data found."

var FormatOptions = []string{FormatHtml, FormatXlsx, FormatJson, FormatTxt}

// Create generates a report in the specified format based on the provided table values.
// The function ensures that all fields have the same number of values before generating the report.
// It supports formats such as txt, json, html, xlsx.
// If the format is not supported, the function panics with an error message.
//
// Parameters:
// - format: The desired format of the report (txt, json, html, xlsx).
// - allTableValues: The values for each field in each table.
// - inputName: The name of the mlc output the report is generated for.
// - briefTableName: The table placed on its own sheet in xlsx reports.
//
// Returns:
// - out: The generated report as a byte slice.
// - err: An error, if any occurred during report generation.
func Create(format string, allTableValues []table.TableValues, inputName string, briefTableName string) (out []byte, err error) {
	// make sure that all fields have the same number of values
	for _, tableValue := range allTableValues {
		numRows := -1
		for _, fieldValues := range tableValue.Fields {
			if numRows == -1 {
				numRows = len(fieldValues.Values)
				continue
			}
			if len(fieldValues.Values) != numRows {
				return nil, fmt.Errorf("expected %d value(s) for field, found %d", numRows, len(fieldValues.Values))
			}
		}
	}
	// create the report based on the specified format
	switch format {
	case FormatTxt:
		return createTextReport(allTableValues)
	case FormatJson:
		return createJsonReport(allTableValues)
	case FormatHtml:
		return createHtmlReport(allTableValues, inputName)
	case FormatXlsx:
		return createXlsxReport(allTableValues, briefTableName)
	}
	panic(fmt.Sprintf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format))
}

// CreateMultiTarget generates a report in the specified format for multiple mlc outputs.
// It supports "html" and "xlsx" formats. The function takes the following parameters:
//
// - format: A string specifying the desired report format ("html" or "xlsx").
// - allTargetsTableValues: A 2D slice of TableValues containing data for all inputs.
// - targetNames: A slice of strings representing the names of the inputs.
// - allTableNames: A slice of strings representing the names of the tables, in report order.
// - briefTableName: The table placed on its own sheet in xlsx reports.
//
// A table held by only one of several inputs, e.g., the comparison table, is
// rendered once without the input name.
//
// Returns:
// - out: A byte slice containing the generated report.
// - err: An error if the report generation fails.
//
// Note: If an unsupported format is provided, the function will panic.
func CreateMultiTarget(format string, allTargetsTableValues [][]table.TableValues, targetNames []string, allTableNames []string, briefTableName string) (out []byte, err error) {
	if len(allTargetsTableValues) != len(targetNames) {
		return nil, fmt.Errorf("expected %d target name(s), found %d", len(allTargetsTableValues), len(targetNames))
	}
	switch format {
	case FormatHtml:
		return createHtmlReportMultiTarget(allTargetsTableValues, targetNames, allTableNames)
	case FormatXlsx:
		return createXlsxReportMultiTarget(allTargetsTableValues, targetNames, allTableNames, briefTableName)
	}
	panic("only HTML and XLSX multi-target report supported currently")
}

// findTableIndex returns the index of the named table, or -1
func findTableIndex(tableValues []table.TableValues, tableName string) int {
	for i, tableValue := range tableValues {
		if tableValue.Name == tableName {
			return i
		}
	}
	return -1
}

// tableTargets returns the names of the targets that have values for the table,
// and those values
func tableTargets(allTargetsTableValues [][]table.TableValues, targetNames []string, tableName string) ([]string, []table.TableValues) {
	names := []string{}
	values := []table.TableValues{}
	for targetIndex, targetTableValues := range allTargetsTableValues {
		tableIndex := findTableIndex(targetTableValues, tableName)
		if tableIndex == -1 {
			continue
		}
		names = append(names, targetNames[targetIndex])
		values = append(values, targetTableValues[tableIndex])
	}
	return names, values
}

func noDataMessage(tableValues table.TableValues) string {
	if tableValues.NoDataFound != "" {
		return tableValues.NoDataFound
	}
	return NoDataFound
}

func hasData(tableValues table.TableValues) bool {
	return len(tableValues.Fields) > 0 && len(tableValues.Fields[0].Values) > 0
}
