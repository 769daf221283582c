package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"mlcreport/internal/mlc"
	"mlcreport/internal/report"
	"mlcreport/internal/table"
	"mlcreport/internal/util"
)

// ComparisonReportName is the file name, without extension, of comparison reports
const ComparisonReportName = "mlc_comparison"

// multiInputFormats combine all inputs into one report
var multiInputFormats = []string{report.FormatHtml, report.FormatXlsx}

// WriteReports writes one report per input and format to the output
// directory, and returns the paths of the written files. If only the txt
// format is requested, the reports are also printed.
func WriteReports(appContext AppContext, inputs []Input, formats []string) ([]string, error) {
	if err := CreateOutputDir(appContext.OutputDir); err != nil {
		return nil, err
	}
	reportFilePaths := []string{}
	for _, input := range inputs {
		paths, err := writeInputReports(appContext, input, formats)
		if err != nil {
			return nil, err
		}
		reportFilePaths = append(reportFilePaths, paths...)
	}
	return reportFilePaths, nil
}

// WriteComparisonReports writes the reports of two or more inputs. Multi-input
// formats (html, xlsx) get one combined report that starts with the comparison
// table. Other formats get one report per input plus a comparison report.
func WriteComparisonReports(appContext AppContext, inputs []Input, formats []string) ([]string, error) {
	if len(inputs) < 2 {
		return nil, fmt.Errorf("at least two inputs are required for a comparison, found %d", len(inputs))
	}
	if err := CreateOutputDir(appContext.OutputDir); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(inputs))
	reports := make([]*mlc.Report, 0, len(inputs))
	for _, input := range inputs {
		names = append(names, input.Name)
		reports = append(reports, input.Report)
	}
	comparison := table.ComparisonTable(reports, names)

	reportFilePaths := []string{}
	var singleInputFormats []string
	for _, format := range formats {
		if !slices.Contains(multiInputFormats, format) {
			singleInputFormats = append(singleInputFormats, format)
		}
	}
	for _, input := range inputs {
		paths, err := writeInputReports(appContext, input, singleInputFormats)
		if err != nil {
			return nil, err
		}
		reportFilePaths = append(reportFilePaths, paths...)
	}
	// the comparison table alone, for formats that hold a single input
	for _, format := range singleInputFormats {
		if format == report.FormatRaw {
			continue
		}
		reportBytes, err := report.Create(format, []table.TableValues{comparison}, ComparisonReportName, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create comparison %s report: %w", format, err)
		}
		reportPath := filepath.Join(appContext.OutputDir, fmt.Sprintf("%s.%s", ComparisonReportName, format))
		if err = writeReport(reportBytes, reportPath); err != nil {
			return nil, err
		}
		reportFilePaths = append(reportFilePaths, reportPath)
	}
	// the combined report, comparison table first
	allInputsTableValues := make([][]table.TableValues, 0, len(inputs))
	allInputsTableNames := make([][]string, 0, len(inputs))
	for i, input := range inputs {
		allTableValues := table.ProcessTables(table.ReportTables(), input.Report)
		if i == 0 {
			allTableValues = append([]table.TableValues{comparison}, allTableValues...)
		}
		allInputsTableValues = append(allInputsTableValues, allTableValues)
		allInputsTableNames = append(allInputsTableNames, tableNames(allTableValues))
	}
	mergedTableNames := util.MergeOrderedUnique(allInputsTableNames)
	for _, format := range formats {
		if !slices.Contains(multiInputFormats, format) {
			continue
		}
		reportBytes, err := report.CreateMultiTarget(format, allInputsTableValues, names, mergedTableNames, table.MLCSummaryTableName)
		if err != nil {
			return nil, fmt.Errorf("failed to create multi-input %s report: %w", format, err)
		}
		reportPath := filepath.Join(appContext.OutputDir, fmt.Sprintf("%s.%s", ComparisonReportName, format))
		if err = writeReport(reportBytes, reportPath); err != nil {
			return nil, err
		}
		reportFilePaths = append(reportFilePaths, reportPath)
	}
	return reportFilePaths, nil
}

// writeInputReports writes the reports of one input in the requested formats
func writeInputReports(appContext AppContext, input Input, formats []string) ([]string, error) {
	reportFilePaths := []string{}
	allTableValues := table.ProcessTables(table.ReportTables(), input.Report)
	for _, format := range formats {
		var reportBytes []byte
		var err error
		if format == report.FormatRaw {
			reportBytes, err = report.CreateRawReport(table.ReportTables(), input.Report, input.Name)
		} else {
			reportBytes, err = report.Create(format, allTableValues, input.Name, table.MLCSummaryTableName)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create %s report for %s: %w", format, input.Name, err)
		}
		if len(formats) == 1 && format == report.FormatTxt {
			fmt.Printf("%s:\n", input.Name)
			fmt.Print(string(reportBytes))
		}
		reportPath := filepath.Join(appContext.OutputDir, fmt.Sprintf("%s.%s", input.Name, format))
		if err = writeReport(reportBytes, reportPath); err != nil {
			return nil, err
		}
		reportFilePaths = append(reportFilePaths, reportPath)
	}
	return reportFilePaths, nil
}

// writeReport writes the report bytes to the specified path.
func writeReport(reportBytes []byte, reportPath string) error {
	err := os.WriteFile(reportPath, reportBytes, 0644) // #nosec G306
	if err != nil {
		err = fmt.Errorf("failed to write report file: %w", err)
		slog.Error(err.Error())
		return err
	}
	slog.Debug("wrote report", slog.String("path", reportPath))
	return nil
}

func tableNames(allTableValues []table.TableValues) []string {
	names := make([]string, 0, len(allTableValues))
	for _, tableValues := range allTableValues {
		names = append(names, tableValues.Name)
	}
	return names
}

// PrintReportPaths prints the paths of the written report files
func PrintReportPaths(reportFilePaths []string) {
	if len(reportFilePaths) > 0 {
		fmt.Println("Report files:")
	}
	for _, reportFilePath := range reportFilePaths {
		fmt.Printf("  %s\n", reportFilePath)
	}
}
