package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mlcreport/internal/mlc"
	"mlcreport/internal/report"
	"mlcreport/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOutput = `Intel(R) Memory Latency Checker - v3.11
Measuring idle latencies for random access (in ns)...
		Numa node
Numa node	     0	     1
       0	  82.6	 136.9
       1	 137.2	  82.9

Measuring Peak Injection Memory Bandwidths for the system
Using traffic with the following read-write ratios
ALL Reads        :	221712.2
Stream-triad like:	182328.3
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExpandFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		want    []string
	}{
		{name: "all", formats: []string{report.FormatAll}, want: AllFormats},
		{name: "all with others", formats: []string{report.FormatTxt, report.FormatAll}, want: AllFormats},
		{name: "single", formats: []string{report.FormatJson}, want: []string{report.FormatJson}},
		{name: "duplicates", formats: []string{report.FormatTxt, report.FormatRaw, report.FormatTxt}, want: []string{report.FormatTxt, report.FormatRaw}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandFormats(tt.formats))
		})
	}
}

func TestValidateFormats(t *testing.T) {
	assert.NoError(t, ValidateFormats([]string{report.FormatAll, report.FormatRaw, report.FormatXlsx}))
	assert.Error(t, ValidateFormats([]string{report.FormatHtml, "pdf"}))
}

func TestInputSources(t *testing.T) {
	dir := t.TempDir()
	inputsFile := writeFile(t, dir, "inputs.yaml", `inputs:
  - name: baseline run
    path: baseline.txt
  - path: /data/tuned.txt
`)
	emptyFile := writeFile(t, dir, "empty.yaml", "inputs: []\n")
	noPathFile := writeFile(t, dir, "nopath.yaml", "inputs:\n  - name: x\n")
	invalidFile := writeFile(t, dir, "invalid.yaml", "inputs: {name: [\n")

	tests := []struct {
		name       string
		args       []string
		inputsFile string
		want       []InputSource
		wantErr    bool
	}{
		{
			name: "arguments",
			args: []string{"results/mlc_v3.11.txt", "-"},
			want: []InputSource{{Name: "mlc_v3.11", Path: "results/mlc_v3.11.txt"}, {Name: "stdin", Path: StdinPath}},
		},
		{
			name:       "inputs file after arguments",
			args:       []string{"other.log"},
			inputsFile: inputsFile,
			want: []InputSource{
				{Name: "other", Path: "other.log"},
				{Name: "baseline_run", Path: filepath.Join(dir, "baseline.txt")},
				{Name: "tuned", Path: "/data/tuned.txt"},
			},
		},
		{name: "no inputs", wantErr: true},
		{name: "stdin twice", args: []string{"-", "-"}, wantErr: true},
		{name: "empty inputs file", inputsFile: emptyFile, wantErr: true},
		{name: "entry without path", inputsFile: noPathFile, wantErr: true},
		{name: "invalid yaml", inputsFile: invalidFile, wantErr: true},
		{name: "missing inputs file", inputsFile: filepath.Join(dir, "missing.yaml"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources, err := InputSources(tt.args, tt.inputsFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sources)
		})
	}
}

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	textPath := writeFile(t, dir, "host1.txt", testOutput)
	rawDir := filepath.Join(dir, "raw")
	require.NoError(t, os.Mkdir(rawDir, 0o755))
	rawBytes, err := report.CreateRawReport(table.ReportTables(), mlc.Parse(testOutput), "host2")
	require.NoError(t, err)
	writeFile(t, rawDir, "host2"+report.RawExtension, string(rawBytes))

	sources := []InputSource{
		{Name: "host1", Path: textPath},
		{Name: "raw", Path: rawDir},
		{Name: "piped", Path: StdinPath},
	}
	inputs, err := LoadInputs(sources, strings.NewReader(testOutput))
	require.NoError(t, err)
	require.Len(t, inputs, 3)
	assert.Equal(t, "host1", inputs[0].Name)
	assert.Equal(t, "host2", inputs[1].Name)
	assert.Equal(t, "piped", inputs[2].Name)
	for _, input := range inputs {
		assert.Equal(t, "v3.11", input.Report.ToolVersion)
		assert.Equal(t, 2, input.Report.NumaNodeCount)
	}
}

func TestLoadInputsErrors(t *testing.T) {
	dir := t.TempDir()
	textPath := writeFile(t, dir, "host1.txt", testOutput)
	emptyDir := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(emptyDir, 0o755))

	tests := []struct {
		name    string
		sources []InputSource
	}{
		{name: "missing file", sources: []InputSource{{Name: "missing", Path: filepath.Join(dir, "missing.txt")}}},
		{name: "duplicate names", sources: []InputSource{{Name: "host1", Path: textPath}, {Name: "host1", Path: textPath}}},
		{name: "comparison report name", sources: []InputSource{{Name: ComparisonReportName, Path: textPath}}},
		{name: "no raw reports", sources: []InputSource{{Name: "empty", Path: emptyDir}}},
		{name: "invalid raw report", sources: []InputSource{{Name: "bad", Path: writeFile(t, dir, "bad"+report.RawExtension, "{")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadInputs(tt.sources, strings.NewReader(""))
			assert.Error(t, err)
		})
	}
}

func TestNonEmptyInputs(t *testing.T) {
	inputs := []Input{
		{Name: "full", Report: mlc.Parse(testOutput)},
		{Name: "banner only", Report: mlc.Parse("Intel(R) Memory Latency Checker - v3.11\n")},
		{Name: "nil"},
	}
	nonEmpty := NonEmptyInputs(inputs)
	require.Len(t, nonEmpty, 1)
	assert.Equal(t, "full", nonEmpty[0].Name)
}

func TestWriteReports(t *testing.T) {
	appContext := AppContext{OutputDir: filepath.Join(t.TempDir(), "out")}
	inputs := []Input{{Name: "host1", Report: mlc.Parse(testOutput)}}
	paths, err := WriteReports(appContext, inputs, AllFormats)
	require.NoError(t, err)
	require.Len(t, paths, len(AllFormats))
	for _, format := range AllFormats {
		assert.FileExists(t, filepath.Join(appContext.OutputDir, "host1."+format))
	}
	rawReports, err := report.ReadRawReports(filepath.Join(appContext.OutputDir, "host1"+report.RawExtension))
	require.NoError(t, err)
	require.Len(t, rawReports, 1)
	assert.Equal(t, inputs[0].Report, rawReports[0].Report)
}

func TestWriteComparisonReports(t *testing.T) {
	appContext := AppContext{OutputDir: t.TempDir()}
	inputs := []Input{
		{Name: "baseline", Report: mlc.Parse(testOutput)},
		{Name: "tuned", Report: mlc.Parse(strings.Replace(testOutput, "221712.2", "243883.4", 1))},
	}
	paths, err := WriteComparisonReports(appContext, inputs, []string{report.FormatHtml, report.FormatTxt})
	require.NoError(t, err)
	expected := []string{
		filepath.Join(appContext.OutputDir, "baseline.txt"),
		filepath.Join(appContext.OutputDir, "tuned.txt"),
		filepath.Join(appContext.OutputDir, ComparisonReportName+".txt"),
		filepath.Join(appContext.OutputDir, ComparisonReportName+".html"),
	}
	assert.Equal(t, expected, paths)
	comparison, err := os.ReadFile(filepath.Join(appContext.OutputDir, ComparisonReportName+".txt"))
	require.NoError(t, err)
	assert.Contains(t, string(comparison), table.ComparisonTableName)
	assert.Contains(t, string(comparison), "+10.0%")
	assert.NoFileExists(t, filepath.Join(appContext.OutputDir, "baseline.html"))

	_, err = WriteComparisonReports(appContext, inputs[:1], []string{report.FormatTxt})
	assert.Error(t, err)
}
