package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mlcreport/internal/mlc"
	"mlcreport/internal/report"
	"mlcreport/internal/util"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"
)

// StdinPath is the input argument that reads mlc output from stdin
const StdinPath = "-"

const stdinInputName = "stdin"

// input flags
var (
	flagInputsFile string
)

// input flag names
const (
	FlagInputsFileName = "inputs"
)

var inputFlags = []Flag{
	{Name: FlagInputsFileName, Help: "file with named mlc output paths. See inputs.yaml for format."},
}

func AddInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagInputsFile, FlagInputsFileName, "", inputFlags[0].Help)
}

func GetInputFlagGroup() FlagGroup {
	return FlagGroup{
		GroupName: "Input Options",
		Flags:     inputFlags,
	}
}

// ValidateInputFlags confirms that the inputs file exists
func ValidateInputFlags() error {
	if flagInputsFile != "" {
		exists, err := util.FileExists(flagInputsFile)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("inputs file %s does not exist", flagInputsFile)
		}
	}
	return nil
}

// InputsFilePath returns the value of the inputs flag
func InputsFilePath() string {
	return flagInputsFile
}

// InputSource names an mlc output and where to read it from. The path is a
// text file, a raw report, a directory of raw reports, or StdinPath.
type InputSource struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type inputsFile struct {
	Inputs []InputSource `yaml:"inputs"`
}

// Input is a parsed mlc output
type Input struct {
	Name   string
	Report *mlc.Report
}

// InputSources returns the sources named by the command arguments followed
// by those listed in the inputs file, if any.
func InputSources(args []string, inputsFilePath string) ([]InputSource, error) {
	var sources []InputSource
	for _, arg := range args {
		sources = append(sources, sourceFromPath(arg))
	}
	if inputsFilePath != "" {
		fileSources, err := readInputsFile(inputsFilePath)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fileSources...)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no input provided, specify mlc output file(s), %s for stdin, or --%s", StdinPath, FlagInputsFileName)
	}
	stdinCount := 0
	for _, source := range sources {
		if source.Path == StdinPath {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return nil, fmt.Errorf("stdin (%s) can only be used as one input", StdinPath)
	}
	return sources, nil
}

// sourceFromPath names the source after the file name without its extension
func sourceFromPath(path string) InputSource {
	if path == StdinPath {
		return InputSource{Name: stdinInputName, Path: StdinPath}
	}
	base := filepath.Base(path)
	return InputSource{Name: util.SanitizeName(strings.TrimSuffix(base, filepath.Ext(base))), Path: path}
}

// readInputsFile reads the inputs YAML file. Relative paths are relative to
// the directory of the inputs file. Example:
//
//	inputs:
//	  - name: baseline
//	    path: mlc_baseline.txt
//	  - name: tuned
//	    path: mlc_tuned.txt
func readInputsFile(inputsFilePath string) ([]InputSource, error) {
	var file inputsFile
	yamlFile, err := os.ReadFile(inputsFilePath) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read inputs file: %w", err)
	}
	if err = yaml.Unmarshal(yamlFile, &file); err != nil {
		return nil, fmt.Errorf("failed to parse inputs file %s: %w", inputsFilePath, err)
	}
	if len(file.Inputs) == 0 {
		return nil, fmt.Errorf("no inputs found in inputs file %s", inputsFilePath)
	}
	baseDir := filepath.Dir(inputsFilePath)
	var sources []InputSource
	for i, entry := range file.Inputs {
		if entry.Path == "" {
			return nil, fmt.Errorf("input %d in inputs file %s has no path", i+1, inputsFilePath)
		}
		path := entry.Path
		if path != StdinPath {
			path = util.ExpandUser(path)
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
		}
		source := sourceFromPath(path)
		if entry.Name != "" {
			source.Name = util.SanitizeName(entry.Name)
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// LoadInputs reads and parses the sources concurrently and returns the inputs
// in the order of the sources. A directory of raw reports yields one input per
// raw report. Input names must be unique and differ from ComparisonReportName.
func LoadInputs(sources []InputSource, stdin io.Reader) ([]Input, error) {
	results := make([][]Input, len(sources))
	errs := make([]error, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		i, source := i, source
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = loadInput(source, stdin)
		}()
	}
	wg.Wait()
	var inputs []Input
	names := mapset.NewThreadUnsafeSet[string]()
	for i, source := range sources {
		if errs[i] != nil {
			return nil, errs[i]
		}
		for _, input := range results[i] {
			if input.Name == ComparisonReportName {
				return nil, fmt.Errorf("input name %q (from %s) is reserved for the comparison report, use --%s to rename the input", input.Name, source.Path, FlagInputsFileName)
			}
			if !names.Add(input.Name) {
				return nil, fmt.Errorf("duplicate input name %q (from %s), use --%s to name the inputs", input.Name, source.Path, FlagInputsFileName)
			}
			inputs = append(inputs, input)
		}
	}
	return inputs, nil
}

func loadInput(source InputSource, stdin io.Reader) ([]Input, error) {
	if source.Path == StdinPath {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, fmt.Errorf("refusing to read mlc output from an interactive terminal, pipe the mlc output to %s", AppName)
		}
		mlcReport, err := mlc.ParseReader(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read mlc output from stdin: %w", err)
		}
		slog.Debug("parsed input", slog.String("input", source.Name), slog.String("path", source.Path))
		return []Input{{Name: source.Name, Report: mlcReport}}, nil
	}
	isDir, err := util.DirectoryExists(source.Path)
	if (err == nil && isDir) || report.IsRawReportPath(source.Path) {
		return loadRawInputs(source)
	}
	exists, err := util.FileExists(source.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", source.Path, err)
	}
	if !exists {
		return nil, fmt.Errorf("input file %s does not exist", source.Path)
	}
	f, err := os.Open(source.Path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", source.Path, err)
	}
	defer f.Close()
	mlcReport, err := mlc.ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", source.Path, err)
	}
	slog.Debug("parsed input", slog.String("input", source.Name), slog.String("path", source.Path))
	return []Input{{Name: source.Name, Report: mlcReport}}, nil
}

// loadRawInputs reads previously parsed reports. The name stored in a raw
// report takes precedence over the source name.
func loadRawInputs(source InputSource) ([]Input, error) {
	rawReports, err := report.ReadRawReports(source.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw report(s): %w", err)
	}
	if len(rawReports) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", report.RawExtension, source.Path)
	}
	var inputs []Input
	for _, rawReport := range rawReports {
		name := source.Name
		if rawReport.InputName != "" {
			name = util.SanitizeName(rawReport.InputName)
		}
		inputs = append(inputs, Input{Name: name, Report: rawReport.Report})
	}
	return inputs, nil
}

// NonEmptyInputs returns the inputs whose report holds at least one
// measurement. A message is printed for each input left out.
func NonEmptyInputs(inputs []Input) []Input {
	var nonEmpty []Input
	for _, input := range inputs {
		if input.Report == nil || input.Report.Empty() {
			fmt.Fprintf(os.Stderr, "No mlc measurements found in %s, no report created.\n", input.Name)
			slog.Warn("no mlc measurements found", slog.String("input", input.Name))
			continue
		}
		nonEmpty = append(nonEmpty, input)
	}
	return nonEmpty
}
