// Package common defines data structures and functions that are used by multiple
// application commands, e.g., parse, compare, serve.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mlcreport/internal/report"
	"mlcreport/internal/util"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	Timestamp   string // Timestamp is the application startup time.
	OutputDir   string // OutputDir is the directory where the application will write output files.
	LogFilePath string // LogFilePath is the path to the log file, empty when logging elsewhere.
	Version     string // Version is the version of the application.
	Debug       bool   // Debug is true when debug logging is enabled.
}

type Flag struct {
	Name string
	Help string
}
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

var (
	FlagFormat []string
)

const (
	FlagFormatName = "format"
)

// AllFormats are the formats written when the "all" format is requested
var AllFormats = append(slices.Clone(report.FormatOptions), report.FormatRaw)

// FormatChoices are the values accepted by the format flag
var FormatChoices = append([]string{report.FormatAll}, AllFormats...)

// GetAppContext returns the application context stored in the root command's context
func GetAppContext(cmd *cobra.Command) AppContext {
	return cmd.Root().Context().Value(AppContext{}).(AppContext)
}

// ValidateFormats returns an error if any of the formats is not a format choice
func ValidateFormats(formats []string) error {
	for _, format := range formats {
		if !slices.Contains(FormatChoices, format) {
			return fmt.Errorf("format options are: %s", strings.Join(FormatChoices, ", "))
		}
	}
	return nil
}

// ExpandFormats replaces the "all" format with all report formats
func ExpandFormats(formats []string) []string {
	if slices.Contains(formats, report.FormatAll) {
		return AllFormats
	}
	var expanded []string
	for _, format := range formats {
		expanded = util.UniqueAppend(expanded, format)
	}
	return expanded
}

// CreateOutputDir creates the output directory if it does not exist
func CreateOutputDir(outputDir string) error {
	err := util.CreateDirectoryIfNotExists(outputDir, 0755) // #nosec G301
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// FlagValidationError is used to report an error with a flag
func FlagValidationError(cmd *cobra.Command, msg string) error {
	err := errors.New(msg)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintf(os.Stderr, "See '%s --help' for usage details.\n", cmd.CommandPath())
	cmd.SilenceUsage = true
	return err
}

// CommandError reports an error that ends a command
func CommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}

// UsageFunc returns a usage function that prints the flag groups followed by the global flags
func UsageFunc(use string, flagGroups func() []FlagGroup) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		cmd.Printf("Usage: %s %s [flags]\n\n", cmd.CommandPath(), use)
		cmd.Printf("Examples:\n%s\n\n", cmd.Example)
		cmd.Println("Flags:")
		for _, group := range flagGroups() {
			cmd.Printf("  %s:\n", group.GroupName)
			for _, flag := range group.Flags {
				flagDefault := ""
				if lookup := cmd.Flags().Lookup(flag.Name); lookup != nil && lookup.DefValue != "" && lookup.DefValue != "[]" {
					flagDefault = fmt.Sprintf(" (default: %s)", lookup.DefValue)
				}
				cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
			}
		}
		cmd.Println("\nGlobal Flags:")
		cmd.Root().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
			flagDefault := ""
			if pf.DefValue != "" && pf.DefValue != "false" {
				flagDefault = fmt.Sprintf(" (default: %s)", pf.DefValue)
			}
			cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
		})
		return nil
	}
}

// GetFormatFlagGroup returns the flag group for the report format
func GetFormatFlagGroup() FlagGroup {
	return FlagGroup{
		GroupName: "Output Options",
		Flags: []Flag{
			{
				Name: FlagFormatName,
				Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(FormatChoices, ", ")),
			},
		},
	}
}

// AddFormatFlag adds the report format flag to the command
func AddFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&FlagFormat, FlagFormatName, []string{report.FormatAll}, "")
}
