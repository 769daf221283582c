// Package compare is a subcommand of the root command. It compares the output of two or more mlc runs.
package compare

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"strings"

	"mlcreport/internal/common"

	"github.com/spf13/cobra"
)

const cmdName = "compare"

var examples = []string{
	fmt.Sprintf("  Compare two mlc runs:             $ %s %s baseline.txt tuned.txt", common.AppName, cmdName),
	fmt.Sprintf("  Compare named mlc runs:           $ %s %s --inputs inputs.yaml", common.AppName, cmdName),
	fmt.Sprintf("  Comparison as an html report:     $ %s %s baseline.txt tuned.txt --format html", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:   cmdName + " <file> <file> [file ...]",
	Short: "Compare the output of two or more mlc runs",
	Long: "Parse each mlc output and compare their measurements. The first input is the baseline. " +
		"Html and xlsx reports combine all inputs, other formats get a report per input plus a comparison report.",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
}

func init() {
	common.AddFormatFlag(Cmd)
	common.AddInputFlags(Cmd)

	Cmd.SetUsageFunc(common.UsageFunc("<file> <file> [file ...]", getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	return []common.FlagGroup{
		common.GetFormatFlagGroup(),
		common.GetInputFlagGroup(),
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if err := common.ValidateFormats(common.FlagFormat); err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	if err := common.ValidateInputFlags(); err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	if len(args) < 2 && common.InputsFilePath() == "" {
		return common.FlagValidationError(cmd, "at least two inputs are required for a comparison")
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	sources, err := common.InputSources(args, common.InputsFilePath())
	if err != nil {
		return common.CommandError(cmd, err)
	}
	inputs, err := common.LoadInputs(sources, os.Stdin)
	if err != nil {
		return common.CommandError(cmd, err)
	}
	inputs = common.NonEmptyInputs(inputs)
	if len(inputs) < 2 {
		return common.CommandError(cmd, fmt.Errorf("at least two inputs with mlc measurements are required for a comparison, found %d", len(inputs)))
	}
	reportFilePaths, err := common.WriteComparisonReports(appContext, inputs, common.ExpandFormats(common.FlagFormat))
	if err != nil {
		return common.CommandError(cmd, err)
	}
	common.PrintReportPaths(reportFilePaths)
	return nil
}
