// Package parse is a subcommand of the root command. It generates reports from mlc output.
package parse

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"strings"

	"mlcreport/internal/common"

	"github.com/spf13/cobra"
)

const cmdName = "parse"

var examples = []string{
	fmt.Sprintf("  Reports from an mlc output file:      $ %s %s mlc_output.txt", common.AppName, cmdName),
	fmt.Sprintf("  Reports from piped mlc output:        $ mlc | %s %s -", common.AppName, cmdName),
	fmt.Sprintf("  Specific report formats:              $ %s %s mlc_output.txt --format html,json", common.AppName, cmdName),
	fmt.Sprintf("  Reports from named outputs:           $ %s %s --inputs inputs.yaml", common.AppName, cmdName),
	fmt.Sprintf("  Reports from previous raw reports:    $ %s %s mlcreport_2025-01-01_10-00-00/", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " [file ...]",
	Short:         "Generate reports from mlc output",
	Long:          "Parse the text output of mlc and write reports for each input. Use - to read the output from stdin.",
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

	Cmd.SetUsageFunc(common.UsageFunc("[file ...]", getFlagGroups))
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
	if len(args) == 0 && common.InputsFilePath() == "" {
		return common.FlagValidationError(cmd, fmt.Sprintf("no input provided, specify mlc output file(s), %s for stdin, or --%s", common.StdinPath, common.FlagInputsFileName))
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
	if len(inputs) == 0 {
		return nil
	}
	reportFilePaths, err := common.WriteReports(appContext, inputs, common.ExpandFormats(common.FlagFormat))
	if err != nil {
		return common.CommandError(cmd, err)
	}
	common.PrintReportPaths(reportFilePaths)
	return nil
}
