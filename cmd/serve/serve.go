// Package serve is a subcommand of the root command. It exports mlc measurements as Prometheus metrics.
package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mlcreport/internal/common"

	"github.com/spf13/cobra"
)

const cmdName = "serve"

var examples = []string{
	fmt.Sprintf("  Export an mlc output:          $ %s %s mlc_output.txt", common.AppName, cmdName),
	fmt.Sprintf("  Export named mlc outputs:      $ %s %s --inputs inputs.yaml --listen 127.0.0.1:9090", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " [file ...]",
	Short:         "Export mlc measurements as Prometheus metrics",
	Long:          "Parse each mlc output and serve the measurements on /metrics until interrupted.",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
}

var (
	flagListen string
)

const (
	flagListenName = "listen"
)

const shutdownTimeout = 5 * time.Second

func init() {
	Cmd.Flags().StringVar(&flagListen, flagListenName, ":9090", "")
	common.AddInputFlags(Cmd)

	Cmd.SetUsageFunc(common.UsageFunc("[file ...]", getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	return []common.FlagGroup{
		{
			GroupName: "Server Options",
			Flags: []common.Flag{
				{Name: flagListenName, Help: "address to serve Prometheus metrics on"},
			},
		},
		common.GetInputFlagGroup(),
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if _, _, err := net.SplitHostPort(flagListen); err != nil {
		return common.FlagValidationError(cmd, fmt.Sprintf("invalid listen address %s: %v", flagListen, err))
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
		return common.CommandError(cmd, errors.New("no mlc measurements to export"))
	}
	e := newExporter()
	for _, input := range inputs {
		e.export(input.Name, input.Report)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	fmt.Printf("Serving mlc metrics at http://%s/metrics, press Ctrl+c to stop\n", flagListen)
	if err := serve(ctx, flagListen, e.handler()); err != nil {
		return common.CommandError(cmd, err)
	}
	return nil
}

// serve runs the HTTP server until the context is done
func serve(ctx context.Context, listenAddr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	slog.Info("Starting Prometheus metrics server", slog.String("address", listenAddr))
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()
	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("stopping Prometheus metrics server")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop metrics server: %w", err)
	}
	return nil
}
