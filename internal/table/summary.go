// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// summary.go derives the memory summary metrics from the parsed measurements.
// Each metric is an expression over the variables returned by summaryVariables.

package table

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"

	"mlcreport/internal/mlc"

	"github.com/casbin/govaluate"
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type summaryMetric struct {
	Name        string
	Description string
	Expression  string
	Format      string
	Evaluable   *govaluate.EvaluableExpression
}

var summaryMetrics = []summaryMetric{
	{Name: "Local Idle Latency (ns)", Description: "mean of same-node idle latencies", Expression: "local_idle_latency", Format: "%.1f"},
	{Name: "Remote Idle Latency (ns)", Description: "mean of cross-node idle latencies", Expression: "remote_idle_latency", Format: "%.1f"},
	{Name: "Remote/Local Latency Ratio", Expression: "remote_idle_latency / local_idle_latency", Format: "%.2f"},
	{Name: "Peak Read Bandwidth", Description: "ALL Reads peak injection bandwidth", Expression: "all_reads_bw", Format: "%.1f"},
	{Name: "Stream-Triad/All-Reads Ratio", Expression: "stream_triad_bw / all_reads_bw", Format: "%.2f"},
	{Name: "Remote/Local Node Bandwidth Ratio", Expression: "remote_node_bw / local_node_bw", Format: "%.2f"},
	{Name: "Loaded Latency Increase", Description: "highest over lowest loaded latency", Expression: "loaded_latency_max / loaded_latency_min", Format: "%.2f"},
	{Name: "Peak Loaded Bandwidth", Expression: "loaded_bandwidth_max", Format: "%.1f"},
	{Name: "Local HITM Penalty (ns)", Description: "local HITM minus local HIT latency", Expression: "local_hitm - local_hit", Format: "%.1f"},
}

var rxAllReads = regexp.MustCompile(`(?i)^all reads$`)
var rxStreamTriad = regexp.MustCompile(`(?i)stream-triad`)

func init() {
	for i := range summaryMetrics {
		metric := &summaryMetrics[i]
		var err error
		if metric.Evaluable, err = govaluate.NewEvaluableExpression(metric.Expression); err != nil {
			panic(fmt.Sprintf("invalid summary metric expression %q: %v", metric.Expression, err))
		}
	}
}

// summaryVariables returns the variables available to the summary metric
// expressions. Variables whose measurements are absent are not set.
func summaryVariables(report *mlc.Report) map[string]any {
	variables := make(map[string]any)
	setMeans := func(matrix *mlc.NodeMatrix, localName, remoteName string) {
		local, localOK, remote, remoteOK := diagonalMeans(matrix)
		if localOK {
			variables[localName] = local
		}
		if remoteOK {
			variables[remoteName] = remote
		}
	}
	setMeans(report.IdleLatencies, "local_idle_latency", "remote_idle_latency")
	setMeans(report.InterNodeBandwidths, "local_node_bw", "remote_node_bw")
	for _, bandwidth := range report.PeakBandwidths {
		if _, ok := variables["all_reads_bw"]; !ok && rxAllReads.MatchString(bandwidth.Label) {
			variables["all_reads_bw"] = bandwidth.Value
		}
		if _, ok := variables["stream_triad_bw"]; !ok && rxStreamTriad.MatchString(bandwidth.Label) {
			variables["stream_triad_bw"] = bandwidth.Value
		}
	}
	if len(report.LoadedLatencies) > 0 {
		minLatency, maxLatency := math.Inf(1), math.Inf(-1)
		maxBandwidth := math.Inf(-1)
		for _, sample := range report.LoadedLatencies {
			minLatency = min(minLatency, sample.Latency)
			maxLatency = max(maxLatency, sample.Latency)
			maxBandwidth = max(maxBandwidth, sample.Bandwidth)
		}
		variables["loaded_latency_min"] = minLatency
		variables["loaded_latency_max"] = maxLatency
		variables["loaded_bandwidth_max"] = maxBandwidth
	}
	if report.CacheToCache != nil {
		if !report.CacheToCache.LocalHit.IsMissing() {
			variables["local_hit"] = report.CacheToCache.LocalHit.Value
		}
		if !report.CacheToCache.LocalHitm.IsMissing() {
			variables["local_hitm"] = report.CacheToCache.LocalHitm.Value
		}
	}
	return variables
}

// evaluateSummaryMetric returns the value of the metric, or false when a
// variable it needs is not available or the result is not a finite number.
func evaluateSummaryMetric(metric summaryMetric, variables map[string]any) (value float64, ok bool) {
	available := mapset.NewSetFromMapKeys(variables)
	if !available.Contains(metric.Evaluable.Vars()...) {
		return 0, false
	}
	defer func() {
		if errx := recover(); errx != nil {
			slog.Error("summary metric evaluation failed", slog.String("metric", metric.Name), slog.Any("error", errx))
			value, ok = 0, false
		}
	}()
	result, err := metric.Evaluable.Evaluate(variables)
	if err != nil {
		slog.Warn("summary metric evaluation failed", slog.String("metric", metric.Name), slog.String("error", err.Error()))
		return 0, false
	}
	value, ok = result.(float64)
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// SummaryValues evaluates the memory summary metrics for the report. The
// returned map holds only the metrics that could be evaluated, keyed by name.
func SummaryValues(report *mlc.Report) map[string]float64 {
	values := make(map[string]float64)
	variables := summaryVariables(report)
	for _, metric := range summaryMetrics {
		if value, ok := evaluateSummaryMetric(metric, variables); ok {
			values[metric.Name] = value
		}
	}
	return values
}

func memorySummaryTableValues(report *mlc.Report) []Field {
	values := SummaryValues(report)
	if len(values) == 0 {
		return []Field{}
	}
	p := message.NewPrinter(language.English) // use printer to get commas at thousands, e.g., 225,185.0
	var fields []Field
	for _, metric := range summaryMetrics {
		field := Field{Name: metric.Name, Description: metric.Description, Values: []string{""}}
		if value, ok := values[metric.Name]; ok {
			field.Values[0] = p.Sprintf(metric.Format, value)
		}
		fields = append(fields, field)
	}
	return fields
}
