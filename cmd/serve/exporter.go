package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"mlcreport/internal/mlc"
	"mlcreport/internal/table"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promMetricPrefix = "mlc_"

// exporter holds the gauges of the parsed mlc reports. Missing measurements
// are not exported.
type exporter struct {
	registry          *prometheus.Registry
	idleLatency       *prometheus.GaugeVec
	peakBandwidth     *prometheus.GaugeVec
	nodeBandwidth     *prometheus.GaugeVec
	loadedLatency     *prometheus.GaugeVec
	loadedBandwidth   *prometheus.GaugeVec
	localCacheLatency *prometheus.GaugeVec
	remoteHitmLatency *prometheus.GaugeVec
	summary           *prometheus.GaugeVec
	parseWarnings     *prometheus.GaugeVec
}

func newGaugeVec(name string, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + name,
			Help: help,
		},
		append([]string{"report"}, labels...),
	)
}

func newExporter() *exporter {
	e := &exporter{
		registry:          prometheus.NewRegistry(),
		idleLatency:       newGaugeVec("idle_latency_ns", "Idle memory latency from source to destination NUMA node", "source_node", "dest_node"),
		peakBandwidth:     newGaugeVec("peak_bandwidth", "Peak injection memory bandwidth by traffic type, in the unit printed by mlc", "label"),
		nodeBandwidth:     newGaugeVec("node_bandwidth", "Memory bandwidth from source to destination NUMA node", "source_node", "dest_node"),
		loadedLatency:     newGaugeVec("loaded_latency_ns", "Memory latency at the inject delay", "delay"),
		loadedBandwidth:   newGaugeVec("loaded_bandwidth", "Memory bandwidth at the inject delay", "delay"),
		localCacheLatency: newGaugeVec("c2c_local_latency_ns", "Local socket L2->L2 transfer latency", "kind"),
		remoteHitmLatency: newGaugeVec("c2c_remote_hitm_latency_ns", "Remote socket L2->L2 HITM latency", "homed", "writer", "reader"),
		summary:           newGaugeVec("summary", "Metrics derived from the mlc measurements", "metric"),
		parseWarnings:     newGaugeVec("parse_warnings", "Number of warnings raised while parsing the mlc output"),
	}
	e.registry.MustRegister(
		e.idleLatency,
		e.peakBandwidth,
		e.nodeBandwidth,
		e.loadedLatency,
		e.loadedBandwidth,
		e.localCacheLatency,
		e.remoteHitmLatency,
		e.summary,
		e.parseWarnings,
	)
	return e
}

// handler serves the registry in the Prometheus exposition format
func (e *exporter) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	return mux
}

// export sets the gauges for the report
func (e *exporter) export(reportName string, report *mlc.Report) {
	if report.IdleLatencies != nil {
		setMatrix(e.idleLatency, reportName, report.IdleLatencies)
	}
	if report.InterNodeBandwidths != nil {
		setMatrix(e.nodeBandwidth, reportName, report.InterNodeBandwidths)
	}
	// repeated labels are numbered by occurrence, e.g., "ALL Reads (2)"
	seen := make(map[string]int)
	for _, bandwidth := range report.PeakBandwidths {
		seen[bandwidth.Label]++
		label := bandwidth.Label
		if seen[label] > 1 {
			label = fmt.Sprintf("%s (%d)", label, seen[label])
		}
		e.peakBandwidth.WithLabelValues(reportName, label).Set(bandwidth.Value)
	}
	for _, sample := range report.LoadedLatencies {
		delay := strconv.Itoa(sample.Delay)
		e.loadedLatency.WithLabelValues(reportName, delay).Set(sample.Latency)
		e.loadedBandwidth.WithLabelValues(reportName, delay).Set(sample.Bandwidth)
	}
	if c2c := report.CacheToCache; c2c != nil {
		if !c2c.LocalHit.IsMissing() {
			e.localCacheLatency.WithLabelValues(reportName, "hit").Set(c2c.LocalHit.Value)
		}
		if !c2c.LocalHitm.IsMissing() {
			e.localCacheLatency.WithLabelValues(reportName, "hitm").Set(c2c.LocalHitm.Value)
		}
		setRemoteHitm(e.remoteHitmLatency, reportName, "writer", &c2c.RemoteHitmWriterHomed)
		setRemoteHitm(e.remoteHitmLatency, reportName, "reader", &c2c.RemoteHitmReaderHomed)
	}
	for metric, value := range table.SummaryValues(report) {
		e.summary.WithLabelValues(reportName, metric).Set(value)
	}
	e.parseWarnings.WithLabelValues(reportName).Set(float64(len(report.Warnings)))
	slog.Debug("exported report", slog.String("report", reportName))
}

// eachMeasured calls fn for every valid measurement of the matrix with the
// source and destination node ids
func eachMeasured(matrix *mlc.NodeMatrix, fn func(source, dest string, value float64)) {
	for i, row := range matrix.Matrix {
		source, ok := matrix.RowNode(i)
		if !ok {
			continue
		}
		for j, value := range row {
			if j >= len(matrix.Nodes) || value.IsMissing() {
				continue
			}
			fn(strconv.Itoa(source), strconv.Itoa(matrix.Nodes[j]), value.Value)
		}
	}
}

func setMatrix(gauge *prometheus.GaugeVec, reportName string, matrix *mlc.NodeMatrix) {
	eachMeasured(matrix, func(source, dest string, value float64) {
		gauge.WithLabelValues(reportName, source, dest).Set(value)
	})
}

func setRemoteHitm(gauge *prometheus.GaugeVec, reportName string, homed string, matrix *mlc.NodeMatrix) {
	eachMeasured(matrix, func(writer, reader string, value float64) {
		gauge.WithLabelValues(reportName, homed, writer, reader).Set(value)
	})
}
