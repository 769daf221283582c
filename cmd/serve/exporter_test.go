package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mlcreport/internal/mlc"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *mlc.Report {
	return &mlc.Report{
		ToolVersion:   "v3.11",
		NumaNodeCount: 2,
		IdleLatencies: &mlc.NodeMatrix{
			Nodes:  []int{0, 1},
			Matrix: [][]mlc.Measurement{{mlc.Measured(82.6), mlc.Measured(136.9)}, {mlc.Measured(137.2), mlc.Measured(82.9)}},
		},
		PeakBandwidths: []mlc.LabeledScalar{
			{Label: "ALL Reads", Value: 221712.2},
			{Label: "ALL Reads", Value: 220000},
			{Label: "Stream-triad like", Value: 182328.3},
		},
		LoadedLatencies: []mlc.Sample{
			{Delay: 0, Latency: 261.65, Bandwidth: 225060.9},
			{Delay: 2000, Latency: 95.1, Bandwidth: 12000},
		},
		CacheToCache: &mlc.CacheTransferReport{
			LocalHit: mlc.Measured(45.2),
			RemoteHitmWriterHomed: mlc.NodeMatrix{
				Nodes:  []int{0, 1},
				Matrix: [][]mlc.Measurement{{mlc.Missing(), mlc.Measured(115.1)}, {mlc.Measured(116.3), mlc.Missing()}},
			},
		},
		Warnings: []string{"inter-node bandwidths: no node matrix rows found"},
	}
}

func TestExport(t *testing.T) {
	e := newExporter()
	e.export("host1", testReport())

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{name: "idle latency", value: testutil.ToFloat64(e.idleLatency.WithLabelValues("host1", "0", "1")), want: 136.9},
		{name: "peak bandwidth", value: testutil.ToFloat64(e.peakBandwidth.WithLabelValues("host1", "ALL Reads")), want: 221712.2},
		{name: "repeated peak bandwidth label", value: testutil.ToFloat64(e.peakBandwidth.WithLabelValues("host1", "ALL Reads (2)")), want: 220000},
		{name: "loaded latency", value: testutil.ToFloat64(e.loadedLatency.WithLabelValues("host1", "2000")), want: 95.1},
		{name: "loaded bandwidth", value: testutil.ToFloat64(e.loadedBandwidth.WithLabelValues("host1", "0")), want: 225060.9},
		{name: "local hit", value: testutil.ToFloat64(e.localCacheLatency.WithLabelValues("host1", "hit")), want: 45.2},
		{name: "remote hitm", value: testutil.ToFloat64(e.remoteHitmLatency.WithLabelValues("host1", "writer", "1", "0")), want: 116.3},
		{name: "parse warnings", value: testutil.ToFloat64(e.parseWarnings.WithLabelValues("host1")), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.value, 1e-9)
		})
	}
}

func TestExportSkipsMissing(t *testing.T) {
	e := newExporter()
	e.export("host1", testReport())

	tests := []struct {
		name  string
		count int
		want  int
	}{
		{name: "idle latency", count: testutil.CollectAndCount(e.idleLatency), want: 4},
		{name: "node bandwidth absent", count: testutil.CollectAndCount(e.nodeBandwidth), want: 0},
		{name: "remote hitm diagonal missing", count: testutil.CollectAndCount(e.remoteHitmLatency), want: 2},
		{name: "local hitm missing", count: testutil.CollectAndCount(e.localCacheLatency), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.count)
		})
	}
}

func TestExportMultipleReports(t *testing.T) {
	e := newExporter()
	e.export("baseline", testReport())
	e.export("tuned", testReport())
	assert.Equal(t, 8, testutil.CollectAndCount(e.idleLatency))
	assert.Equal(t, 6, testutil.CollectAndCount(e.peakBandwidth))
}

func TestExportDroppedRow(t *testing.T) {
	e := newExporter()
	e.export("host1", &mlc.Report{
		IdleLatencies: &mlc.NodeMatrix{
			Nodes:    []int{0, 1, 2},
			RowNodes: []int{1, 2},
			Matrix: [][]mlc.Measurement{
				{mlc.Measured(140), mlc.Measured(81), mlc.Measured(150)},
				{mlc.Measured(141), mlc.Measured(151), mlc.Measured(82)},
			},
		},
	})
	assert.Equal(t, 6, testutil.CollectAndCount(e.idleLatency))
	assert.InDelta(t, 81.0, testutil.ToFloat64(e.idleLatency.WithLabelValues("host1", "1", "1")), 1e-9)
	assert.InDelta(t, 82.0, testutil.ToFloat64(e.idleLatency.WithLabelValues("host1", "2", "2")), 1e-9)
}

func TestHandler(t *testing.T) {
	e := newExporter()
	e.export("host1", testReport())
	server := httptest.NewServer(e.handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "# TYPE mlc_idle_latency_ns gauge")
	assert.Contains(t, string(body), `mlc_loaded_latency_ns{delay="2000",report="host1"} 95.1`)
	assert.Contains(t, string(body), "mlc_summary{")

	resp, err = http.Get(server.URL + "/other")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe(t *testing.T) {
	t.Run("stops when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, serve(ctx, "127.0.0.1:0", newExporter().handler()))
	})
	t.Run("invalid address", func(t *testing.T) {
		assert.Error(t, serve(context.Background(), "127.0.0.1:-1", newExporter().handler()))
	})
}
