package mlc

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestData(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func TestParseFullOutput(t *testing.T) {
	report := Parse(readTestData(t, "mlc_v3.11.txt"))

	assert.Equal(t, "v3.11", report.ToolVersion)
	assert.Equal(t, 2, report.NumaNodeCount)
	assert.Empty(t, report.Warnings)
	assert.False(t, report.Empty())
	assert.Equal(t, []SectionKind{IdleLatencies, PeakBandwidths, InterNodeBandwidths, LoadedLatencies, CacheToCache}, report.Sections())

	require.NotNil(t, report.IdleLatencies)
	assert.Equal(t, []int{0, 1}, report.IdleLatencies.Nodes)
	assert.Equal(t, [][]Measurement{{m(82.6), m(136.9)}, {m(137.2), m(82.9)}}, report.IdleLatencies.Matrix)

	require.Len(t, report.PeakBandwidths, 5)
	assert.Equal(t, LabeledScalar{Label: "ALL Reads", Value: 225185.0}, report.PeakBandwidths[0])
	assert.Equal(t, LabeledScalar{Label: "Stream-triad like", Value: 193416.5}, report.PeakBandwidths[4])

	require.NotNil(t, report.InterNodeBandwidths)
	value, ok := report.InterNodeBandwidths.At(1, 0)
	assert.True(t, ok)
	assert.Equal(t, m(55012.9), value)

	require.Len(t, report.LoadedLatencies, 4)
	assert.Equal(t, Sample{Delay: 15, Latency: 245.10, Bandwidth: 221003.7}, report.LoadedLatencies[3])

	require.NotNil(t, report.CacheToCache)
	assert.Equal(t, m(45.2), report.CacheToCache.LocalHit)
	assert.Equal(t, m(46.1), report.CacheToCache.LocalHitm)
	value, ok = report.CacheToCache.RemoteHitmReaderHomed.At(1, 0)
	assert.True(t, ok)
	assert.Equal(t, m(179.2), value)
	value, ok = report.CacheToCache.RemoteHitmWriterHomed.At(0, 0)
	assert.True(t, ok)
	assert.True(t, value.IsMissing())
}

func TestParseLegacyOutput(t *testing.T) {
	report := Parse(readTestData(t, "mlc_legacy.txt"))

	assert.Equal(t, "v3.9a", report.ToolVersion)
	assert.Equal(t, 1, report.NumaNodeCount)
	require.NotNil(t, report.IdleLatencies)
	assert.Equal(t, [][]Measurement{{m(78.4)}}, report.IdleLatencies.Matrix)

	labels := make([]string, 0, len(report.PeakBandwidths))
	for _, bandwidth := range report.PeakBandwidths {
		labels = append(labels, bandwidth.Label)
	}
	assert.Equal(t, []string{"ALL Reads", "3:1 Reads-Writes", "1:1 Reads-Writes", "Stream-triad like"}, labels)

	assert.Equal(t, []Sample{
		{Delay: 0, Latency: 180.20, Bandwidth: 97000.0},
		{Delay: 100, Latency: 95.10, Bandwidth: 40000.5},
	}, report.LoadedLatencies)
	assert.Nil(t, report.InterNodeBandwidths)
	assert.Nil(t, report.CacheToCache)
}

func TestParseScenarios(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		verify func(t *testing.T, report *Report)
	}{
		{
			name: "idle latency block only",
			text: "Measuring idle latencies for random access (in ns)...\n" +
				"Numa node   0   1\n" +
				"-----------------\n" +
				"0  85.3  142.7\n" +
				"1  143.1  86.0\n",
			verify: func(t *testing.T, report *Report) {
				require.NotNil(t, report.IdleLatencies)
				assert.Equal(t, []int{0, 1}, report.IdleLatencies.Nodes)
				assert.Equal(t, [][]Measurement{{m(85.3), m(142.7)}, {m(143.1), m(86.0)}}, report.IdleLatencies.Matrix)
				assert.Nil(t, report.PeakBandwidths)
				assert.Nil(t, report.InterNodeBandwidths)
				assert.Nil(t, report.LoadedLatencies)
				assert.Nil(t, report.CacheToCache)
				assert.Empty(t, report.ToolVersion)
				assert.False(t, report.Empty())
			},
		},
		{
			name: "peak bandwidths at end of input",
			text: "Measuring Peak Injection Memory Bandwidths for the system\n" +
				"ALL Reads        :  45000.32\n" +
				"3:1 Reads-Writes :  42000.10\n" +
				"Stream-triad like:  40000.00",
			verify: func(t *testing.T, report *Report) {
				assert.Equal(t, []LabeledScalar{
					{Label: "ALL Reads", Value: 45000.32},
					{Label: "3:1 Reads-Writes", Value: 42000.10},
					{Label: "Stream-triad like", Value: 40000.00},
				}, report.PeakBandwidths)
			},
		},
		{
			name: "missing matrix cell",
			text: "Measuring Memory Bandwidths between nodes within system\n" +
				"Numa node 0 1\n" +
				"0 100.0 -\n" +
				"1 N/A 100.0\n",
			verify: func(t *testing.T, report *Report) {
				require.NotNil(t, report.InterNodeBandwidths)
				assert.True(t, report.InterNodeBandwidths.Matrix[0][1].IsMissing())
				assert.True(t, report.InterNodeBandwidths.Matrix[1][0].IsMissing())
				assert.False(t, report.InterNodeBandwidths.Matrix[1][1].IsMissing())
			},
		},
		{
			name: "arbitrary prose",
			text: "The quick brown fox\njumps over the lazy dog\n\n\n",
			verify: func(t *testing.T, report *Report) {
				assert.True(t, report.Empty())
				assert.Empty(t, report.Warnings)
				assert.Zero(t, report.NumaNodeCount)
			},
		},
		{
			name: "empty input",
			text: "",
			verify: func(t *testing.T, report *Report) {
				assert.True(t, report.Empty())
			},
		},
		{
			name: "failed section leaves field absent",
			text: "Measuring idle latencies for random access (in ns)...\n" +
				"no numbers here\n" +
				"\n" +
				"\n" +
				"Measuring Loaded Latencies for the system\n" +
				"Inject Latency Bandwidth\n" +
				"00000 180.2 97000.0\n",
			verify: func(t *testing.T, report *Report) {
				assert.Nil(t, report.IdleLatencies)
				assert.Len(t, report.LoadedLatencies, 1)
				require.Len(t, report.Warnings, 1)
				assert.Contains(t, report.Warnings[0], "idle latencies")
			},
		},
		{
			name: "windows line endings",
			text: "Intel(R) Memory Latency Checker - v3.10\r\n" +
				"Measuring idle latencies for random access (in ns)...\r\n" +
				"Numa node 0\r\n" +
				"0 80.0\r\n",
			verify: func(t *testing.T, report *Report) {
				assert.Equal(t, "v3.10", report.ToolVersion)
				require.NotNil(t, report.IdleLatencies)
				assert.Equal(t, [][]Measurement{{m(80.0)}}, report.IdleLatencies.Matrix)
			},
		},
		{
			name: "node count taken from the larger matrix",
			text: "Measuring idle latencies for random access (in ns)...\n" +
				"Numa node 0\n" +
				"0 80.0\n" +
				"\n" +
				"Measuring Memory Bandwidths between nodes within system\n" +
				"Numa node 0 1 2\n" +
				"0 1.0 2.0 3.0\n",
			verify: func(t *testing.T, report *Report) {
				assert.Equal(t, 3, report.NumaNodeCount)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, Parse(tt.text))
		})
	}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []Section
	}{
		{
			name: "single blank line does not end a section",
			lines: []string{
				"Measuring idle latencies",
				"a",
				"",
				"b",
				"",
				"",
				"c",
			},
			expected: []Section{{Kind: IdleLatencies, Lines: []string{"Measuring idle latencies", "a", "", "b"}}},
		},
		{
			name: "blank line before next section ends the section",
			lines: []string{
				"Measuring Loaded Latencies for the system",
				"a",
				"",
				"Measuring cache-to-cache transfer latency (in ns)...",
				"b",
			},
			expected: []Section{
				{Kind: LoadedLatencies, Lines: []string{"Measuring Loaded Latencies for the system", "a"}},
				{Kind: CacheToCache, Lines: []string{"Measuring cache-to-cache transfer latency (in ns)...", "b"}},
			},
		},
		{
			name: "peak bandwidths keep blank lines",
			lines: []string{
				"Measuring Peak Injection Memory Bandwidths for the system",
				"a",
				"",
				"",
				"b",
			},
			expected: []Section{{Kind: PeakBandwidths, Lines: []string{"Measuring Peak Injection Memory Bandwidths for the system", "a", "", "", "b"}}},
		},
		{
			name: "unknown measuring line ends the section and is skipped",
			lines: []string{
				"Measuring Peak Injection Memory Bandwidths for the system",
				"a",
				"Measuring Maximum Memory Bandwidths for the system",
				"b",
				"Measuring idle latencies",
				"c",
			},
			expected: []Section{
				{Kind: PeakBandwidths, Lines: []string{"Measuring Peak Injection Memory Bandwidths for the system", "a"}},
				{Kind: IdleLatencies, Lines: []string{"Measuring idle latencies", "c"}},
			},
		},
		{
			name: "cache-to-cache ends at trailing blank lines",
			lines: []string{
				"Measuring cache-to-cache transfer latency (in ns)...",
				"",
				"",
				"trailing prose",
			},
			expected: []Section{{Kind: CacheToCache, Lines: []string{"Measuring cache-to-cache transfer latency (in ns)..."}}},
		},
		{
			name: "lines are trimmed and banner is dropped",
			lines: []string{
				"   Intel(R) Memory Latency Checker - v3.11  ",
				"  Measuring idle latencies  ",
				"Intel(R) Memory Latency Checker - v3.11",
				"\t0 1.0\t",
			},
			expected: []Section{{Kind: IdleLatencies, Lines: []string{"Measuring idle latencies", "0 1.0"}}},
		},
		{
			name:     "no sections",
			lines:    []string{"hello", "", "world"},
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Segment(tt.lines))
		})
	}
}

func TestToolVersion(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "banner", text: "Intel(R) Memory Latency Checker - v3.11\nCommand line parameters", expected: "v3.11"},
		{name: "banner with suffix letter", text: "\n  Intel(R) Memory Latency Checker - v3.9a\n", expected: "v3.9a"},
		{name: "without trademark", text: "Memory Latency Checker v3.10", expected: "v3.10"},
		{name: "version command", text: "mlc v3.11b", expected: "v3.11b"},
		{name: "no banner", text: "Measuring idle latencies", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToolVersion(tt.text))
		})
	}
}

func TestParseIndependentReports(t *testing.T) {
	texts := []string{readTestData(t, "mlc_v3.11.txt"), readTestData(t, "mlc_legacy.txt")}
	reports := make([]*Report, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		i, text := i, text
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i] = Parse(text)
		}()
	}
	wg.Wait()
	assert.Equal(t, 2, reports[0].NumaNodeCount)
	assert.Equal(t, 1, reports[1].NumaNodeCount)
	assert.Equal(t, Parse(texts[0]), reports[0])
}

func TestParseReader(t *testing.T) {
	report, err := ParseReader(strings.NewReader(readTestData(t, "mlc_legacy.txt")))
	require.NoError(t, err)
	assert.Equal(t, "v3.9a", report.ToolVersion)
}

func TestReportJSON(t *testing.T) {
	report := &Report{
		NumaNodeCount: 2,
		IdleLatencies: &NodeMatrix{Nodes: []int{0, 1}, Matrix: [][]Measurement{{m(80.5), Missing()}, {m(130), m(81)}}},
	}
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"numaNodeCount":2,"idleLatencies":{"nodes":[0,1],"matrix":[[80.5,null],[130,81]]}}`, string(data))

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report, &decoded)
}
