package mlc

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cacheToCacheLines = []string{
	"Measuring cache-to-cache transfer latency (in ns)...",
	"Local Socket L2->L2 HIT  latency\t45.2",
	"Local Socket L2->L2 HITM latency\t46.1",
	"Remote Socket L2->L2 HITM latency (data address homed in writer socket)",
	"Reader Numa Node",
	"Writer Numa Node     0\t     1",
	"0\t     -\t 115.1",
	"1\t 116.3\t     -",
	"",
	"Remote Socket L2->L2 HITM latency (data address homed in reader socket)",
	"Reader Numa Node",
	"Writer Numa Node     0\t     1",
	"0\t     -\t 178.6",
	"1\t 179.2\t     -",
}

func TestParseCacheToCache(t *testing.T) {
	c2c, warnings, err := ParseCacheToCache(cacheToCacheLines, 2)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, m(45.2), c2c.LocalHit)
	assert.Equal(t, m(46.1), c2c.LocalHitm)
	assert.Equal(t, []int{0, 1}, c2c.RemoteHitmWriterHomed.Nodes)
	assert.Equal(t, [][]Measurement{{Missing(), m(115.1)}, {m(116.3), Missing()}}, c2c.RemoteHitmWriterHomed.Matrix)
	assert.Equal(t, "Writer Numa Node", c2c.RemoteHitmWriterHomed.RowLabel)
	assert.Equal(t, []int{0, 1}, c2c.RemoteHitmReaderHomed.Nodes)
	assert.Equal(t, [][]Measurement{{Missing(), m(178.6)}, {m(179.2), Missing()}}, c2c.RemoteHitmReaderHomed.Matrix)
}

func TestParseCacheToCacheLocalLatency(t *testing.T) {
	tests := []struct {
		name               string
		line               string
		expectedHit        Measurement
		expectedHitm       Measurement
		expectFoundNothing bool
	}{
		{
			name:        "two spaces before latency",
			line:        "Local Socket L2->L2 HIT  latency    40.2",
			expectedHit: m(40.2),
		},
		{
			name:        "single space before latency",
			line:        "Local Socket L2->L2 HIT latency 40.2",
			expectedHit: m(40.2),
		},
		{
			name:         "hitm with tab",
			line:         "Local Socket L2->L2 HITM latency\t\t51.7",
			expectedHitm: m(51.7),
		},
		{
			name:        "value not reported",
			line:        "Local Socket L2->L2 HIT  latency    N/A",
			expectedHit: Missing(),
		},
		{
			name:               "unrelated line",
			line:               "Using small pages for allocating buffers",
			expectFoundNothing: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c2c, _, err := ParseCacheToCache([]string{tt.line}, 0)
			if tt.expectFoundNothing {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHit, c2c.LocalHit)
			assert.Equal(t, tt.expectedHitm, c2c.LocalHitm)
		})
	}
}

func TestParseCacheToCacheBufferBoundaries(t *testing.T) {
	lines := []string{
		"Remote Socket L2->L2 HITM latency (data address homed in writer socket)",
		"Writer Numa Node 0 1",
		"0 - 100.0",
		"1 101.0 -",
		"Local Socket L2->L2 HITM latency 46.1",
		"0 999.0 999.0",
	}
	c2c, _, err := ParseCacheToCache(lines, 0)
	require.NoError(t, err)
	assert.Equal(t, m(46.1), c2c.LocalHitm)
	assert.Len(t, c2c.RemoteHitmWriterHomed.Matrix, 2)
	assert.True(t, c2c.RemoteHitmReaderHomed.Empty())
}

func TestParseCacheToCacheUnknownHoming(t *testing.T) {
	lines := []string{
		"Local Socket L2->L2 HIT  latency 45.2",
		"Remote Socket L2->L2 HITM latency (data address homed in remote socket)",
		"Writer Numa Node 0 1",
		"0 - 100.0",
		"1 101.0 -",
	}
	c2c, warnings, err := ParseCacheToCache(lines, 2)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.True(t, c2c.RemoteHitmWriterHomed.Empty())
	assert.True(t, c2c.RemoteHitmReaderHomed.Empty())
}
