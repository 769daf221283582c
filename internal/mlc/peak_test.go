package mlc

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeakBandwidths(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		expected  []LabeledScalar
		expectErr bool
	}{
		{
			name: "read-write ratio sweep",
			lines: []string{
				"ALL Reads        :  45000.32",
				"3:1 Reads-Writes :  42000.10",
				"Stream-triad like:  40000.00",
			},
			expected: []LabeledScalar{
				{Label: "ALL Reads", Value: 45000.32},
				{Label: "3:1 Reads-Writes", Value: 42000.10},
				{Label: "Stream-triad like", Value: 40000.00},
			},
		},
		{
			name: "stops after stream-triad",
			lines: []string{
				"Measuring Peak Injection Memory Bandwidths for the system",
				"ALL Reads        :\t225185.0",
				"Stream-triad like:\t193416.5",
				"All NT writes    :\t100000.0",
			},
			expected: []LabeledScalar{
				{Label: "ALL Reads", Value: 225185.0},
				{Label: "Stream-triad like", Value: 193416.5},
			},
		},
		{
			name: "parenthetical and unit suffix stripped, trailing unit kept",
			lines: []string{
				"ALL Reads (MB/sec)  :  45000.3 MB/sec",
				"2:1 Reads-Writes GB/s: 40.5 GB/s",
			},
			expected: []LabeledScalar{
				{Label: "ALL Reads", Value: 45000.3, Unit: "MB/sec"},
				{Label: "2:1 Reads-Writes", Value: 40.5, Unit: "GB/s"},
			},
		},
		{
			name: "blank lines and continuation headings inside the list",
			lines: []string{
				"Using traffic with the following read-write ratios",
				"ALL Reads        :\t98012.4",
				"",
				"Using traffic with the following read-write ratios (non-temporal writes)",
				"1:1 Reads-Writes :\t80311.0",
			},
			expected: []LabeledScalar{
				{Label: "ALL Reads", Value: 98012.4},
				{Label: "1:1 Reads-Writes", Value: 80311.0},
			},
		},
		{
			name: "unrelated line ends the list without stream-triad",
			lines: []string{
				"ALL Reads        :\t98012.4",
				"Will take several minutes to complete",
				"1:1 Reads-Writes :\t80311.0",
			},
			expected: []LabeledScalar{
				{Label: "ALL Reads", Value: 98012.4},
			},
		},
		{
			name: "prose before the first value is skipped",
			lines: []string{
				"Will take several minutes to complete",
				"Using all the threads from each core if Hyper-threading is enabled",
				"ALL Reads        :\t98012.4",
				"Stream-triad like:\t85022.9",
			},
			expected: []LabeledScalar{
				{Label: "ALL Reads", Value: 98012.4},
				{Label: "Stream-triad like", Value: 85022.9},
			},
		},
		{
			name: "repeated labels preserved in order",
			lines: []string{
				"1:1 Reads-Writes :\t1.0",
				"1:1 Reads-Writes :\t2.0",
			},
			expected: []LabeledScalar{
				{Label: "1:1 Reads-Writes", Value: 1.0},
				{Label: "1:1 Reads-Writes", Value: 2.0},
			},
		},
		{
			name:      "no values",
			lines:     []string{"Bandwidths are in MB/sec (1 MB/sec = 1,000,000 Bytes/sec)"},
			expectErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bandwidths, err := ParsePeakBandwidths(tt.lines)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, bandwidths)
			for _, bandwidth := range bandwidths {
				assert.NotContains(t, bandwidth.Label, "(")
				assert.False(t, strings.HasSuffix(bandwidth.Label, "/s"), bandwidth.Label)
			}
		})
	}
}
