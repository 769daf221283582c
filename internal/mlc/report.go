// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package mlc parses the text output of Intel(R) Memory Latency Checker (mlc)
// into a structured report.
package mlc

import (
	"encoding/json"
	"slices"
	"strconv"
)

// Measurement is a single measured value. Valid is false when the tool
// reported the measurement as unavailable, e.g., "-" or "N/A".
// The zero value is a missing measurement.
type Measurement struct {
	Value float64
	Valid bool
}

// Measured returns a valid measurement
func Measured(v float64) Measurement {
	return Measurement{Value: v, Valid: true}
}

// Missing returns a measurement that the tool did not report
func Missing() Measurement {
	return Measurement{}
}

// IsMissing reports whether the measurement was unavailable
func (m Measurement) IsMissing() bool {
	return !m.Valid
}

// String formats the measurement with one decimal place, or "-" when missing.
func (m Measurement) String() string {
	if !m.Valid {
		return "-"
	}
	return strconv.FormatFloat(m.Value, 'f', 1, 64)
}

func (m Measurement) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Measurement) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Missing()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Measured(v)
	return nil
}

// NodeMatrix holds a measurement for each (source node, destination node) pair.
// Matrix[i][j] is the measurement from RowNodes[i] to Nodes[j]. RowNodes lists
// the source node of each row; rows dropped while parsing leave no entry.
type NodeMatrix struct {
	RowLabel    string          `json:"rowLabel,omitempty"`
	ColumnLabel string          `json:"columnLabel,omitempty"`
	Nodes       []int           `json:"nodes"`
	RowNodes    []int           `json:"rowNodes,omitempty"`
	Matrix      [][]Measurement `json:"matrix"`
}

// Empty reports whether the matrix holds no rows
func (m NodeMatrix) Empty() bool {
	return len(m.Matrix) == 0
}

// RowNode returns the source node id of row i. A matrix without RowNodes has
// one row per entry of Nodes, in the same order.
func (m NodeMatrix) RowNode(i int) (int, bool) {
	if m.RowNodes != nil {
		if i < 0 || i >= len(m.RowNodes) {
			return 0, false
		}
		return m.RowNodes[i], true
	}
	if i < 0 || i >= len(m.Nodes) {
		return 0, false
	}
	return m.Nodes[i], true
}

// At returns the measurement from source node src to destination node dst.
// The second return value is false when either node id is unknown or the
// row for src was dropped.
func (m NodeMatrix) At(src, dst int) (Measurement, bool) {
	row := -1
	for i := range m.Matrix {
		if node, ok := m.RowNode(i); ok && node == src {
			row = i
			break
		}
	}
	col := slices.Index(m.Nodes, dst)
	if row < 0 || col < 0 || col >= len(m.Matrix[row]) {
		return Missing(), false
	}
	return m.Matrix[row][col], true
}

// LabeledScalar is one "label : value" entry, e.g., a peak bandwidth for a
// read-write ratio. Unit is the text that followed the value, if any.
type LabeledScalar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Sample is one loaded latency operating point
type Sample struct {
	Delay     int     `json:"delay"`
	Latency   float64 `json:"latency"`
	Bandwidth float64 `json:"bandwidth"`
}

// CacheTransferReport holds the cache-to-cache transfer latencies
type CacheTransferReport struct {
	LocalHit              Measurement `json:"localHit"`
	LocalHitm             Measurement `json:"localHitm"`
	RemoteHitmWriterHomed NodeMatrix  `json:"remoteHitmWriterHomed"`
	RemoteHitmReaderHomed NodeMatrix  `json:"remoteHitmReaderHomed"`
}

// Report is the structured form of one mlc output. Nil (or empty) fields
// indicate that the corresponding section was not found or could not be parsed.
type Report struct {
	ToolVersion         string               `json:"toolVersion,omitempty"`
	NumaNodeCount       int                  `json:"numaNodeCount"`
	IdleLatencies       *NodeMatrix          `json:"idleLatencies,omitempty"`
	PeakBandwidths      []LabeledScalar      `json:"peakBandwidths,omitempty"`
	InterNodeBandwidths *NodeMatrix          `json:"interNodeBandwidths,omitempty"`
	LoadedLatencies     []Sample             `json:"loadedLatencies,omitempty"`
	CacheToCache        *CacheTransferReport `json:"cacheToCache,omitempty"`
	Warnings            []string             `json:"warnings,omitempty"`
}

// Empty reports whether nothing useful was recognized in the input, i.e.,
// there is no tool version and no measurement section.
func (r *Report) Empty() bool {
	return r.ToolVersion == "" &&
		r.IdleLatencies == nil &&
		len(r.PeakBandwidths) == 0 &&
		r.InterNodeBandwidths == nil &&
		len(r.LoadedLatencies) == 0 &&
		r.CacheToCache == nil
}

// Sections returns the kinds of the measurement sections present in the report
func (r *Report) Sections() []SectionKind {
	var kinds []SectionKind
	if r.IdleLatencies != nil {
		kinds = append(kinds, IdleLatencies)
	}
	if len(r.PeakBandwidths) > 0 {
		kinds = append(kinds, PeakBandwidths)
	}
	if r.InterNodeBandwidths != nil {
		kinds = append(kinds, InterNodeBandwidths)
	}
	if len(r.LoadedLatencies) > 0 {
		kinds = append(kinds, LoadedLatencies)
	}
	if r.CacheToCache != nil {
		kinds = append(kinds, CacheToCache)
	}
	return kinds
}
