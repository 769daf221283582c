package parse

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"mlcreport/internal/common"

	"github.com/stretchr/testify/assert"
)

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		args    []string
		wantErr bool
	}{
		{name: "default format", formats: []string{"all"}, args: []string{"mlc.txt"}},
		{name: "several formats", formats: []string{"html", "raw"}, args: []string{"-"}},
		{name: "unknown format", formats: []string{"pdf"}, args: []string{"mlc.txt"}, wantErr: true},
		{name: "no input", formats: []string{"txt"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			common.FlagFormat = tt.formats
			err := validateFlags(Cmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
