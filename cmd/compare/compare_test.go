package compare

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
		{name: "two inputs", formats: []string{"all"}, args: []string{"a.txt", "b.txt"}},
		{name: "three inputs", formats: []string{"xlsx"}, args: []string{"a.txt", "b.txt", "c.txt"}},
		{name: "one input", formats: []string{"all"}, args: []string{"a.txt"}, wantErr: true},
		{name: "unknown format", formats: []string{"csv"}, args: []string{"a.txt", "b.txt"}, wantErr: true},
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
