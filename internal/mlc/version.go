// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package mlc

import "strings"

// ToolVersion returns the mlc version token, e.g., "v3.11", found anywhere in
// the text, or an empty string if the text carries no version banner.
func ToolVersion(text string) string {
	lines := strings.Split(text, "\n")
	for _, rx := range versionPatterns {
		for _, line := range lines {
			if match := rx.FindStringSubmatch(strings.TrimSpace(line)); match != nil {
				return match[1]
			}
		}
	}
	return ""
}
