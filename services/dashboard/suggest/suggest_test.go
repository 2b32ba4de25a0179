// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest_Table(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:     "Summary keyword",
			query:    "show me the summary",
			expected: []string{"tool: get_security_summary"},
		},
		{
			name:     "No recognized keyword",
			query:    "tell me a joke",
			expected: nil,
		},
		{
			name:     "Organization with list verb",
			query:    "list all organizations",
			expected: []string{"tool: list_organizations"},
		},
		{
			name:     "Organization with details verb",
			query:    "details about the org",
			expected: []string{"tool: get_organization_details org_name=OrgA"},
		},
		{
			name:  "Organization without recognized verb contributes nothing",
			query: "organization risk please",
			// No fallback for the organization category.
			expected: nil,
		},
		{
			name:     "Case with active sub-rule",
			query:    "which cases are active",
			expected: []string{"tool: list_cases status=active"},
		},
		{
			name:     "Case category fallback",
			query:    "show me the incidents",
			expected: []string{"tool: list_cases"},
		},
		{
			name:     "Signals",
			query:    "any new alerts?",
			expected: []string{"tool: list_signals"},
		},
		{
			name:     "Health",
			query:    "run a health check",
			expected: []string{"tool: health"},
		},
		{
			name:  "Status matches two categories, duplicates kept",
			query: "what's the status",
			expected: []string{
				"tool: get_security_summary",
				"tool: health",
			},
		},
		{
			name:  "Sub-rule order is first match wins",
			query: "active case details",
			expected: []string{
				"tool: list_cases status=active",
			},
		},
		{
			name:  "Matches emitted in table order",
			query: "summary of signals and cases",
			expected: []string{
				"tool: get_security_summary",
				"tool: list_cases",
				"tool: list_signals",
			},
		},
		{
			name:     "Case-insensitive matching",
			query:    "SHOW ME THE SUMMARY",
			expected: []string{"tool: get_security_summary"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, engine.Suggest(tc.query))
		})
	}
}

func TestFormatHint(t *testing.T) {
	assert.Empty(t, FormatHint(nil))

	hint := FormatHint([]string{"tool: health", "tool: list_cases"})
	assert.Equal(t, "\n\nTry these direct tool calls:\n• tool: health\n• tool: list_cases", hint)
}
