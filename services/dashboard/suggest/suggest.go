// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package suggest maps free-text queries to canned direct tool invocations.
//
// The engine is used only when the conversational route cannot answer (no
// completion provider configured, or the provider failed): its output gives
// the user a concrete `tool: ...` line to try instead.
package suggest

import "strings"

// =============================================================================
// Rule Table
// =============================================================================

// subRule is one nested disambiguation entry. The first sub-rule whose
// keyword set matches wins; later sub-rules are not consulted.
type subRule struct {
	keywords   []string
	suggestion string
}

// rule is one top-level entry of the table. Exactly one of suggestion or
// subRules is set. fallback applies when sub-rules exist but none match;
// an empty fallback means the category contributes nothing in that case.
type rule struct {
	keywords   []string
	suggestion string
	subRules   []subRule
	fallback   string
}

// defaultRules is the fixed, ordered suggestion table. Evaluation order is
// declaration order and is semantically load-bearing: matched suggestions
// are emitted in table order, and duplicates across categories are kept.
var defaultRules = []rule{
	{
		keywords:   []string{"summary", "overview", "status", "metrics"},
		suggestion: "tool: get_security_summary",
	},
	{
		keywords: []string{"organization", "org", "company"},
		subRules: []subRule{
			{keywords: []string{"list", "all"}, suggestion: "tool: list_organizations"},
			{keywords: []string{"details", "info", "about"}, suggestion: "tool: get_organization_details org_name=OrgA"},
		},
		// No fallback: an organization query without a recognized verb
		// contributes nothing.
	},
	{
		keywords: []string{"case", "incident", "security case"},
		subRules: []subRule{
			{keywords: []string{"active"}, suggestion: "tool: list_cases status=active"},
			{keywords: []string{"details", "info"}, suggestion: "tool: get_case_details case_id=CASE001"},
		},
		fallback: "tool: list_cases",
	},
	{
		keywords:   []string{"signal", "alert", "detection"},
		suggestion: "tool: list_signals",
	},
	{
		keywords:   []string{"health", "check", "status"},
		suggestion: "tool: health",
	},
}

// =============================================================================
// Engine
// =============================================================================

// Engine evaluates the ordered rule table against queries.
type Engine struct {
	rules []rule
}

// NewEngine returns an Engine over the default rule table.
func NewEngine() *Engine {
	return &Engine{rules: defaultRules}
}

// Suggest returns the matched suggestion strings in table order. Matching is
// case-insensitive substring containment, so "org" also fires on
// "organizations". The result may contain duplicates when several categories
// resolve to the same suggestion.
func (e *Engine) Suggest(query string) []string {
	q := strings.ToLower(query)
	var out []string

	for _, r := range e.rules {
		if !containsAny(q, r.keywords) {
			continue
		}
		if len(r.subRules) == 0 {
			out = append(out, r.suggestion)
			continue
		}
		matched := false
		for _, sub := range r.subRules {
			if containsAny(q, sub.keywords) {
				out = append(out, sub.suggestion)
				matched = true
				break
			}
		}
		if !matched && r.fallback != "" {
			out = append(out, r.fallback)
		}
	}
	return out
}

// FormatHint renders suggestions as the bulleted block appended to error
// messages. Returns "" when there are no suggestions.
func FormatHint(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nTry these direct tool calls:\n")
	for i, s := range suggestions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("• ")
		sb.WriteString(s)
	}
	return sb.String()
}

func containsAny(q string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
