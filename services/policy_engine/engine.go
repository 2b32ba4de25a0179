// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package policy_engine classifies outbound text before it leaves the host.
//
// The dashboard forwards conversational queries to an external completion
// provider. Every such query is scanned against the embedded classification
// rules first, and any finding blocks the outbound call. The local tool
// route never leaves the process and is not scanned.
package policy_engine

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/secureguard/services/policy_engine/enforcement"
)

// PolicyEngine is the main entry point for data classification operations.
// It holds the compiled rule set and provides methods to scan text against it.
type PolicyEngine struct {
	Classifiers []Classification
}

// NewPolicyEngine initializes a new instance of the PolicyEngine.
//
// It loads the policy definitions embedded in the binary via the enforcement
// package, compiles all regex patterns, and sorts classifications from
// highest to lowest priority.
//
// Returns an error if the embedded YAML is malformed or contains an invalid
// regex.
func NewPolicyEngine() (*PolicyEngine, error) {
	var classificationFile ClassificationFile
	if err := yaml.Unmarshal(enforcement.DataClassificationPatterns, &classificationFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the embedded policy file: %w", err)
	}

	if err := classificationFile.CompileRegexes(); err != nil {
		return nil, fmt.Errorf("failed to compile a regex: %w", err)
	}

	// Highest priority first; first match wins in ClassifyData.
	classificationFile.SortByPriority()

	return &PolicyEngine{Classifiers: classificationFile.ClassificationPatterns}, nil
}

// ClassifyData performs a quick check on a byte slice to determine its
// classification.
//
// It iterates through classifications by priority and returns the name of
// the *first* classification that matches the data. If no match is found,
// it returns "public".
//
// This is optimized for high-throughput categorization rather than detailed
// auditing; use ScanQuery when findings need to be explained.
func (e *PolicyEngine) ClassifyData(data []byte) string {
	for _, classifier := range e.Classifiers {
		for _, re := range classifier.CompiledPatterns {
			if re.Match(data) {
				return classifier.Name
			}
		}
	}
	return "public"
}

// ScanQuery performs a comprehensive audit of a single outbound query.
//
// It splits the content into lines and checks every line against every
// pattern in the engine, capturing the line number, the matched text, and
// the pattern that fired for each hit.
//
// This is intended for the outbound gate, where the caller needs enough
// detail to explain a blocked query to the user and the audit log.
func (e *PolicyEngine) ScanQuery(content string) []ScanFinding {
	var findings []ScanFinding
	lines := strings.Split(content, "\n")
	for lineNum, line := range lines {
		for _, classifier := range e.Classifiers {
			for _, pattern := range classifier.Patterns {
				match := pattern.compiledPattern.FindString(line)
				if match != "" {
					findings = append(findings, ScanFinding{
						LineNumber:         lineNum + 1,
						MatchedContent:     strings.TrimSpace(match),
						ClassificationName: classifier.Name,
						PatternId:          pattern.Id,
						PatternDescription: pattern.Description,
						Confidence:         pattern.Confidence,
					})
				}
			}
		}
	}
	return findings
}
