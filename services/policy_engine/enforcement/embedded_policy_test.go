// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package enforcement

import (
	"crypto/sha256"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDataIntegrity(t *testing.T) {
	if len(DataClassificationPatterns) == 0 {
		t.Fatal("Embedded policy data is empty. Did the build fail to include 'data_classification_patterns.yaml'?")
	}

	var dump map[string]interface{}
	if err := yaml.Unmarshal(DataClassificationPatterns, &dump); err != nil {
		t.Fatalf("Embedded data is not valid YAML: %v", err)
	}

	hash := sha256.Sum256(DataClassificationPatterns)
	t.Logf("Current Policy Hash: %x", hash)
}

// TestEmbeddedClassifications pins the classification names the query scan
// reports; engine callers branch on these strings.
func TestEmbeddedClassifications(t *testing.T) {
	var file struct {
		Classifications []struct {
			Name     string `yaml:"name"`
			Priority int    `yaml:"priority"`
			Patterns []struct {
				Id string `yaml:"id"`
			} `yaml:"patterns"`
		} `yaml:"classifications"`
	}
	if err := yaml.Unmarshal(DataClassificationPatterns, &file); err != nil {
		t.Fatalf("Embedded data does not match the classification schema: %v", err)
	}

	byName := make(map[string]int)
	for _, c := range file.Classifications {
		byName[c.Name] = c.Priority
		if len(c.Patterns) == 0 {
			t.Errorf("Classification %q carries no patterns", c.Name)
		}
	}

	secret, ok := byName["secret"]
	if !ok {
		t.Fatal("Embedded policy is missing the 'secret' classification")
	}
	pii, ok := byName["pii"]
	if !ok {
		t.Fatal("Embedded policy is missing the 'pii' classification")
	}
	if secret <= pii {
		t.Errorf("'secret' (priority %d) must outrank 'pii' (priority %d)", secret, pii)
	}
}
