// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "simple query", query: "list all cases", wantErr: false},
		{name: "tool query", query: "tool: health", wantErr: false},
		{name: "empty", query: "", wantErr: true},
		{name: "at the byte limit", query: strings.Repeat("a", MaxQueryBytes), wantErr: false},
		{name: "over the byte limit", query: strings.Repeat("a", MaxQueryBytes+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := QueryRequest{Query: tt.query}
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrorChunkIsTerminal(t *testing.T) {
	chunk := ErrorChunk("boom")
	assert.True(t, chunk.Done)
	assert.Equal(t, ChunkKindError, chunk.Type)
	assert.Equal(t, "boom", chunk.Response)

	terminal := Terminal(ChunkKindLLM)
	assert.True(t, terminal.Done)
	assert.Empty(t, terminal.Response)
}
