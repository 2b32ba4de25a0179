// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm provides completion provider clients for the dashboard.
package llm

import (
	"context"

	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
)

// GenerationParams carries optional sampling parameters for a completion.
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// CompletionClient defines the standard interface for any completion backend.
//
// Complete issues exactly one request per call: no retries, no provider-side
// streaming (the response streamer manufactures incremental delivery).
// Implementations must respect ctx cancellation and deadlines.
type CompletionClient interface {
	Complete(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error)
}
