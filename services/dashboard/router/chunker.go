// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package router

import (
	"iter"

	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
)

// =============================================================================
// Response Streamer
// =============================================================================

// Chunks turns a complete response text into a lazy, finite chunk sequence.
//
// # Description
//
// The sequence yields fixed-size rune slices of the text (the last slice may
// be shorter) with Done=false, followed by exactly one terminal chunk with
// empty text and Done=true. An empty text yields only the terminal chunk.
// Production is consumer-pulled: no slice is materialized before the
// consumer asks for it, and stopping the iteration early stops all work.
//
// # Inputs
//
//   - text: The complete response to stream.
//   - kind: The chunk kind stamped on every chunk, terminal included.
//
// # Outputs
//
//   - iter.Seq[datatypes.StreamChunk]: Single-use; re-ranging restarts from
//     the beginning, so callers must consume it exactly once.
func Chunks(text string, kind datatypes.ChunkKind) iter.Seq[datatypes.StreamChunk] {
	return func(yield func(datatypes.StreamChunk) bool) {
		runes := []rune(text)
		for start := 0; start < len(runes); start += datatypes.ChunkSize {
			end := start + datatypes.ChunkSize
			if end > len(runes) {
				end = len(runes)
			}
			chunk := datatypes.StreamChunk{Response: string(runes[start:end]), Type: kind}
			if !yield(chunk) {
				return
			}
		}
		yield(datatypes.Terminal(kind))
	}
}

// errorStream yields a single terminal error chunk.
func errorStream(msg string) iter.Seq[datatypes.StreamChunk] {
	return func(yield func(datatypes.StreamChunk) bool) {
		yield(datatypes.ErrorChunk(msg))
	}
}
