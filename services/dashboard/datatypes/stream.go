// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the dashboard service.
//
// This file contains the streaming chunk types shared by the query router,
// the response streamer, and the SSE/WebSocket handlers.
package datatypes

// =============================================================================
// Constants
// =============================================================================

const (
	// ChunkSize is the number of runes per streamed data chunk.
	// The final chunk of a response may be shorter.
	ChunkSize = 100

	// MaxHistoryTurns caps the per-session conversation history.
	// Appending beyond the cap drops the oldest turns first.
	MaxHistoryTurns = 20
)

// =============================================================================
// Chunk Kinds
// =============================================================================

// ChunkKind tags a StreamChunk with the route that produced it.
type ChunkKind string

const (
	// ChunkKindTool marks output produced by a direct tool invocation.
	ChunkKindTool ChunkKind = "tool_response"

	// ChunkKindLLM marks output produced by the completion provider.
	ChunkKindLLM ChunkKind = "llm_response"

	// ChunkKindError marks a terminal error chunk. Error chunks always
	// carry Done=true; nothing follows them on a stream.
	ChunkKindError ChunkKind = "error"
)

// =============================================================================
// Stream Chunk
// =============================================================================

// StreamChunk is one incremental unit of a streamed response.
//
// # Description
//
// A stream is a finite ordered sequence of StreamChunk values: zero or more
// data chunks (Done=false, non-empty Response for well-formed streams)
// followed by exactly one terminal chunk with Done=true and empty Response.
// Error streams consist of a single chunk with Type=ChunkKindError, the error
// text in Response, and Done=true.
//
// # Fields
//
//   - Response: The text fragment (or full error message on error chunks).
//   - Type: The chunk kind (tool_response, llm_response, error).
//   - Done: Terminal marker. After a Done=true chunk the producer emits
//     nothing further for that stream.
//
// # Limitations
//
//   - Chunks carry no sequence numbers; ordering is the transport's duty.
type StreamChunk struct {
	Response string    `json:"response"`
	Type     ChunkKind `json:"type"`
	Done     bool      `json:"done"`
}

// Terminal returns the terminal chunk for the given kind.
func Terminal(kind ChunkKind) StreamChunk {
	return StreamChunk{Type: kind, Done: true}
}

// ErrorChunk returns a single-chunk error stream payload.
//
// Error chunks are always terminal: the message and the Done marker travel
// together so a consumer never waits on a failed stream.
func ErrorChunk(msg string) StreamChunk {
	return StreamChunk{Response: msg, Type: ChunkKindError, Done: true}
}

// =============================================================================
// Stream Events (wire envelope)
// =============================================================================

// StreamEvent is the SSE/WebSocket wire envelope around a StreamChunk.
//
// # Description
//
// Each event the dashboard emits is assigned an id, a creation timestamp and
// a SHA-256 hash chained to the previous event, providing chain of custody
// for streamed content. The envelope embeds the chunk fields directly so the
// browser payload stays flat.
//
// # Fields
//
//   - Id: UUID v4, assigned by the writer.
//   - CreatedAt: Unix timestamp in milliseconds.
//   - Hash: SHA-256 over the event content.
//   - PrevHash: Hash of the previous event on this stream ("" for the first).
type StreamEvent struct {
	Id        string    `json:"id"`
	CreatedAt int64     `json:"created_at"`
	Hash      string    `json:"hash"`
	PrevHash  string    `json:"prev_hash"`
	Response  string    `json:"response"`
	Type      ChunkKind `json:"type"`
	Done      bool      `json:"done"`
}
