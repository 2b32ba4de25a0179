// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
)

// doneSentinel terminates every SSE stream, after the Done=true event.
// Browsers use it to close the EventSource cleanly.
const doneSentinel = "[DONE]"

// =============================================================================
// Interface Definition
// =============================================================================

// SSEWriter defines the contract for writing the dashboard's chunk stream
// as Server-Sent Events.
//
// # Description
//
// SSEWriter abstracts SSE serialization from HTTP response mechanics. The
// wire format is data-only frames (`data: {json}\n\n`), closed by a final
// `data: [DONE]\n\n` sentinel frame.
//
// Each event is automatically assigned:
//   - Id: UUID v4 for ordering and deduplication
//   - CreatedAt: Unix timestamp in milliseconds
//   - Hash: SHA-256 hash of event content for integrity
//   - PrevHash: Hash of previous event for chain verification
//
// # Thread Safety
//
// Implementations must be safe for concurrent use: the query handler emits
// keepalive comments from a ticker goroutine while chunks stream.
//
// # Assumptions
//
//   - Caller has set the SSE headers via SetSSEHeaders before writing.
type SSEWriter interface {
	// WriteChunk writes one stream chunk as an SSE data frame. Metadata
	// (Id, CreatedAt, Hash, PrevHash) is populated here; the chunk itself
	// is untouched. Flushes immediately.
	WriteChunk(chunk datatypes.StreamChunk) error

	// WriteDone writes the [DONE] sentinel frame. Call exactly once, after
	// the terminal chunk; nothing may be written afterwards.
	WriteDone() error

	// WriteKeepAlive sends an SSE comment (": ping") to keep the TCP
	// connection alive through load-balancer idle timeouts. Comments do
	// not advance the hash chain.
	WriteKeepAlive() error
}

// =============================================================================
// Struct Definition
// =============================================================================

// sseWriter implements SSEWriter over an http.ResponseWriter.
//
// The writer maintains a hash chain for integrity verification: each
// event's Hash is the SHA-256 of its content and each event's PrevHash
// links to the previous event, giving chain of custody for streamed
// responses and their timestamps.
type sseWriter struct {
	writer  http.ResponseWriter
	flusher http.Flusher
	chain   eventChain
	mu      sync.Mutex
}

// =============================================================================
// Constructor
// =============================================================================

// NewSSEWriter creates an SSEWriter for the given ResponseWriter.
//
// # Inputs
//
//   - w: HTTP ResponseWriter. Must implement http.Flusher.
//
// # Outputs
//
//   - SSEWriter: Ready to write events.
//   - error: Non-nil if the ResponseWriter does not support flushing.
func NewSSEWriter(w http.ResponseWriter) (SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("ResponseWriter does not support http.Flusher")
	}

	return &sseWriter{
		writer:  w,
		flusher: flusher,
	}, nil
}

// =============================================================================
// Methods
// =============================================================================

// WriteChunk implements SSEWriter.
func (w *sseWriter) WriteChunk(chunk datatypes.StreamChunk) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	event := w.chain.next(chunk)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(w.writer, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	w.flusher.Flush()
	return nil
}

// WriteDone implements SSEWriter.
func (w *sseWriter) WriteDone() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.writer, "data: %s\n\n", doneSentinel); err != nil {
		return fmt.Errorf("write done sentinel: %w", err)
	}

	w.flusher.Flush()
	return nil
}

// WriteKeepAlive implements SSEWriter.
func (w *sseWriter) WriteKeepAlive() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// SSE comment format: colon followed by text, then double newline
	if _, err := fmt.Fprintf(w.writer, ": ping\n\n"); err != nil {
		return fmt.Errorf("write keepalive: %w", err)
	}

	w.flusher.Flush()
	return nil
}

// =============================================================================
// Helper Functions
// =============================================================================

// SetSSEHeaders configures the response headers for SSE streaming. Must be
// called before any body write.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// =============================================================================
// Compile-time Interface Check
// =============================================================================

var _ SSEWriter = (*sseWriter)(nil)
