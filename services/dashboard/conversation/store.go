// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package conversation provides the per-session bounded message history.
package conversation

import (
	"sync"

	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Store defines the contract for per-session conversation history.
//
// # Description
//
// Store keeps an ordered, bounded turn history per session id. Histories are
// created lazily on first append; Clear is idempotent. Read returns a copy
// so callers never observe later mutations through a returned slice.
//
// # Concurrency
//
// Implementations guard only their keyed map: operations on different
// sessions may run in parallel, and a single Append or Read is atomic.
// Request-level serialization for one session (append, then read, then
// append again as one unit) is the caller's duty: the HTTP layer holds a
// per-session lock for the duration of a request.
type Store interface {
	// Append adds a turn to the session's history, creating it if absent,
	// and enforces the turn cap with FIFO truncation. Never fails.
	Append(sessionID string, role datatypes.Role, content string)

	// Read returns a copy of the session's history, oldest first.
	// An unknown session yields an empty slice.
	Read(sessionID string) []datatypes.Turn

	// Clear removes the session's history entirely. Idempotent.
	Clear(sessionID string)

	// Len returns the number of sessions with live history.
	Len() int

	// Sessions returns the ids of sessions with live history, in no
	// particular order.
	Sessions() []string
}

// =============================================================================
// In-Memory Store
// =============================================================================

// MemoryStore is the in-memory Store used by the demo dashboard.
type MemoryStore struct {
	mu       sync.RWMutex
	maxTurns int
	byID     map[string][]datatypes.Turn
}

// NewMemoryStore creates an empty store. maxTurns <= 0 uses the default cap.
func NewMemoryStore(maxTurns int) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = datatypes.MaxHistoryTurns
	}
	return &MemoryStore{
		maxTurns: maxTurns,
		byID:     make(map[string][]datatypes.Turn),
	}
}

// Append implements Store.
func (s *MemoryStore) Append(sessionID string, role datatypes.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.byID[sessionID], datatypes.Turn{Role: role, Content: content})
	if excess := len(history) - s.maxTurns; excess > 0 {
		// Drop the oldest turns; copy so the backing array does not pin
		// truncated entries.
		trimmed := make([]datatypes.Turn, s.maxTurns)
		copy(trimmed, history[excess:])
		history = trimmed
	}
	s.byID[sessionID] = history
}

// Read implements Store.
func (s *MemoryStore) Read(sessionID string) []datatypes.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byID[sessionID]
	out := make([]datatypes.Turn, len(history))
	copy(out, history)
	return out
}

// Clear implements Store.
func (s *MemoryStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, sessionID)
}

// Len implements Store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Sessions implements Store.
func (s *MemoryStore) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	return ids
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)
