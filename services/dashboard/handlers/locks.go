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

import "sync"

// SessionLocks serializes in-flight requests per session id.
//
// # Description
//
// The conversation store guards individual operations, but a streaming
// request performs several of them (append the user turn, read the history,
// append the assistant turn) that must not interleave with another request
// for the same session. Handlers acquire the session's lock for the life of
// the request; different sessions proceed in parallel.
//
// Locks are created lazily and kept for the process lifetime. One idle
// mutex per session is cheaper than the bookkeeping to evict it.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionLocks creates an empty lock table.
func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for sessionID and returns the release func.
//
//	defer locks.Lock(sessionID)()
func (l *SessionLocks) Lock(sessionID string) func() {
	l.mu.Lock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
