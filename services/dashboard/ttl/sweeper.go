// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ttl evicts idle conversation histories.
//
// The conversation store itself never expires sessions; this package owns
// that lifecycle. Handlers report activity with Touch, and a background
// sweep clears any session that has been quiet longer than the configured
// idle window.
package ttl

import (
	"log/slog"
	"sync"
	"time"

	"github.com/AleutianAI/secureguard/services/dashboard/conversation"
)

// =============================================================================
// Clock
// =============================================================================

// Clock abstracts time.Now so sweeps are testable without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// =============================================================================
// Sweeper
// =============================================================================

const (
	// DefaultIdleAfter clears a session after 30 minutes of silence.
	DefaultIdleAfter = 30 * time.Minute

	// DefaultInterval is how often the background sweep runs.
	DefaultInterval = 5 * time.Minute
)

// Sweeper clears idle sessions from a conversation store.
//
// # Description
//
// Sweeper keeps a last-activity timestamp per session. A session the store
// knows but the sweeper has never seen (created before the sweeper started,
// or written outside the handlers) is granted a full idle window from the
// moment the sweep first observes it, so a restart never mass-evicts.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
type Sweeper struct {
	store     conversation.Store
	clock     Clock
	idleAfter time.Duration
	interval  time.Duration

	mu       sync.Mutex
	lastSeen map[string]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSweeper creates a Sweeper over the store. Non-positive durations fall
// back to the defaults; a nil clock uses the wall clock.
func NewSweeper(store conversation.Store, idleAfter, interval time.Duration, clock Clock) *Sweeper {
	if idleAfter <= 0 {
		idleAfter = DefaultIdleAfter
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Sweeper{
		store:     store,
		clock:     clock,
		idleAfter: idleAfter,
		interval:  interval,
		lastSeen:  make(map[string]time.Time),
		stop:      make(chan struct{}),
	}
}

// Touch records activity for a session. Call on every request that reads
// or writes the session's history.
func (s *Sweeper) Touch(sessionID string) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	s.lastSeen[sessionID] = s.clock.Now()
	s.mu.Unlock()
}

// Start launches the background sweep loop. Call Stop to end it.
func (s *Sweeper) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if cleared := s.SweepOnce(); cleared > 0 {
					slog.Info("Cleared idle sessions", "count", cleared)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop ends the background sweep loop. Idempotent.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// SweepOnce runs a single sweep and returns how many sessions it cleared.
func (s *Sweeper) SweepOnce() int {
	now := s.clock.Now()
	live := s.store.Sessions()

	s.mu.Lock()
	defer s.mu.Unlock()

	liveSet := make(map[string]struct{}, len(live))
	cleared := 0
	for _, id := range live {
		liveSet[id] = struct{}{}

		last, ok := s.lastSeen[id]
		if !ok {
			// First sighting: start the idle window now.
			s.lastSeen[id] = now
			continue
		}
		if now.Sub(last) > s.idleAfter {
			s.store.Clear(id)
			delete(s.lastSeen, id)
			cleared++
		}
	}

	// Forget activity for sessions the store no longer holds.
	for id := range s.lastSeen {
		if _, ok := liveSet[id]; !ok {
			delete(s.lastSeen, id)
		}
	}
	return cleared
}
