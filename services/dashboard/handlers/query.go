// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the gin handlers for the dashboard API: the
// streaming query endpoints, tool listings, and session administration.
package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/secureguard/services/dashboard/conversation"
	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
	"github.com/AleutianAI/secureguard/services/dashboard/middleware"
	"github.com/AleutianAI/secureguard/services/dashboard/observability"
	"github.com/AleutianAI/secureguard/services/dashboard/router"
)

// heartbeatInterval is the interval for sending keepalive pings while a
// stream is open. Load balancer idle timeouts commonly sit at 60s.
const heartbeatInterval = 15 * time.Second

// HandleQueryStream serves POST /api/query as an SSE stream.
//
// # Description
//
// Binds and validates the query body, appends the user turn, then drives
// the router's chunk sequence onto the wire. Each chunk becomes one
// `data: {json}` frame; the stream closes with a `data: [DONE]` sentinel.
// The session's lock is held for the whole request so concurrent requests
// for one session cannot interleave their history writes.
//
// All routing failures arrive as error chunks from the router and stream
// normally; only transport-level problems (bad body, no flusher support)
// produce non-200 responses, and only before streaming starts.
func HandleQueryStream(
	qr router.Router,
	store conversation.Store,
	locks *SessionLocks,
	metrics *observability.Metrics,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			slog.Warn("Rejected an invalid query request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required and limited to 32KB"})
			return
		}

		sessionID := middleware.SessionID(c)
		if sessionID == "" {
			// Route mounted without the session middleware; serve the
			// request under a throwaway session rather than failing.
			sessionID = uuid.New().String()
		}

		unlock := locks.Lock(sessionID)
		defer unlock()

		metrics.QueriesTotal.WithLabelValues("sse").Inc()
		metrics.ActiveStreams.Inc()
		defer metrics.ActiveStreams.Dec()
		start := time.Now()
		defer func() {
			metrics.QueryDuration.WithLabelValues("sse").Observe(time.Since(start).Seconds())
		}()

		// The user turn lands before routing; the router expects it as the
		// last history element and never appends user turns itself.
		store.Append(sessionID, datatypes.RoleUser, req.Query)

		SetSSEHeaders(c.Writer)
		writer, err := NewSSEWriter(c.Writer)
		if err != nil {
			slog.Error("Streaming unsupported by the response writer", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
			return
		}

		heartbeatDone := make(chan struct{})
		var stopOnce sync.Once
		stopHeartbeat := func() { stopOnce.Do(func() { close(heartbeatDone) }) }
		defer stopHeartbeat()
		go runHeartbeat(writer, heartbeatDone)

		defer func() {
			if r := recover(); r != nil {
				slog.Error("Panic while streaming a query", "session_id", sessionID, "panic", r)
				stopHeartbeat()
				_ = writer.WriteChunk(datatypes.ErrorChunk("Internal error processing query"))
				_ = writer.WriteDone()
			}
		}()

		ctx := c.Request.Context()
		for chunk := range qr.Process(ctx, sessionID, req.Query) {
			if ctx.Err() != nil {
				slog.Info("Client disconnected mid-stream", "session_id", sessionID)
				return
			}
			metrics.ChunksTotal.WithLabelValues(string(chunk.Type)).Inc()
			if err := writer.WriteChunk(chunk); err != nil {
				slog.Warn("Failed to write a stream chunk", "session_id", sessionID, "error", err)
				return
			}
		}

		stopHeartbeat()
		if err := writer.WriteDone(); err != nil {
			slog.Warn("Failed to write the stream sentinel", "session_id", sessionID, "error", err)
		}
	}
}

// runHeartbeat pings the client until the stream finishes or a write fails.
func runHeartbeat(w SSEWriter, done <-chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := w.WriteKeepAlive(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
