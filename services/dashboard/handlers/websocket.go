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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/secureguard/services/dashboard/conversation"
	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
	"github.com/AleutianAI/secureguard/services/dashboard/observability"
	"github.com/AleutianAI/secureguard/services/dashboard/router"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
}

// wsQueryRequest is one inbound WebSocket message.
type wsQueryRequest struct {
	Query string `json:"query"`
}

func sendJSON(ws *websocket.Conn, v interface{}) error {
	err := ws.WriteJSON(v)
	if err != nil {
		slog.Warn("Failed to write WebSocket JSON", "error", err)
	}
	return err
}

// HandleQueryWebSocket serves GET /api/query/ws.
//
// # Description
//
// The WebSocket transport carries the same stream as the SSE endpoint, one
// StreamEvent per text message, with the same hash chain. The connection is
// long-lived: each inbound {"query": ...} message runs one routed query and
// streams its chunks back before the next message is read, so requests on
// one connection are serialized by construction. The session id is minted
// per connection and sent to the client in the opening message.
func HandleQueryWebSocket(
	qr router.Router,
	store conversation.Store,
	locks *SessionLocks,
	metrics *observability.Metrics,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		sessionID := uuid.New().String()
		slog.Info("New websocket session started", "session_id", sessionID)

		if err := sendJSON(ws, map[string]interface{}{
			"action":     "session_created",
			"session_id": sessionID,
		}); err != nil {
			return
		}

		for {
			var req wsQueryRequest
			if err := ws.ReadJSON(&req); err != nil {
				slog.Info("Websocket client disconnected", "error", err.Error())
				break
			}
			serveWebSocketQuery(c, ws, qr, store, locks, metrics, sessionID, req.Query)
		}
	}
}

// serveWebSocketQuery runs one query and streams its chunks to the socket.
func serveWebSocketQuery(
	c *gin.Context,
	ws *websocket.Conn,
	qr router.Router,
	store conversation.Store,
	locks *SessionLocks,
	metrics *observability.Metrics,
	sessionID string,
	query string,
) {
	unlock := locks.Lock(sessionID)
	defer unlock()

	metrics.QueriesTotal.WithLabelValues("ws").Inc()
	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while streaming a websocket query", "session_id", sessionID, "panic", r)
			var chain eventChain
			_ = sendJSON(ws, chain.next(datatypes.ErrorChunk("Internal error processing query")))
		}
	}()

	store.Append(sessionID, datatypes.RoleUser, query)

	var chain eventChain
	ctx := c.Request.Context()
	for chunk := range qr.Process(ctx, sessionID, query) {
		if ctx.Err() != nil {
			return
		}
		metrics.ChunksTotal.WithLabelValues(string(chunk.Type)).Inc()
		if err := sendJSON(ws, chain.next(chunk)); err != nil {
			return
		}
	}
}
