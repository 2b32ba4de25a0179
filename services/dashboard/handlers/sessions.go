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
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/secureguard/services/dashboard/conversation"
	"github.com/AleutianAI/secureguard/services/dashboard/middleware"
	"github.com/AleutianAI/secureguard/services/dashboard/router"
	"github.com/AleutianAI/secureguard/services/tools"
)

// HandleClearSession serves POST /api/clear.
//
// Removes the caller's conversation history. Idempotent: clearing a session
// with no history still acknowledges.
func HandleClearSession(store conversation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := middleware.SessionID(c)
		store.Clear(sessionID)
		slog.Info("Cleared conversation history", "session_id", sessionID)
		c.JSON(http.StatusOK, gin.H{
			"status":     "cleared",
			"session_id": sessionID,
		})
	}
}

// statusResponse is the GET /api/status body.
type statusResponse struct {
	Status         string   `json:"status"`
	SessionID      string   `json:"session_id"`
	ActiveSessions int      `json:"active_sessions"`
	LLMConfigured  bool     `json:"llm_configured"`
	Tools          []string `json:"tools"`
	RegistryHealth any      `json:"registry_health"`
}

// HandleStatus serves GET /api/status.
//
// Gathers the tool listing and the registry health report concurrently;
// a registry failure degrades the response to 503 rather than hiding it.
func HandleStatus(
	qr router.Router,
	registry tools.Registry,
	store conversation.Store,
	llmConfigured bool,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, ctx := errgroup.WithContext(c.Request.Context())

		var names []string
		var health any
		g.Go(func() error {
			names = qr.ListToolNames(ctx)
			return nil
		})
		g.Go(func() error {
			h, err := registry.Invoke(ctx, "health", nil)
			if err != nil {
				return err
			}
			health = h
			return nil
		})

		if err := g.Wait(); err != nil {
			slog.Error("Status probe failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, statusResponse{
			Status:         "ok",
			SessionID:      middleware.SessionID(c),
			ActiveSessions: store.Len(),
			LLMConfigured:  llmConfigured,
			Tools:          names,
			RegistryHealth: health,
		})
	}
}
