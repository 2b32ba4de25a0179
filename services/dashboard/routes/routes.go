// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/secureguard/services/dashboard/conversation"
	"github.com/AleutianAI/secureguard/services/dashboard/handlers"
	"github.com/AleutianAI/secureguard/services/dashboard/middleware"
	"github.com/AleutianAI/secureguard/services/dashboard/observability"
	"github.com/AleutianAI/secureguard/services/dashboard/router"
	"github.com/AleutianAI/secureguard/services/dashboard/ttl"
	"github.com/AleutianAI/secureguard/services/tools"
)

// Per-session request budget. Streaming responses run long, so the rate is
// modest and the burst covers a browser retrying a dropped stream.
const (
	requestsPerSecond = 5
	requestBurst      = 10
)

// SetupRoutes mounts the dashboard API.
func SetupRoutes(
	engine *gin.Engine,
	qr router.Router,
	registry tools.Registry,
	store conversation.Store,
	sweeper *ttl.Sweeper,
	metrics *observability.Metrics,
	llmConfigured bool,
) {
	locks := handlers.NewSessionLocks()
	limiter := middleware.NewRateLimiter(rate.Limit(requestsPerSecond), requestBurst)

	engine.GET("/metrics", observability.PrometheusHandler())

	api := engine.Group("/api")
	api.Use(middleware.Session())
	api.Use(limiter.Middleware())
	if sweeper != nil {
		api.Use(func(c *gin.Context) {
			sweeper.Touch(middleware.SessionID(c))
			c.Next()
		})
	}
	{
		api.POST("/query", handlers.HandleQueryStream(qr, store, locks, metrics))
		api.GET("/query/ws", handlers.HandleQueryWebSocket(qr, store, locks, metrics))
		api.POST("/clear", handlers.HandleClearSession(store))
		api.GET("/health", handlers.HandleHealthCheck(registry))
		api.GET("/status", handlers.HandleStatus(qr, registry, store, llmConfigured))
		api.GET("/tools", handlers.HandleListTools(qr))

		// Direct tool endpoints for dashboards that skip the chat surface
		toolAPI := api.Group("/tools")
		{
			toolAPI.GET("/summary", handlers.HandleSecuritySummary(registry))
			toolAPI.GET("/organizations", handlers.HandleOrganizations(registry))
			toolAPI.GET("/cases", handlers.HandleCases(registry))
			toolAPI.GET("/signals", handlers.HandleSignals(registry))
		}
	}
}
