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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/secureguard/services/tools"
)

// HandleHealthCheck serves GET /api/health via the registry's health tool,
// so the endpoint exercises the same path the LLM suggestions point at.
func HandleHealthCheck(registry tools.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := registry.Invoke(c.Request.Context(), "health", nil)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
