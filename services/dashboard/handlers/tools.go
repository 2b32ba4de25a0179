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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/secureguard/services/dashboard/router"
	"github.com/AleutianAI/secureguard/services/secdata"
	"github.com/AleutianAI/secureguard/services/tools"
)

// HandleListTools serves GET /api/tools.
//
// The names come from the registry when reachable, else from the static
// known-tools fallback; callers cannot tell which served them.
func HandleListTools(qr router.Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tools": qr.ListToolNames(c.Request.Context()),
		})
	}
}

// HandleSecuritySummary serves GET /api/tools/summary.
func HandleSecuritySummary(registry tools.Registry) gin.HandlerFunc {
	return invokeTool(registry, "get_security_summary", func(*gin.Context) map[string]string {
		return nil
	})
}

// HandleOrganizations serves GET /api/tools/organizations.
// An optional ?type= filters by organization type.
func HandleOrganizations(registry tools.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if orgType := c.Query("type"); orgType != "" {
			invokeTool(registry, "filter_organizations_by_type", func(*gin.Context) map[string]string {
				return map[string]string{"org_type": orgType}
			})(c)
			return
		}
		invokeTool(registry, "list_organizations", func(*gin.Context) map[string]string {
			return nil
		})(c)
	}
}

// HandleCases serves GET /api/tools/cases with an optional ?status= filter.
func HandleCases(registry tools.Registry) gin.HandlerFunc {
	return invokeTool(registry, "list_cases", func(c *gin.Context) map[string]string {
		if status := c.Query("status"); status != "" {
			return map[string]string{"status": status}
		}
		return nil
	})
}

// HandleSignals serves GET /api/tools/signals with optional ?org= and
// ?type= filters.
func HandleSignals(registry tools.Registry) gin.HandlerFunc {
	return invokeTool(registry, "list_signals", func(c *gin.Context) map[string]string {
		args := make(map[string]string)
		if org := c.Query("org"); org != "" {
			args["org_name"] = org
		}
		if signalType := c.Query("type"); signalType != "" {
			args["signal_type"] = signalType
		}
		return args
	})
}

// invokeTool adapts one registry tool to a JSON endpoint. Lookup misses map
// to 404, bad arguments to 400.
func invokeTool(registry tools.Registry, name string, argsFor func(*gin.Context) map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := registry.Invoke(c.Request.Context(), name, argsFor(c))
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, secdata.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
