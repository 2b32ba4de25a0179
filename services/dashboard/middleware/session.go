// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides the gin middleware shared by the dashboard
// routes: session identification and per-session rate limiting.
package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie is the browser cookie carrying the session id.
	SessionCookie = "secureguard_session"

	// sessionContextKey is where the middleware stores the resolved id.
	sessionContextKey = "session_id"

	// sessionMaxAgeSeconds keeps the cookie for one day.
	sessionMaxAgeSeconds = 86400
)

// Session resolves the caller's session id.
//
// The cookie value is untrusted input: anything that is not a well-formed
// UUID is discarded and replaced with a fresh id, so a caller cannot pick
// arbitrary keys into the conversation store. The resolved id is stored on
// the gin context; read it with SessionID.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
			c.SetCookie(SessionCookie, id, sessionMaxAgeSeconds, "/", "", false, true)
			slog.Debug("Issued a new session id", "session_id", id)
		}
		c.Set(sessionContextKey, id)
		c.Next()
	}
}

// SessionID returns the session id resolved by the Session middleware.
// Empty when the middleware did not run for this route.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
