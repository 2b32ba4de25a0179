// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionEcho mounts the Session middleware in front of a handler that
// reports the resolved session id.
func sessionEcho() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Session())
	engine.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})
	return engine
}

func TestSession_MintsNewId(t *testing.T) {
	engine := sessionEcho()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Body.String()
	assert.NoError(t, uuid.Validate(id))

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "a fresh session must set the cookie")
	assert.Equal(t, id, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestSession_AcceptsValidCookie(t *testing.T) {
	engine := sessionEcho()
	id := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, id, w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "a valid cookie must not be reissued")
}

func TestSession_RejectsMalformedCookie(t *testing.T) {
	engine := sessionEcho()

	tests := []string{
		"not-a-uuid",
		"../../../etc/passwd",
		"",
		"d228d925-dc6c-422a-84e1", // truncated
	}
	for _, value := range tests {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: value})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		id := w.Body.String()
		assert.NoError(t, uuid.Validate(id), "cookie %q must be replaced", value)
		assert.NotEqual(t, value, id)
	}
}

func TestRateLimiter_BurstThenThrottle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(1, 3)

	engine := gin.New()
	engine.Use(Session(), limiter.Middleware())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	id := uuid.New().String()
	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send(), "request %d within burst", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(1, 1)

	engine := gin.New()
	engine.Use(Session(), limiter.Middleware())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(id string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	first := uuid.New().String()
	second := uuid.New().String()
	assert.Equal(t, http.StatusOK, send(first))
	assert.Equal(t, http.StatusTooManyRequests, send(first))
	assert.Equal(t, http.StatusOK, send(second), "a different session gets its own budget")
}
