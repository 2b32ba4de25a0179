// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Constants for Security Compliance
// =============================================================================

const (
	// MaxQueryBytes is the maximum size of a single query body.
	// Checks byte length (not rune count) to bound memory per request.
	MaxQueryBytes = 32 * 1024 // 32KB
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// queryValidate is the validator instance for dashboard request datatypes.
// Initialized in init() with custom validators.
var queryValidate *validator.Validate

func init() {
	queryValidate = validator.New()
	_ = queryValidate.RegisterValidation("maxbytes", validateMaxBytes)
}

// validateMaxBytes enforces MaxQueryBytes on string fields.
func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxQueryBytes
}

// =============================================================================
// Query Request Types
// =============================================================================

// QueryRequest is the POST /api/query body.
//
// # Description
//
// Carries one user query. The session is identified by the session cookie,
// not the body, so replayed bodies cannot cross session boundaries.
//
// # Validation
//
//   - Query: required, non-empty after trimming is checked by the handler,
//     at most 32KB (maxbytes custom validator).
type QueryRequest struct {
	Query string `json:"query" validate:"required,maxbytes"`
}

// Validate validates the QueryRequest fields.
// Call after binding the JSON request body.
func (r *QueryRequest) Validate() error {
	return queryValidate.Struct(r)
}
