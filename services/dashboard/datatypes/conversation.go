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

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one exchange unit in a session's conversation history.
// Turns are immutable once appended to the store.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Message is the shape sent to the completion provider. It mirrors Turn but
// exists as its own type so the provider boundary does not depend on store
// internals.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToMessage converts a stored turn into a provider message.
func (t Turn) ToMessage() Message {
	return Message{Role: string(t.Role), Content: t.Content}
}
