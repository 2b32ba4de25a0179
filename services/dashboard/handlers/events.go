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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
)

// eventChain wraps outbound chunks into StreamEvent envelopes with an id,
// a timestamp and a SHA-256 hash linked to the previous event. Both the SSE
// and the WebSocket transports use it so their wire payloads verify the
// same way.
//
// Not safe for concurrent use on its own; the owning writer serializes.
type eventChain struct {
	prevHash string
}

// next builds the envelope for chunk and advances the chain.
func (ec *eventChain) next(chunk datatypes.StreamChunk) datatypes.StreamEvent {
	event := datatypes.StreamEvent{
		Id:        uuid.New().String(),
		CreatedAt: time.Now().UnixMilli(),
		PrevHash:  ec.prevHash,
		Response:  chunk.Response,
		Type:      chunk.Type,
		Done:      chunk.Done,
	}
	event.Hash = computeEventHash(event)
	ec.prevHash = event.Hash
	return event
}

// computeEventHash hashes every field of the event except Hash itself. The
// id, timestamp and PrevHash are included so replayed or reordered events
// break the chain.
func computeEventHash(event datatypes.StreamEvent) string {
	hashInput := fmt.Sprintf("%s|%s|%d|%s|%s|%t",
		event.Id,
		event.Type,
		event.CreatedAt,
		event.PrevHash,
		event.Response,
		event.Done,
	)

	hash := sha256.Sum256([]byte(hashInput))
	return hex.EncodeToString(hash[:])
}
