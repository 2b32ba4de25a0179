// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/secureguard/services/dashboard/conversation"
	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
	"github.com/AleutianAI/secureguard/services/llm"
	"github.com/AleutianAI/secureguard/services/policy_engine"
	"github.com/AleutianAI/secureguard/services/tools"
)

// =============================================================================
// Mocks
// =============================================================================

// mockProvider is a scriptable CompletionClient that records its calls.
type mockProvider struct {
	response    string
	err         error
	calls       int
	gotMessages []datatypes.Message
}

func (m *mockProvider) Complete(_ context.Context, messages []datatypes.Message, _ llm.GenerationParams) (string, error) {
	m.calls++
	m.gotMessages = messages
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// mockRegistry lets a test script tool results without the demo dataset.
type mockRegistry struct {
	result  any
	err     error
	calls   int
	gotName string
	gotArgs map[string]string
}

func (m *mockRegistry) Invoke(_ context.Context, name string, args map[string]string) (any, error) {
	m.calls++
	m.gotName = name
	m.gotArgs = args
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockRegistry) List(_ context.Context) ([]tools.Info, error) {
	return []tools.Info{{Name: "list_cases", Description: "List security cases"}}, nil
}

// =============================================================================
// Helpers
// =============================================================================

func createTestRouter(t *testing.T, provider llm.CompletionClient, registry tools.Registry) (*QueryRouter, *conversation.MemoryStore) {
	t.Helper()
	store := conversation.NewMemoryStore(0)
	if registry == nil {
		registry = tools.NewBuiltin(nil)
	}
	return New(store, registry, provider, nil), store
}

func collect(t *testing.T, r *QueryRouter, sessionID string, query string) []datatypes.StreamChunk {
	t.Helper()
	var chunks []datatypes.StreamChunk
	for chunk := range r.Process(context.Background(), sessionID, query) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// =============================================================================
// Chunker
// =============================================================================

func TestChunks_SplitsAtBoundary(t *testing.T) {
	text := strings.Repeat("a", 250)
	var chunks []datatypes.StreamChunk
	for c := range Chunks(text, datatypes.ChunkKindLLM) {
		chunks = append(chunks, c)
	}

	require.Len(t, chunks, 4)
	assert.Len(t, chunks[0].Response, 100)
	assert.Len(t, chunks[1].Response, 100)
	assert.Len(t, chunks[2].Response, 50)
	assert.False(t, chunks[2].Done)
	assert.Equal(t, datatypes.StreamChunk{Type: datatypes.ChunkKindLLM, Done: true}, chunks[3])
}

func TestChunks_EmptyTextYieldsOnlyTerminal(t *testing.T) {
	var chunks []datatypes.StreamChunk
	for c := range Chunks("", datatypes.ChunkKindTool) {
		chunks = append(chunks, c)
	}
	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].Done)
	assert.Empty(t, chunks[0].Response)
	assert.Equal(t, datatypes.ChunkKindTool, chunks[0].Type)
}

func TestChunks_EarlyTerminationStopsProduction(t *testing.T) {
	seen := 0
	for range Chunks(strings.Repeat("x", 1000), datatypes.ChunkKindLLM) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

// =============================================================================
// Routing & Parsing
// =============================================================================

func TestProcess_ToolPrefixIsCaseInsensitiveAndTrimmed(t *testing.T) {
	registry := &mockRegistry{result: "ok"}
	r, _ := createTestRouter(t, nil, registry)

	chunks := collect(t, r, "s1", "  TOOL: list_cases status=active")

	require.Equal(t, 1, registry.calls)
	assert.Equal(t, "list_cases", registry.gotName)
	assert.Equal(t, map[string]string{"status": "active"}, registry.gotArgs)
	require.NotEmpty(t, chunks)
	assert.Equal(t, datatypes.ChunkKindTool, chunks[0].Type)
}

func TestProcess_ToolArgParsing(t *testing.T) {
	registry := &mockRegistry{result: "ok"}
	r, _ := createTestRouter(t, nil, registry)

	collect(t, r, "s1", "tool: get_organization_details org_name=OrgA junk n=v=2")

	assert.Equal(t, "get_organization_details", registry.gotName)
	// Tokens without '=' are ignored; the first '=' separates key and value.
	assert.Equal(t, map[string]string{"org_name": "OrgA", "n": "v=2"}, registry.gotArgs)
}

func TestProcess_ToolWithoutNameIsTerminalError(t *testing.T) {
	r, _ := createTestRouter(t, nil, &mockRegistry{})

	chunks := collect(t, r, "s1", "tool:   ")

	require.Len(t, chunks, 1)
	assert.Equal(t, datatypes.ChunkKindError, chunks[0].Type)
	assert.True(t, chunks[0].Done)
}

func TestProcess_EmptyQueryIsTerminalError(t *testing.T) {
	provider := &mockProvider{response: "hi"}
	r, _ := createTestRouter(t, provider, nil)

	chunks := collect(t, r, "s1", "   ")

	require.Len(t, chunks, 1)
	assert.Equal(t, datatypes.ChunkKindError, chunks[0].Type)
	assert.Equal(t, 0, provider.calls)
}

func TestProcess_StructuredToolResultIsPrettyPrinted(t *testing.T) {
	registry := &mockRegistry{result: map[string]string{"case_id": "CASE001"}}
	r, _ := createTestRouter(t, nil, registry)

	chunks := collect(t, r, "s1", "tool: get_case_details case_id=CASE001")

	require.NotEmpty(t, chunks)
	var full strings.Builder
	for _, c := range chunks {
		full.WriteString(c.Response)
	}
	assert.Contains(t, full.String(), "\"case_id\": \"CASE001\"")
}

// =============================================================================
// Append Semantics
// =============================================================================

func TestProcess_ToolFailureDoesNotAppendAssistantTurn(t *testing.T) {
	registry := &mockRegistry{err: errors.New("boom")}
	r, store := createTestRouter(t, nil, registry)
	store.Append("s1", datatypes.RoleUser, "tool: broken")

	chunks := collect(t, r, "s1", "tool: broken")

	require.Len(t, chunks, 1)
	assert.Equal(t, datatypes.ChunkKindError, chunks[0].Type)
	assert.Contains(t, chunks[0].Response, "Error executing tool:")

	history := store.Read("s1")
	require.Len(t, history, 1)
	assert.Equal(t, datatypes.RoleUser, history[0].Role)
}

func TestProcess_ConversationSuccessAppendsExactlyOneAssistantTurn(t *testing.T) {
	provider := &mockProvider{response: "All clear."}
	r, store := createTestRouter(t, provider, nil)
	store.Append("s1", datatypes.RoleUser, "how are things?")

	chunks := collect(t, r, "s1", "how are things?")

	require.NotEmpty(t, chunks)
	assert.Equal(t, datatypes.ChunkKindLLM, chunks[0].Type)

	history := store.Read("s1")
	require.Len(t, history, 2)
	assert.Equal(t, datatypes.RoleAssistant, history[1].Role)
	assert.Equal(t, "All clear.", history[1].Content)
}

func TestProcess_ConversationFailureAppendsNothing(t *testing.T) {
	provider := &mockProvider{err: errors.New("rate limited")}
	r, store := createTestRouter(t, provider, nil)
	store.Append("s1", datatypes.RoleUser, "show me the summary")

	chunks := collect(t, r, "s1", "show me the summary")

	require.Len(t, chunks, 1)
	assert.Equal(t, datatypes.ChunkKindError, chunks[0].Type)
	assert.Contains(t, chunks[0].Response, "LLM Error: rate limited")
	assert.Contains(t, chunks[0].Response, "get_security_summary")

	history := store.Read("s1")
	require.Len(t, history, 1)
}

// =============================================================================
// Degraded Mode & Suggestions
// =============================================================================

func TestProcess_NoProviderYieldsSuggestions(t *testing.T) {
	r, _ := createTestRouter(t, nil, nil)

	chunks := collect(t, r, "s1", "show me the summary")

	require.Len(t, chunks, 1)
	assert.Equal(t, datatypes.ChunkKindError, chunks[0].Type)
	assert.True(t, chunks[0].Done)
	assert.Contains(t, chunks[0].Response, "tool: get_security_summary")
}

func TestProcess_NoProviderNoKeywordsStillSingleError(t *testing.T) {
	r, _ := createTestRouter(t, nil, nil)

	chunks := collect(t, r, "s1", "hello there")

	require.Len(t, chunks, 1)
	assert.Equal(t, datatypes.ChunkKindError, chunks[0].Type)
	assert.NotContains(t, chunks[0].Response, "Try these direct tool calls")
}

// =============================================================================
// Provider Request Shape
// =============================================================================

func TestProcess_ProviderRequestHasPreambleThenHistory(t *testing.T) {
	provider := &mockProvider{response: "done"}
	r, store := createTestRouter(t, provider, &mockRegistry{})
	store.Append("s1", datatypes.RoleUser, "first question")

	collect(t, r, "s1", "first question")

	require.Equal(t, 1, provider.calls)
	require.Len(t, provider.gotMessages, 2)
	assert.Equal(t, "system", provider.gotMessages[0].Role)
	assert.Contains(t, provider.gotMessages[0].Content, "SecureGuard security monitoring assistant")
	assert.Contains(t, provider.gotMessages[0].Content, "- list_cases: List security cases")
	assert.Equal(t, "user", provider.gotMessages[1].Role)
	assert.Equal(t, "first question", provider.gotMessages[1].Content)
}

func TestProcess_IsLazyUntilConsumed(t *testing.T) {
	provider := &mockProvider{response: "never pulled"}
	r, _ := createTestRouter(t, provider, nil)

	// Obtaining the sequence must not call the provider.
	_ = r.Process(context.Background(), "s1", "tell me something")
	assert.Equal(t, 0, provider.calls)
}

// =============================================================================
// Policy Gate
// =============================================================================

func TestProcess_PolicyBlocksOutboundSecrets(t *testing.T) {
	engine, err := policy_engine.NewPolicyEngine()
	require.NoError(t, err)

	provider := &mockProvider{response: "should not be reached"}
	store := conversation.NewMemoryStore(0)
	r := New(store, tools.NewBuiltin(nil), provider, engine)

	chunks := collect(t, r, "s1", "my key is AKIA1234567890123456, is that bad?")

	require.Len(t, chunks, 1)
	assert.Equal(t, datatypes.ChunkKindError, chunks[0].Type)
	assert.Contains(t, chunks[0].Response, "Query blocked")
	assert.Contains(t, chunks[0].Response, "secret")
	assert.Equal(t, 0, provider.calls)
	assert.Empty(t, store.Read("s1"))
}

func TestProcess_PolicyPassesCleanQueries(t *testing.T) {
	engine, err := policy_engine.NewPolicyEngine()
	require.NoError(t, err)

	provider := &mockProvider{response: "all quiet"}
	store := conversation.NewMemoryStore(0)
	r := New(store, tools.NewBuiltin(nil), provider, engine)

	chunks := collect(t, r, "s1", "how is my security posture today?")

	require.NotEmpty(t, chunks)
	assert.Equal(t, datatypes.ChunkKindLLM, chunks[0].Type)
	assert.Equal(t, 1, provider.calls, "the classification gate must let clean text through")
}

// =============================================================================
// Tool Listing
// =============================================================================

func TestListToolNames_FromRegistry(t *testing.T) {
	r, _ := createTestRouter(t, nil, nil)

	names := r.ListToolNames(context.Background())

	assert.Contains(t, names, "list_organizations")
	assert.Contains(t, names, "get_security_summary")
	assert.Contains(t, names, "health")
}
