// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package router classifies dashboard queries and dispatches them to either
// the tool registry or the completion provider, producing a lazy chunk
// stream either way.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/AleutianAI/secureguard/services/dashboard/conversation"
	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
	"github.com/AleutianAI/secureguard/services/dashboard/suggest"
	"github.com/AleutianAI/secureguard/services/llm"
	"github.com/AleutianAI/secureguard/services/policy_engine"
	"github.com/AleutianAI/secureguard/services/tools"
)

// toolPrefix marks a query as a direct tool invocation. The check is
// case-insensitive after trimming leading whitespace.
const toolPrefix = "tool:"

// =============================================================================
// Interface Definition
// =============================================================================

// Router is the query dispatch contract consumed by the HTTP handlers.
//
// # Description
//
// Process classifies a query as a direct tool invocation (`tool:` prefix)
// or a conversational turn, executes the chosen route, and returns the
// result as a lazy chunk sequence. All route work (parsing, tool
// invocation, the provider call) happens when the consumer pulls the first
// chunk, not when Process returns, so an abandoned sequence does no work.
//
// The caller's entry point appends the user turn to the conversation store
// before invoking Process; the router never appends user turns itself.
//
// # Assumptions
//
//   - The caller serializes requests per session id. The router performs
//     one store read and at most one store write per call and relies on the
//     caller to keep concurrent requests for the same session apart.
type Router interface {
	// Process routes one query. Every returned sequence is finite and ends
	// with exactly one Done=true chunk; failures surface as a single
	// terminal error chunk, never as a panic or a Go error.
	Process(ctx context.Context, sessionID string, query string) iter.Seq[datatypes.StreamChunk]

	// ListToolNames returns the registered tool names, falling back to the
	// static known-tools list when the registry is unreachable.
	ListToolNames(ctx context.Context) []string
}

// =============================================================================
// Query Router
// =============================================================================

// QueryRouter is the production Router implementation.
type QueryRouter struct {
	store     conversation.Store
	registry  tools.Registry
	provider  llm.CompletionClient // nil runs the degraded, suggestions-only mode
	policy    *policy_engine.PolicyEngine
	suggester *suggest.Engine
	params    llm.GenerationParams
	logger    *slog.Logger
}

// defaultParams mirrors the sampling configuration the dashboard was tuned
// against.
func defaultParams() llm.GenerationParams {
	temp := float32(0.7)
	maxTokens := 1024
	return llm.GenerationParams{Temperature: &temp, MaxTokens: &maxTokens}
}

// New creates a QueryRouter.
//
// # Inputs
//
//   - store: The conversation store. Required.
//   - registry: The tool registry. Required.
//   - provider: The completion provider. May be nil; the conversational
//     route then answers with an error chunk plus tool suggestions.
//   - policy: The outbound data policy engine. May be nil to disable
//     scanning (tests only; production wiring always passes one).
func New(
	store conversation.Store,
	registry tools.Registry,
	provider llm.CompletionClient,
	policy *policy_engine.PolicyEngine,
) *QueryRouter {
	return &QueryRouter{
		store:     store,
		registry:  registry,
		provider:  provider,
		policy:    policy,
		suggester: suggest.NewEngine(),
		params:    defaultParams(),
		logger:    slog.Default(),
	}
}

// Process implements Router.
func (r *QueryRouter) Process(ctx context.Context, sessionID string, query string) iter.Seq[datatypes.StreamChunk] {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return errorStream("Empty query")
	}
	if strings.HasPrefix(strings.ToLower(trimmed), toolPrefix) {
		return r.toolRoute(ctx, trimmed)
	}
	return r.conversationRoute(ctx, sessionID, trimmed)
}

// ListToolNames implements Router.
func (r *QueryRouter) ListToolNames(ctx context.Context) []string {
	infos, err := r.registry.List(ctx)
	if err != nil {
		r.logger.Warn("Tool registry unreachable, using the known-tools fallback", "error", err)
		return tools.KnownToolNames()
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// -----------------------------------------------------------------------------
// Tool route
// -----------------------------------------------------------------------------

// toolRoute parses and executes a direct tool invocation.
//
// The remainder after the prefix splits on whitespace: the first token is
// the tool name, every later token of the form key=value becomes an
// argument (first '=' separates, value may be empty). Tokens without '='
// are silently ignored. All failures collapse into one terminal error
// chunk; no assistant turn is ever appended on this route.
func (r *QueryRouter) toolRoute(ctx context.Context, trimmed string) iter.Seq[datatypes.StreamChunk] {
	return func(yield func(datatypes.StreamChunk) bool) {
		fields := strings.Fields(trimmed[len(toolPrefix):])
		if len(fields) == 0 {
			yield(datatypes.ErrorChunk("Error executing tool: no tool name given"))
			return
		}
		name := fields[0]
		args := make(map[string]string)
		for _, token := range fields[1:] {
			key, value, found := strings.Cut(token, "=")
			if !found {
				continue
			}
			args[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}

		r.logger.Debug("Routing query to tool", "tool", name, "args", len(args))

		result, err := r.registry.Invoke(ctx, name, args)
		if err != nil {
			r.logger.Warn("Tool invocation failed", "tool", name, "error", err)
			yield(datatypes.ErrorChunk(fmt.Sprintf("Error executing tool: %s", err)))
			return
		}

		text, err := renderResult(result)
		if err != nil {
			r.logger.Error("Failed to serialize the tool result", "tool", name, "error", err)
			yield(datatypes.ErrorChunk(fmt.Sprintf("Error executing tool: %s", err)))
			return
		}
		emit(yield, Chunks(text, datatypes.ChunkKindTool))
	}
}

// renderResult serializes a tool result: strings pass through unchanged,
// structured values are pretty-printed JSON.
func renderResult(result any) (string, error) {
	if s, ok := result.(string); ok {
		return s, nil
	}
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// -----------------------------------------------------------------------------
// Conversation route
// -----------------------------------------------------------------------------

// conversationRoute sends the session history to the completion provider.
//
// The outbound query is scanned against the data policy first; a finding
// blocks the call. Provider failures leave the conversation state for this
// turn unmodified and surface as an error chunk carrying rule-based tool
// suggestions.
func (r *QueryRouter) conversationRoute(ctx context.Context, sessionID string, trimmed string) iter.Seq[datatypes.StreamChunk] {
	return func(yield func(datatypes.StreamChunk) bool) {
		if r.provider == nil {
			r.logger.Warn("Conversational query with no completion provider configured")
			yield(datatypes.ErrorChunk(r.withSuggestions("GROQ_API_KEY not set or LLM unavailable.", trimmed)))
			return
		}

		if r.policy != nil {
			// ClassifyData is the cheap full-text gate; the per-line scan
			// only runs to explain a hit.
			if class := r.policy.ClassifyData([]byte(trimmed)); class != "public" {
				first := policy_engine.ScanFinding{ClassificationName: class}
				findings := r.policy.ScanQuery(trimmed)
				if len(findings) > 0 {
					first = findings[0]
				}
				r.logger.Warn("Outbound query blocked by data policy",
					"classification", first.ClassificationName,
					"pattern", first.PatternId,
					"findings", len(findings))
				yield(datatypes.ErrorChunk(fmt.Sprintf(
					"Query blocked: it appears to contain %s data (%s). Remove the sensitive content and try again.",
					first.ClassificationName, first.PatternId)))
				return
			}
		}

		messages := r.buildMessages(ctx, sessionID)

		text, err := r.provider.Complete(ctx, messages, r.params)
		if err != nil {
			r.logger.Error("LLM query failed", "session_id", sessionID, "error", err)
			yield(datatypes.ErrorChunk(r.withSuggestions(fmt.Sprintf("LLM Error: %s", err), trimmed)))
			return
		}

		r.store.Append(sessionID, datatypes.RoleAssistant, text)
		emit(yield, Chunks(text, datatypes.ChunkKindLLM))
	}
}

// buildMessages assembles the provider request: the fixed system preamble
// enumerating the registered tools, then the session history oldest first.
// The current user turn is already the last history element.
func (r *QueryRouter) buildMessages(ctx context.Context, sessionID string) []datatypes.Message {
	infos, err := r.registry.List(ctx)
	if err != nil {
		r.logger.Warn("Tool registry unreachable while building the preamble", "error", err)
		infos = tools.KnownTools()
	}

	history := r.store.Read(sessionID)
	messages := make([]datatypes.Message, 0, len(history)+1)
	messages = append(messages, datatypes.Message{
		Role:    string(datatypes.RoleSystem),
		Content: buildPreamble(infos),
	})
	for _, turn := range history {
		messages = append(messages, turn.ToMessage())
	}
	return messages
}

// withSuggestions appends the rule-based tool suggestions for the query to
// an error message, when any match.
func (r *QueryRouter) withSuggestions(msg string, query string) string {
	return msg + suggest.FormatHint(r.suggester.Suggest(query))
}

// emit forwards a chunk sequence to yield, honoring early termination.
func emit(yield func(datatypes.StreamChunk) bool, seq iter.Seq[datatypes.StreamChunk]) {
	for chunk := range seq {
		if !yield(chunk) {
			return
		}
	}
}

// Compile-time interface check.
var _ Router = (*QueryRouter)(nil)
