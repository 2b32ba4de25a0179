// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
)

// groqBaseURL is Groq's OpenAI-compatible endpoint.
const groqBaseURL = "https://api.groq.com/openai/v1"

// defaultGroqModel matches the model the dashboard was tuned against.
const defaultGroqModel = "openai/gpt-oss-120b"

type GroqClient struct {
	client *openai.Client
	model  string
}

// NewGroqClient builds a Groq-backed CompletionClient.
//
// The API key comes from GROQ_API_KEY, falling back to the container secret
// at /run/secrets/groq_api_key. Returns an error when neither is set; the
// caller decides whether to run degraded (suggestions only) or abort.
func NewGroqClient() (*GroqClient, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	model := os.Getenv("GROQ_MODEL")
	if apiKey == "" {
		secretPath := "/run/secrets/groq_api_key"
		apiKeyBytes, err := os.ReadFile(secretPath)
		if err == nil {
			apiKey = strings.TrimSpace(string(apiKeyBytes))
			slog.Info("Read the Groq API Key from container secrets")
		} else {
			slog.Error("GROQ_API_KEY environment variable not set and secret not found", "path", secretPath)
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	}
	if model == "" {
		model = defaultGroqModel
		slog.Warn("GROQ_MODEL not set, defaulting", "model", model)
	}
	slog.Info("Initializing Groq client", "model", model)

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = groqBaseURL
	return &GroqClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Complete implements the CompletionClient interface.
func (g *GroqClient) Complete(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error) {
	slog.Debug("Requesting completion via Groq", "model", g.model, "messages", len(messages))

	req := openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: toOpenAIMessages(messages),
	}
	applyParams(&req, params)

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("Groq API call failed", "error", err)
		return "", fmt.Errorf("Groq API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("Groq returned no choices")
		return "", fmt.Errorf("Groq returned no choices")
	}
	slog.Debug("Received response from Groq", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}

// toOpenAIMessages converts dashboard messages to the wire format shared by
// the OpenAI-compatible backends.
func toOpenAIMessages(messages []datatypes.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// applyParams copies set sampling parameters onto the request.
func applyParams(req *openai.ChatCompletionRequest, params GenerationParams) {
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if params.MaxTokens != nil {
		req.MaxTokens = *params.MaxTokens
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}
}

var _ CompletionClient = (*GroqClient)(nil)
