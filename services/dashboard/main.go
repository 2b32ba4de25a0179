// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/AleutianAI/secureguard/services/dashboard/conversation"
	"github.com/AleutianAI/secureguard/services/dashboard/observability"
	"github.com/AleutianAI/secureguard/services/dashboard/router"
	"github.com/AleutianAI/secureguard/services/dashboard/routes"
	"github.com/AleutianAI/secureguard/services/dashboard/ttl"
	"github.com/AleutianAI/secureguard/services/llm"
	"github.com/AleutianAI/secureguard/services/policy_engine"
	"github.com/AleutianAI/secureguard/services/tools"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "secureguard-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("dashboard-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// buildProvider selects the completion backend from LLM_BACKEND_TYPE.
// A missing key degrades to suggestions-only mode instead of aborting
// startup; the tool route works without any provider.
func buildProvider() llm.CompletionClient {
	backendType := os.Getenv("LLM_BACKEND_TYPE")

	switch backendType {
	case "openai":
		client, err := llm.NewOpenAIClient()
		if err != nil {
			slog.Warn("OpenAI backend unavailable, running without LLM", "error", err)
			return nil
		}
		slog.Info("Using OpenAI LLM backend")
		return client
	case "none":
		slog.Info("LLM backend disabled, running in suggestions-only mode")
		return nil
	case "groq", "":
		client, err := llm.NewGroqClient()
		if err != nil {
			slog.Warn("Groq backend unavailable, running without LLM", "error", err)
			return nil
		}
		slog.Info("Using Groq LLM backend")
		return client
	default:
		slog.Warn("LLM_BACKEND_TYPE not recognized, running without LLM", "type", backendType)
		return nil
	}
}

func main() {
	port := os.Getenv("DASHBOARD_PORT")
	if port == "" {
		port = "5000"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	policyEngine, err := policy_engine.NewPolicyEngine()
	if err != nil {
		log.Fatalf("FATAL: Could not initialize the Policy Engine %v", err)
	}

	log.Println("Configuring the LLM Client")
	provider := buildProvider()

	store := conversation.NewMemoryStore(0)
	registry := tools.NewBuiltin(nil)
	queryRouter := router.New(store, registry, provider, policyEngine)
	metrics := observability.NewMetrics(nil)

	sweeper := ttl.NewSweeper(store, 0, 0, nil)
	sweeper.Start()
	defer sweeper.Stop()

	engine := gin.Default()
	engine.Use(otelgin.Middleware("dashboard-service"))

	routes.SetupRoutes(engine, queryRouter, registry, store, sweeper, metrics, provider != nil)

	log.Println("Starting the dashboard server on port ", port)
	if err := engine.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
