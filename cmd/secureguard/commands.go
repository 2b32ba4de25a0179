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
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AleutianAI/secureguard/services/dashboard/datatypes"
	"github.com/AleutianAI/secureguard/services/dashboard/middleware"
	"github.com/AleutianAI/secureguard/services/policy_engine"
)

// doneSentinel matches the dashboard's SSE terminator frame.
const doneSentinel = "[DONE]"

func serverURL() string {
	return strings.TrimRight(viper.GetString("server"), "/")
}

func httpClient() *http.Client {
	// Streaming responses run long; only the dial should time out, which
	// the default transport handles. No overall client timeout.
	return &http.Client{}
}

func runQueryCommand(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		log.Fatalf("Failed to encode the query: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, serverURL()+"/api/query", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to build the request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if session, _ := cmd.Flags().GetString("session"); session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session})
	}

	resp, err := httpClient().Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		log.Fatalf("Server returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	hadError := streamToStdout(resp.Body)
	if hadError {
		os.Exit(1)
	}
}

// streamToStdout renders SSE frames until [DONE]. Returns true when the
// stream carried an error chunk.
func streamToStdout(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	hadError := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			// Comments (keepalives) and blank frame separators.
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == doneSentinel {
			break
		}

		var event datatypes.StreamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Printf("Skipping an unparseable frame: %v", err)
			continue
		}
		if event.Type == datatypes.ChunkKindError {
			hadError = true
			fmt.Fprintln(os.Stderr, event.Response)
			continue
		}
		fmt.Print(event.Response)
	}
	fmt.Println()

	if err := scanner.Err(); err != nil {
		log.Printf("Stream ended early: %v", err)
	}
	return hadError
}

func runToolsCommand(_ *cobra.Command, _ []string) {
	var payload struct {
		Tools []string `json:"tools"`
	}
	fetchJSON("/api/tools", &payload)

	for _, name := range payload.Tools {
		fmt.Println(name)
	}
}

func runStatusCommand(_ *cobra.Command, _ []string) {
	var payload map[string]any
	fetchJSON("/api/status", &payload)

	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render the status report: %v", err)
	}
	fmt.Println(string(pretty))
}

func runClearCommand(cmd *cobra.Command, _ []string) {
	session, _ := cmd.Flags().GetString("session")
	if session == "" {
		// Without the cookie the server resolves a fresh session and the
		// clear lands on empty history.
		log.Fatal("--session is required: pass the session id whose history should be cleared")
	}

	if err := clearSession(serverURL(), session); err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println("Conversation history cleared.")
}

// clearSession posts the clear request under the given session cookie.
func clearSession(server, session string) error {
	req, err := http.NewRequest(http.MethodPost, server+"/api/clear", nil)
	if err != nil {
		return fmt.Errorf("failed to build the request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session})

	resp, err := httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func runScanCommand(_ *cobra.Command, args []string) {
	engine, err := policy_engine.NewPolicyEngine()
	if err != nil {
		log.Fatalf("FATAL: Could not initialize the policy engine: %v", err)
	}

	totalFindings := 0
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Could not read file %s: %v", path, err)
			continue
		}

		findings := engine.ScanQuery(string(content))
		if len(findings) == 0 {
			fmt.Printf("%s: clean\n", path)
			continue
		}

		totalFindings += len(findings)
		fmt.Printf("%s: %d finding(s)\n", path, len(findings))
		for _, f := range findings {
			fmt.Printf("  [L%d] %s confidence | %s | %s\n",
				f.LineNumber, f.Confidence, f.ClassificationName, f.PatternId)
		}
	}

	if totalFindings > 0 {
		os.Exit(1)
	}
}

func fetchJSON(path string, out any) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(serverURL() + path)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		log.Fatalf("Server returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("Failed to decode the response: %v", err)
	}
}
