// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tools provides the name-keyed catalog of deterministic query
// functions the dashboard can invoke directly.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/AleutianAI/secureguard/services/secdata"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Info describes one registered tool for listings and the LLM preamble.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry defines the contract for the tool catalog.
//
// # Description
//
// Registry abstracts tool lookup and invocation so the query router does not
// depend on where tools live (in-process demo data today, a remote tool
// server in production). Tool arguments are untyped string key-value pairs;
// any coercion is the tool's own concern.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use; the router invokes tools
// from per-request goroutines.
type Registry interface {
	// Invoke runs the named tool with the given arguments and returns its
	// structured result. Unknown tools and tool-level failures return a
	// non-nil error; the router treats any failure uniformly.
	Invoke(ctx context.Context, name string, args map[string]string) (any, error)

	// List returns the registered tools in registration order.
	List(ctx context.Context) ([]Info, error)
}

// =============================================================================
// Builtin Registry
// =============================================================================

// tool binds a name and description to its implementation.
type tool struct {
	info Info
	run  func(ctx context.Context, d *secdata.Dataset, args map[string]string) (any, error)
}

// Builtin is the in-process Registry over the demo security dataset.
//
// All tools are side-effect-free linear filters; Builtin is safe for
// concurrent use because the dataset is read-only after construction.
type Builtin struct {
	dataset *secdata.Dataset
	ordered []tool
	byName  map[string]tool
}

// NewBuiltin creates the builtin registry over the given dataset.
// A nil dataset uses the canned demo data.
func NewBuiltin(dataset *secdata.Dataset) *Builtin {
	if dataset == nil {
		dataset = secdata.Default()
	}
	b := &Builtin{
		dataset: dataset,
		byName:  make(map[string]tool),
	}
	for _, t := range builtinTools() {
		b.ordered = append(b.ordered, t)
		b.byName[t.info.Name] = t
	}
	return b
}

// Invoke implements Registry.
func (b *Builtin) Invoke(ctx context.Context, name string, args map[string]string) (any, error) {
	t, ok := b.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.run(ctx, b.dataset, args)
}

// List implements Registry.
func (b *Builtin) List(_ context.Context) ([]Info, error) {
	infos := make([]Info, len(b.ordered))
	for i, t := range b.ordered {
		infos[i] = t.info
	}
	return infos, nil
}

// argOr returns args[key], or def when the key is absent or empty.
func argOr(args map[string]string, key, def string) string {
	if v := args[key]; v != "" {
		return v
	}
	return def
}

// requireArg returns args[key] or an error naming the missing parameter.
func requireArg(args map[string]string, key string) (string, error) {
	v := args[key]
	if v == "" {
		return "", fmt.Errorf("missing required parameter %q", key)
	}
	return v, nil
}

// builtinTools returns the tool table in its fixed registration order.
// The order is load-bearing for listings and the LLM preamble.
func builtinTools() []tool {
	return []tool{
		{
			info: Info{
				Name:        "list_organizations",
				Description: "List all organizations monitored by SecureGuard",
			},
			run: func(_ context.Context, d *secdata.Dataset, _ map[string]string) (any, error) {
				return d.OrganizationNames(), nil
			},
		},
		{
			info: Info{
				Name:        "get_organization_details",
				Description: "Get detailed info about a specific organization",
			},
			run: func(_ context.Context, d *secdata.Dataset, args map[string]string) (any, error) {
				orgName, err := requireArg(args, "org_name")
				if err != nil {
					return nil, err
				}
				return d.OrganizationDetails(orgName)
			},
		},
		{
			info: Info{
				Name:        "filter_organizations_by_type",
				Description: "Filter organizations by type",
			},
			run: func(_ context.Context, d *secdata.Dataset, args map[string]string) (any, error) {
				orgType, err := requireArg(args, "org_type")
				if err != nil {
					return nil, err
				}
				return d.FilterOrganizationsByType(orgType), nil
			},
		},
		{
			info: Info{
				Name:        "list_cases",
				Description: "List security cases. Optional parameter: status (e.g., 'active', 'resolved')",
			},
			run: func(_ context.Context, d *secdata.Dataset, args map[string]string) (any, error) {
				return d.FilterCases(argOr(args, "status", "all")), nil
			},
		},
		{
			info: Info{
				Name:        "get_case_details",
				Description: "Get details for a case. Required parameter: case_id (e.g., 'CASE001')",
			},
			run: func(_ context.Context, d *secdata.Dataset, args map[string]string) (any, error) {
				caseID, err := requireArg(args, "case_id")
				if err != nil {
					return nil, err
				}
				return d.GetCaseDetails(caseID)
			},
		},
		{
			info: Info{
				Name:        "list_signals",
				Description: "List security signals. Optional parameters: org_name (e.g., 'OrgA'), signal_type (e.g., 'MALWARE')",
			},
			run: func(_ context.Context, d *secdata.Dataset, args map[string]string) (any, error) {
				return d.FilterSignals(argOr(args, "org_name", "all"), argOr(args, "signal_type", "all")), nil
			},
		},
		{
			info: Info{
				Name:        "get_security_summary",
				Description: "Get a comprehensive security summary with key metrics",
			},
			run: func(_ context.Context, d *secdata.Dataset, _ map[string]string) (any, error) {
				return d.SecuritySummary(time.Now()), nil
			},
		},
		{
			info: Info{
				Name:        "health",
				Description: "Check the health status of the tool registry",
			},
			run: func(_ context.Context, d *secdata.Dataset, _ map[string]string) (any, error) {
				return d.HealthReport(time.Now()), nil
			},
		},
	}
}

// KnownToolNames is the static fallback list used when a registry is not
// reachable. It must track the builtin registration order.
func KnownToolNames() []string {
	ts := builtinTools()
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.info.Name
	}
	return names
}

// KnownTools returns the static fallback Info list in registration order.
func KnownTools() []Info {
	ts := builtinTools()
	infos := make([]Info, len(ts))
	for i, t := range ts {
		infos[i] = t.info
	}
	return infos
}

// Compile-time interface check.
var _ Registry = (*Builtin)(nil)
