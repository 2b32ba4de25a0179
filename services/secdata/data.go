// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package secdata holds the demo security-monitoring dataset and the
// deterministic query functions exposed through the tool registry.
//
// The dataset is fixed in-memory demo data. In production this package would
// be replaced by real database or API-backed sources; every query here is a
// linear filter over a handful of records.
package secdata

// Organization describes one monitored organization.
type Organization struct {
	Name      string `json:"name,omitempty"`
	Type      string `json:"type"`
	Employees int    `json:"employees"`
	RiskLevel string `json:"risk_level"`
}

// Case describes one tracked security case.
type Case struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Status    string `json:"status"`
	Org       string `json:"org"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Signal describes one raw security signal (IDS alert, malware hit, ...).
type Signal struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
	Org          string `json:"org"`
	SourceIP     string `json:"source_ip,omitempty"`
	AffectedHost string `json:"affected_host,omitempty"`
	Sender       string `json:"sender,omitempty"`
}

// Dataset bundles the three demo tables. All query methods treat the tables
// as read-only; Dataset values are safe for concurrent use.
type Dataset struct {
	Organizations map[string]Organization
	Cases         []Case
	Signals       []Signal
}

// Default returns the canned demo dataset.
func Default() *Dataset {
	return &Dataset{
		Organizations: map[string]Organization{
			"OrgA": {Type: "technology", Employees: 1500, RiskLevel: "medium"},
			"OrgB": {Type: "finance", Employees: 800, RiskLevel: "high"},
			"OrgC": {Type: "healthcare", Employees: 2200, RiskLevel: "low"},
			"OrgD": {Type: "technology", Employees: 3500, RiskLevel: "medium"},
			"OrgE": {Type: "retail", Employees: 1200, RiskLevel: "low"},
		},
		Cases: []Case{
			{
				ID: "CASE001", Type: "intrusion", Severity: "high", Status: "active",
				Org: "OrgB", CreatedAt: "2024-01-10T14:30:00Z", UpdatedAt: "2024-01-15T09:00:00Z",
			},
			{
				ID: "CASE002", Type: "phishing", Severity: "medium", Status: "investigating",
				Org: "OrgA", CreatedAt: "2024-01-12T11:15:00Z", UpdatedAt: "2024-01-14T16:45:00Z",
			},
			{
				ID: "CASE003", Type: "malware", Severity: "low", Status: "resolved",
				Org: "OrgC", CreatedAt: "2024-01-08T08:20:00Z", UpdatedAt: "2024-01-13T14:30:00Z",
			},
			{
				ID: "CASE004", Type: "data_breach", Severity: "critical", Status: "active",
				Org: "OrgB", CreatedAt: "2024-01-14T22:15:00Z", UpdatedAt: "2024-01-15T10:30:00Z",
			},
			{
				ID: "CASE005", Type: "ddos", Severity: "medium", Status: "mitigating",
				Org: "OrgD", CreatedAt: "2024-01-13T19:45:00Z", UpdatedAt: "2024-01-15T08:00:00Z",
			},
		},
		Signals: []Signal{
			{
				ID: "SIG001", Timestamp: "2024-01-15T10:30:00Z", Type: "IDS_ALERT",
				Severity: "high", Message: "SQL Injection attempt detected on web server",
				Org: "OrgB", SourceIP: "192.168.1.50",
			},
			{
				ID: "SIG002", Timestamp: "2024-01-15T11:15:00Z", Type: "MALWARE",
				Severity: "medium", Message: "Malware hash 0x4f3a2b detected on endpoint",
				Org: "OrgA", AffectedHost: "workstation-42",
			},
			{
				ID: "SIG003", Timestamp: "2024-01-15T12:00:00Z", Type: "NETWORK",
				Severity: "medium", Message: "Unusual traffic pattern detected",
				Org: "OrgD", SourceIP: "10.0.1.100",
			},
			{
				ID: "SIG004", Timestamp: "2024-01-15T12:30:00Z", Type: "EMAIL",
				Severity: "low", Message: "Phishing email blocked by security filter",
				Org: "OrgC", Sender: "suspicious@external-domain.com",
			},
		},
	}
}
