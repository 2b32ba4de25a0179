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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:   "secureguard",
		Short: "A CLI for the SecureGuard monitoring dashboard",
		Long: `secureguard talks to a running SecureGuard dashboard service:
stream queries, list tools, check status, and clear conversation history.
It can also scan local files against the embedded data policy before they
are pasted into a conversation.`,
	}

	queryCmd = &cobra.Command{
		Use:   "query [text]",
		Short: "Send a query to the dashboard and stream the response",
		Long: `Sends one query to the dashboard. Prefix with 'tool:' for a direct
tool invocation (e.g. 'tool: list_cases status=active'); anything else goes
to the conversational route.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runQueryCommand,
	}

	toolsCmd = &cobra.Command{
		Use:   "tools",
		Short: "List the tools the dashboard exposes",
		Run:   runToolsCommand,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the dashboard's status report",
		Run:   runStatusCommand,
	}

	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Clear the current session's conversation history",
		Run:   runClearCommand,
	}

	scanCmd = &cobra.Command{
		Use:   "scan [file ...]",
		Short: "Scan local files against the embedded data policy",
		Long: `Runs the same classification rules the dashboard applies to outbound
queries. Exits non-zero when any finding is reported.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runScanCommand,
	}
)

func init() {
	viper.SetEnvPrefix("SECUREGUARD")
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("server", "http://localhost:5000",
		"Base URL of the dashboard service")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))

	queryCmd.Flags().String("session", "", "Reuse a session cookie value instead of starting fresh")
	clearCmd.Flags().String("session", "", "Session id whose conversation history should be cleared")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(scanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
