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
	"fmt"
	"strings"

	"github.com/AleutianAI/secureguard/services/tools"
)

// buildPreamble renders the fixed system message sent before the session
// history on every conversational turn. It enumerates the registered tools
// so the model can point users at the direct invocation syntax.
func buildPreamble(infos []tools.Info) string {
	var sb strings.Builder
	for _, info := range infos {
		desc := info.Description
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintf(&sb, "- %s: %s\n", info.Name, desc)
	}
	toolContext := strings.TrimRight(sb.String(), "\n")

	return fmt.Sprintf(`You are a helpful SecureGuard security monitoring assistant.

Available tools:
%s

You can help users understand their security posture, analyze cases, and manage organizations.
For direct tool access, users can type 'tool: <tool_name> [parameters]'.`, toolContext)
}
