// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentberlin/websnap"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// invalidURLMessage is the user-facing text returned for malformed targets.
const invalidURLMessage = "Url must be valid, example: https://example.com"

// registerTools registers all MCP tools with the server
func (s *MCPServer) registerTools() {
	s.logger.Printf("Registering MCP tools...")

	s.registerWebsiteSnapshotTool()

	s.logger.Printf("All MCP tools registered successfully")
}

// WebsiteSnapshotArgs defines the input schema for website_snapshot tool
type WebsiteSnapshotArgs struct {
	URL            string `json:"url"`
	IncludeNetwork *bool  `json:"include_network,omitempty"`
	IncludeConsole *bool  `json:"include_console,omitempty"`
}

// WebsiteSnapshotResult defines the structured output for website_snapshot tool
type WebsiteSnapshotResult struct {
	Success         bool   `json:"success"`
	Elements        int    `json:"elements,omitempty"`
	Requests        int    `json:"requests,omitempty"`
	ConsoleMessages int    `json:"consoleMessages,omitempty"`
	Message         string `json:"message"`
}

// registerWebsiteSnapshotTool registers the website_snapshot tool
func (s *MCPServer) registerWebsiteSnapshotTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "website_snapshot",
		Description: "Takes a structured snapshot of a live web page: accessibility tree annotated with element references, captured network requests and console messages",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args WebsiteSnapshotArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Printf("Tool called: website_snapshot for URL: %s", args.URL)

		// Both capture channels default to enabled
		includeNetwork := args.IncludeNetwork == nil || *args.IncludeNetwork
		includeConsole := args.IncludeConsole == nil || *args.IncludeConsole

		result, err := s.snap.Snapshot(ctx, args.URL, includeNetwork, includeConsole)
		if err != nil {
			if errors.Is(err, websnap.ErrInvalidURL) {
				return textResult(invalidURLMessage), WebsiteSnapshotResult{
					Success: false,
					Message: "invalid url",
				}, nil
			}
			return textResult(fmt.Sprintf("❌ Failed: %v", err)), WebsiteSnapshotResult{
				Success: false,
				Message: fmt.Sprintf("snapshot failed: %v", err),
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Summary},
				&mcp.TextContent{Text: result.Body},
				&mcp.TextContent{Text: result.RefIndex},
			},
		}, WebsiteSnapshotResult{
			Success:         true,
			Elements:        result.ElementCount,
			Requests:        result.RequestCount,
			ConsoleMessages: result.ConsoleCount,
			Message:         "Snapshot captured successfully",
		}, nil
	})
}

// textResult wraps a single text segment in a tool result
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
