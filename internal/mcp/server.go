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
	"log"
	"net/http"
	"os"

	"github.com/agentberlin/websnap"
	"github.com/agentberlin/websnap/internal/version"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const ServerName = "websnap"

// MCPServer wraps the snapshot pipeline and exposes it via MCP protocol
type MCPServer struct {
	server *mcp.Server
	snap   *websnap.Snapshotter
	logger *log.Logger
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(cfg *websnap.Config) *MCPServer {
	logger := log.New(os.Stderr, "[WebSnap MCP] ", log.LstdFlags)

	// Create MCP server
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.CurrentVersion,
	}, nil)

	s := &MCPServer{
		server: mcpServer,
		snap:   websnap.NewSnapshotter(cfg),
		logger: logger,
	}

	// Register all tools
	s.registerTools()

	logger.Printf("MCP server initialized successfully")
	return s
}

// GetServer returns the internal MCP server instance
func (s *MCPServer) GetServer() *mcp.Server {
	return s.server
}

// Run serves the MCP protocol over stdio until the context is cancelled
func (s *MCPServer) Run(ctx context.Context) error {
	s.logger.Printf("Starting MCP server on stdio...")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server with HTTP transport using StreamableHTTPHandler
func (s *MCPServer) RunHTTP(addr string) (*http.Server, error) {
	s.logger.Printf("Starting MCP HTTP server on %s...", addr)

	// Create StreamableHTTPHandler
	handler := mcp.NewStreamableHTTPHandler(
		func(req *http.Request) *mcp.Server {
			return s.server
		},
		nil, // Use default StreamableHTTPOptions
	)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Start server in goroutine
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("HTTP server error: %v", err)
		}
	}()

	s.logger.Printf("MCP HTTP server started successfully on %s", addr)
	return httpServer, nil
}

// Close performs cleanup
func (s *MCPServer) Close() error {
	s.logger.Printf("Shutting down MCP server...")
	websnap.CloseGlobalRenderer()
	return nil
}
