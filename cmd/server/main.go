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

// WebSnap MCP Server
//
// Exposes the website_snapshot tool to MCP clients over stdio (default) or
// streamable HTTP.
//
// Usage:
//
//	websnap-server [flags]
//
// Flags:
//
//	-http string      Serve MCP over streamable HTTP on this address instead of stdio
//	-config string    Path to a YAML config file
//	-version          Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentberlin/websnap"
	mcpserver "github.com/agentberlin/websnap/internal/mcp"
	"github.com/agentberlin/websnap/internal/version"
)

func main() {
	// Parse command-line flags
	httpAddr := flag.String("http", "", "Serve MCP over streamable HTTP on this address instead of stdio")
	configPath := flag.String("config", "", "Path to a YAML config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("WebSnap Server %s\n", version.CurrentVersion)
		os.Exit(0)
	}

	// Build the snapshot configuration: defaults, optional file, env overrides
	cfg := websnap.NewDefaultConfig()
	if *configPath != "" {
		loaded, err := websnap.LoadConfigFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Compile(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	srv := mcpserver.NewMCPServer(cfg)
	defer srv.Close()

	// Stdio transport: serve until the client disconnects or we get a signal
	if *httpAddr == "" {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("MCP server error: %v", err)
		}
		return
	}

	// HTTP transport with graceful shutdown
	httpServer, err := srv.RunHTTP(*httpAddr)
	if err != nil {
		log.Fatalf("Failed to start MCP HTTP server: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
