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

// Test fixture server for manual snapshot runs: serves a page with
// interactive elements, console output, a JSON fetch and an oversized
// response, exercising every branch of the capture pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head>
    <title>WebSnap Fixture</title>
</head>
<body>
    <h1>Snapshot Fixture</h1>
    <nav>
        <a href="/docs">Docs</a>
        <a href="/about">About</a>
    </nav>
    <form>
        <input type="text" name="q" aria-label="Search" placeholder="Search">
        <button type="submit">Go</button>
    </form>
    <script>
        console.log("fixture loaded");
        console.info("fetching items");
        console.warn("this is a warning");
        console.error("this is an error");
        fetch("/api/items").then(r => r.json());
        fetch("/api/echo", {
            method: "POST",
            headers: {"Content-Type": "application/json"},
            body: JSON.stringify({hello: "websnap"})
        });
        fetch("/big");
        fetch("/old-items");
    </script>
</body>
</html>`

func main() {
	port := flag.Int("port", 8099, "Port to run the fixture server on")
	flag.Parse()

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, fixturePage)
	})

	mux.HandleFunc("/api/items", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":["alpha","beta","gamma"]}`)
	})

	mux.HandleFunc("/api/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true}`)
	})

	// Redirect hop, so a snapshot sees a chain sharing one request id
	mux.Handle("/old-items", http.RedirectHandler("/api/items", http.StatusMovedPermanently))

	// Bigger than the body-capture ceiling, to exercise the placeholder path
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		body := strings.Repeat("x", 60000)
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Length", fmt.Sprint(len(body)))
		fmt.Fprint(w, body)
	})

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Starting WebSnap fixture server on http://%s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
