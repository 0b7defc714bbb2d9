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

// Package websnap captures structured snapshots of live web pages for
// LLM-driven clients: an accessibility tree annotated with stable element
// references, the network traffic observed during the load, and the page's
// console output, normalized into a deterministic three-segment text
// artifact.
package websnap

import (
	"context"
	"errors"
	"log"
	"os"
)

// ErrInvalidURL is returned when the snapshot target is not an absolute
// http/https URL. No browser resources are acquired in this case.
var ErrInvalidURL = errors.New("url must be valid")

// pageCapturer abstracts the browser backend so the pipeline can be
// exercised without a running Chrome.
type pageCapturer interface {
	CapturePage(ctx context.Context, target string, cfg *Config, includeNetwork, includeConsole bool) (*PageCapture, error)
}

// Snapshotter runs the snapshot pipeline: validate, capture, annotate,
// format. Every call owns its own recorders and browser tab; a Snapshotter
// is safe for concurrent use.
type Snapshotter struct {
	cfg      *Config
	logger   *log.Logger
	capturer pageCapturer
}

// NewSnapshotter creates a Snapshotter using the shared browser allocator.
// A nil config means defaults.
func NewSnapshotter(cfg *Config) *Snapshotter {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &Snapshotter{
		cfg:      cfg,
		logger:   log.New(os.Stderr, "[websnap] ", log.LstdFlags),
		capturer: getRenderer(),
	}
}

// Snapshot captures one page and returns the formatted three-segment result.
// Invalid targets fail with ErrInvalidURL before any browser work. A page
// that does not finish loading within the configured timeout still produces
// a snapshot from the data collected so far; navigation and browser-launch
// failures are returned as errors.
func (s *Snapshotter) Snapshot(ctx context.Context, target string, includeNetwork, includeConsole bool) (*SnapshotResult, error) {
	if !IsValidURL(target) {
		return nil, ErrInvalidURL
	}

	s.logger.Printf("Capturing snapshot for %s", target)
	capture, err := s.capturer.CapturePage(ctx, target, s.cfg, includeNetwork, includeConsole)
	if err != nil {
		return nil, err
	}
	if capture.TimedOut {
		s.logger.Printf("Page load timed out for %s, returning partial snapshot", target)
	}

	annotated, refs := AnnotateTree(capture.Tree, s.cfg.InteractiveKeywords)
	result := FormatSnapshot(&SnapshotData{
		Title:          capture.Title,
		URL:            capture.URL,
		Tree:           annotated,
		Refs:           refs,
		Requests:       capture.Requests,
		Console:        capture.Console,
		IncludeNetwork: includeNetwork,
		IncludeConsole: includeConsole,
	}, s.cfg.PreviewLength)

	s.logger.Printf("Snapshot captured for %s: %d elements, %d requests, %d console messages",
		target, result.ElementCount, result.RequestCount, result.ConsoleCount)
	return result, nil
}
