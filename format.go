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

package websnap

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SnapshotData is everything the formatter needs to render one snapshot.
// The formatter performs no I/O and no recomputation: the summary counts are
// taken from the same slices rendered into the body, so the two can't drift.
type SnapshotData struct {
	Title    string
	URL      string
	Tree     string
	Refs     []ElementRef
	Requests []*NetworkEntry
	Console  []ConsoleEntry

	IncludeNetwork bool
	IncludeConsole bool
}

// SnapshotResult is the final three-segment snapshot artifact. The segments
// are independent text blocks; none is derived from another after
// construction.
type SnapshotResult struct {
	// Summary is a one-line count report.
	Summary string
	// Body holds title, URL, annotated tree and the optional network and
	// console sections.
	Body string
	// RefIndex maps reference numbers back to element descriptions, one
	// line per interactive element.
	RefIndex string

	ElementCount int
	RequestCount int
	ConsoleCount int
}

// FormatSnapshot assembles the three-segment result from captured data.
func FormatSnapshot(data *SnapshotData, previewLength int) *SnapshotResult {
	body := []string{
		fmt.Sprintf("🔍 %s", data.Title),
		fmt.Sprintf("📍 %s", data.URL),
		"",
		"🎭 Accessibility Snapshot:",
		data.Tree,
	}

	if data.IncludeNetwork {
		body = append(body, "", "🌐 Network Requests:", FormatRequests(data.Requests, previewLength))
	}
	if data.IncludeConsole {
		body = append(body, "", "🖥️ Console:", FormatConsole(data.Console))
	}

	index := make([]string, 0, len(data.Refs)+1)
	index = append(index, "🎯 Element References:")
	for _, ref := range data.Refs {
		index = append(index, fmt.Sprintf("[ref=%d]: %s", ref.Ref, ref.Element))
	}

	return &SnapshotResult{
		Summary: fmt.Sprintf("✅ Captured snapshot with %d elements, %d requests, %d console messages",
			len(data.Refs), len(data.Requests), len(data.Console)),
		Body:         strings.Join(body, "\n"),
		RefIndex:     strings.Join(index, "\n"),
		ElementCount: len(data.Refs),
		RequestCount: len(data.Requests),
		ConsoleCount: len(data.Console),
	}
}

// FormatRequests renders the network section: method and URL per entry, the
// response status (or a pending marker), and a bounded body preview when one
// was captured.
func FormatRequests(entries []*NetworkEntry, previewLength int) string {
	if len(entries) == 0 {
		return "No requests captured"
	}

	var lines []string
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("🌐 %s %s", e.Method, e.URL))
		if e.Pending() {
			lines = append(lines, "   Status: Pending")
		} else {
			lines = append(lines, fmt.Sprintf("   Status: %d", e.Status))
		}
		if e.ResponseBody != "" {
			lines = append(lines, fmt.Sprintf("   Response: %s", truncate(e.ResponseBody, previewLength)))
		}
	}
	return strings.Join(lines, "\n")
}

// FormatConsole renders the console section with a severity marker per
// entry. The type token is always upper-cased.
func FormatConsole(entries []ConsoleEntry) string {
	if len(entries) == 0 {
		return "No console messages"
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s [%s] %s", consoleMarker(e.Type), strings.ToUpper(e.Type), e.Text))
	}
	return strings.Join(lines, "\n")
}

// consoleMarker maps a console severity to its display marker. Unrecognized
// types get a neutral default.
func consoleMarker(msgType string) string {
	switch strings.ToLower(msgType) {
	case "error":
		return "❌"
	case "warning":
		return "⚠️"
	case "info":
		return "ℹ️"
	case "log":
		return "💬"
	}
	return "🖥️"
}

// truncate shortens s to at most limit bytes, appending an ellipsis only when
// something was actually cut off. The cut backs off to a rune boundary so the
// preview stays valid UTF-8.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
