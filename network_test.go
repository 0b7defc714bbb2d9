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
	"errors"
	"fmt"
	"testing"

	"github.com/gobwas/glob"
)

func TestRecorderMatchesResponseToRequest(t *testing.T) {
	r := newNetworkRecorder(nil)
	r.RecordRequest("1", "GET", "https://example.com/api", "")
	r.RecordResponse("1", 200, "application/json", 42)

	entries := r.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Pending() {
		t.Error("entry still pending after matching response")
	}
	if e.Status != 200 || e.ContentType != "application/json" || e.ContentLength != 42 {
		t.Errorf("response fields not populated: %+v", e)
	}
}

func TestRecorderDoesNotCrossMatchEntries(t *testing.T) {
	r := newNetworkRecorder(nil)
	r.RecordRequest("1", "GET", "https://example.com/a", "")
	r.RecordRequest("2", "GET", "https://example.com/b", "")
	r.RecordResponse("2", 404, "text/html", 10)

	entries := r.Entries()
	if !entries[0].Pending() {
		t.Error("first entry got a response that belongs to the second request")
	}
	if entries[1].Pending() || entries[1].Status != 404 {
		t.Errorf("second entry not matched: %+v", entries[1])
	}
}

func TestRecorderRedirectChainSharesRequestID(t *testing.T) {
	// Chrome keeps one request id across a redirect chain. Each hop's
	// response is recorded before the next hop's request is appended, so
	// every response must land on its own hop.
	r := newNetworkRecorder(nil)
	r.RecordRequest("1", "GET", "http://example.com/", "")
	r.RecordResponse("1", 301, "text/html", 0)
	r.RecordRequest("1", "GET", "https://example.com/", "")
	r.RecordResponse("1", 200, "text/html", 1256)

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for a two-hop chain, got %d", len(entries))
	}
	if entries[0].Status != 301 || entries[0].URL != "http://example.com/" {
		t.Errorf("redirect hop = %d %s, want 301 http://example.com/",
			entries[0].Status, entries[0].URL)
	}
	if entries[1].Status != 200 || entries[1].URL != "https://example.com/" {
		t.Errorf("final hop = %d %s, want 200 https://example.com/",
			entries[1].Status, entries[1].URL)
	}
	if entries[0].Pending() || entries[1].Pending() {
		t.Error("no hop of a completed chain should stay pending")
	}
}

func TestRecorderNeverOverwritesResponse(t *testing.T) {
	r := newNetworkRecorder(nil)
	r.RecordRequest("1", "GET", "https://example.com/a", "")
	r.RecordResponse("1", 200, "text/html", 5)
	r.RecordResponse("1", 500, "text/plain", 9)

	e := r.Entries()[0]
	if e.Status != 200 || e.ContentType != "text/html" {
		t.Errorf("response was overwritten: %+v", e)
	}
}

func TestRecorderKeepsFirstSeenOrder(t *testing.T) {
	r := newNetworkRecorder(nil)
	for i := 0; i < 5; i++ {
		r.RecordRequest(fmt.Sprint(i), "GET", fmt.Sprintf("https://example.com/%d", i), "")
	}
	// Responses arrive out of order
	r.RecordResponse("3", 200, "text/html", 1)
	r.RecordResponse("0", 200, "text/html", 1)

	for i, e := range r.Entries() {
		if want := fmt.Sprintf("https://example.com/%d", i); e.URL != want {
			t.Errorf("entry %d has URL %q, want %q", i, e.URL, want)
		}
	}
}

func TestRecorderBodyOnlyForMutatingMethods(t *testing.T) {
	r := newNetworkRecorder(nil)
	r.RecordRequest("1", "GET", "https://example.com/a", "ignored")
	r.RecordRequest("2", "POST", "https://example.com/b", `{"x":1}`)
	r.RecordRequest("3", "PUT", "https://example.com/c", "data")
	r.RecordRequest("4", "PATCH", "https://example.com/d", "data")

	entries := r.Entries()
	if entries[0].RequestBody != "" {
		t.Errorf("GET entry kept a request body: %q", entries[0].RequestBody)
	}
	for _, e := range entries[1:] {
		if e.RequestBody == "" {
			t.Errorf("%s entry lost its request body", e.Method)
		}
	}
}

func TestRecorderUnreadableRequestBodyKeepsEntry(t *testing.T) {
	// A failed request-body read surfaces as an empty field, not a missing
	// entry and not an error.
	r := newNetworkRecorder(nil)
	r.RecordRequest("1", "POST", "https://example.com/api", "")

	entries := r.Entries()
	if len(entries) != 1 {
		t.Fatalf("entry was dropped, got %d entries", len(entries))
	}
	if entries[0].RequestBody != "" {
		t.Errorf("unexpected body %q", entries[0].RequestBody)
	}
}

func TestRecorderIgnorePatterns(t *testing.T) {
	g := glob.MustCompile("*analytics*")
	r := newNetworkRecorder([]glob.Glob{g})
	r.RecordRequest("1", "GET", "https://analytics.example.com/beacon", "")
	r.RecordRequest("2", "GET", "https://example.com/page", "")

	entries := r.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after filtering, got %d", len(entries))
	}
	if entries[0].URL != "https://example.com/page" {
		t.Errorf("wrong entry survived the filter: %q", entries[0].URL)
	}
}

func TestShouldCaptureBodyBoundary(t *testing.T) {
	// Inclusive at the ceiling, placeholder one past it
	if !shouldCaptureBody("text/plain", 50000, 50000) {
		t.Error("body of exactly 50000 bytes should be captured")
	}
	if shouldCaptureBody("text/plain", 50001, 50000) {
		t.Error("body of 50001 bytes should use the placeholder")
	}
}

func TestShouldCaptureBodyContentTypes(t *testing.T) {
	capture := []string{
		"application/json",
		"application/json; charset=utf-8",
		"text/html",
		"text/plain; charset=iso-8859-1",
		"application/xml",
	}
	for _, ct := range capture {
		if !shouldCaptureBody(ct, 100, 50000) {
			t.Errorf("shouldCaptureBody(%q) = false, want true", ct)
		}
	}

	skip := []string{"image/png", "application/octet-stream", "font/woff2", "video/mp4"}
	for _, ct := range skip {
		if shouldCaptureBody(ct, 100, 50000) {
			t.Errorf("shouldCaptureBody(%q) = true, want false", ct)
		}
	}
}

func TestFinalizeBodiesCapturesAndPlaceholders(t *testing.T) {
	r := newNetworkRecorder(nil)
	r.RecordRequest("1", "GET", "https://example.com/data.json", "")
	r.RecordResponse("1", 200, "application/json", 20)
	r.RecordRequest("2", "GET", "https://example.com/image.png", "")
	r.RecordResponse("2", 200, "image/png", 123456)
	r.RecordRequest("3", "GET", "https://example.com/slow", "")

	r.FinalizeBodies(50000, func(requestID string) ([]byte, error) {
		if requestID != "1" {
			t.Errorf("unexpected body fetch for request %s", requestID)
		}
		return []byte(`{"items":[1,2,3]}`), nil
	})

	entries := r.Entries()
	if entries[0].ResponseBody != `{"items":[1,2,3]}` {
		t.Errorf("textual body not captured: %q", entries[0].ResponseBody)
	}
	if entries[1].ResponseBody != "[image/png - 123456 bytes]" {
		t.Errorf("binary placeholder wrong: %q", entries[1].ResponseBody)
	}
	if entries[2].ResponseBody != "" {
		t.Errorf("pending entry should have no body: %q", entries[2].ResponseBody)
	}
}

func TestFinalizeBodiesContainsFetchErrors(t *testing.T) {
	r := newNetworkRecorder(nil)
	r.RecordRequest("1", "GET", "https://example.com/a.json", "")
	r.RecordResponse("1", 200, "application/json", 10)
	r.RecordRequest("2", "GET", "https://example.com/b.json", "")
	r.RecordResponse("2", 200, "application/json", 10)

	r.FinalizeBodies(50000, func(requestID string) ([]byte, error) {
		if requestID == "1" {
			return nil, errors.New("body evicted")
		}
		return []byte(`{}`), nil
	})

	entries := r.Entries()
	if entries[0].ResponseBody != unreadableBodyPlaceholder {
		t.Errorf("fetch error not replaced with placeholder: %q", entries[0].ResponseBody)
	}
	if entries[1].ResponseBody != `{}` {
		t.Errorf("unrelated entry affected by sibling fetch error: %q", entries[1].ResponseBody)
	}
}
