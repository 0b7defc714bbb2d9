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
	"sync"

	"github.com/gobwas/glob"
)

// Placeholder used when a response body cannot be read from the browser.
const unreadableBodyPlaceholder = "[Error reading response]"

// NetworkEntry is one HTTP exchange observed during a page load. Entries are
// appended in request order; the response half is filled in later, at most
// once, when the matching response event arrives. An entry whose response
// never arrives stays pending until the overall timeout.
type NetworkEntry struct {
	Method        string
	URL           string
	RequestBody   string
	Status        int
	ContentType   string
	ContentLength int64
	ResponseBody  string

	requestID string
	responded bool
}

// Pending reports whether the entry is still waiting for its response.
func (e *NetworkEntry) Pending() bool {
	return !e.responded
}

// networkRecorder accumulates NetworkEntry records for one snapshot.
// Browser lifecycle events arrive on the engine's event goroutine in any
// interleaving relative to each other, so all list access is mutex-guarded.
// A recorder is never shared across snapshot calls.
type networkRecorder struct {
	mu      sync.Mutex
	entries []*NetworkEntry
	ignore  []glob.Glob
}

func newNetworkRecorder(ignore []glob.Glob) *networkRecorder {
	return &networkRecorder{ignore: ignore}
}

// RecordRequest appends a new pending entry for an outgoing request. Requests
// whose URL matches an ignore pattern are not recorded. The body must already
// be captured by the caller (only mutating methods carry one; read failures
// leave it empty rather than aborting the request pipeline).
func (r *networkRecorder) RecordRequest(requestID, method, url, body string) {
	for _, g := range r.ignore {
		if g.Match(url) {
			return
		}
	}
	if !isMutatingMethod(method) {
		body = ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &NetworkEntry{
		Method:      method,
		URL:         url,
		RequestBody: body,
		requestID:   requestID,
	})
}

// RecordResponse attaches response metadata to the first still-pending entry
// with the same request id. An already-populated response is never
// overwritten; responses without a matching entry are dropped.
func (r *networkRecorder) RecordResponse(requestID string, status int, contentType string, contentLength int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.requestID == requestID && !e.responded {
			e.Status = status
			e.ContentType = contentType
			e.ContentLength = contentLength
			e.responded = true
			return
		}
	}
}

// Entries returns the recorded entries in first-seen-request order.
func (r *networkRecorder) Entries() []*NetworkEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*NetworkEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// FinalizeBodies resolves the response body for every responded entry.
// Textual bodies within maxBody bytes are fetched verbatim via fetch; other
// bodies get a placeholder naming their type and size. A fetch error is
// contained to its entry and replaced with a fixed unreadable marker.
func (r *networkRecorder) FinalizeBodies(maxBody int64, fetch func(requestID string) ([]byte, error)) {
	for _, e := range r.Entries() {
		r.mu.Lock()
		skip := !e.responded || e.ResponseBody != ""
		contentType, contentLength := e.ContentType, e.ContentLength
		r.mu.Unlock()
		if skip {
			continue
		}

		var body string
		if shouldCaptureBody(contentType, contentLength, maxBody) {
			raw, err := fetch(e.requestID)
			if err != nil {
				body = unreadableBodyPlaceholder
			} else {
				body = string(raw)
			}
		} else {
			body = bodyPlaceholder(contentType, contentLength)
		}

		r.mu.Lock()
		if e.ResponseBody == "" {
			e.ResponseBody = body
		}
		r.mu.Unlock()
	}
}

// capturableContentTypes are the content-type prefixes whose bodies are worth
// echoing back to the model.
var capturableContentTypes = []string{"application/json", "text/", "application/xml"}

// shouldCaptureBody reports whether a response body should be captured in
// full rather than summarized. The size check is inclusive: a body of exactly
// maxBody bytes is still captured.
func shouldCaptureBody(contentType string, contentLength, maxBody int64) bool {
	if contentLength > maxBody {
		return false
	}
	for _, prefix := range capturableContentTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

func bodyPlaceholder(contentType string, contentLength int64) string {
	return fmt.Sprintf("[%s - %d bytes]", contentType, contentLength)
}

func isMutatingMethod(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}
