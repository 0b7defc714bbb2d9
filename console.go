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
	"encoding/json"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
)

// ConsoleEntry is one client-side console message. Type is the lower-cased
// console API severity (log, info, warning, error, ...); Text is the rendered
// argument list. Entries keep arrival order and nothing else.
type ConsoleEntry struct {
	Type string
	Text string
}

// consoleRecorder accumulates console messages for one snapshot.
type consoleRecorder struct {
	mu      sync.Mutex
	entries []ConsoleEntry
}

func (r *consoleRecorder) Record(msgType, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, ConsoleEntry{
		Type: strings.ToLower(msgType),
		Text: text,
	})
}

func (r *consoleRecorder) Entries() []ConsoleEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ConsoleEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// consoleText renders a console call's arguments as a single line. String
// arguments appear verbatim; other primitives use their JSON value; objects
// fall back to the remote object description.
func consoleText(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == nil {
			continue
		}
		parts = append(parts, remoteObjectText(arg))
	}
	return strings.Join(parts, " ")
}

func remoteObjectText(obj *runtime.RemoteObject) string {
	if obj.Type == runtime.TypeString && len(obj.Value) > 0 {
		var s string
		if err := json.Unmarshal([]byte(obj.Value), &s); err == nil {
			return s
		}
	}
	if len(obj.Value) > 0 {
		return string(obj.Value)
	}
	if obj.Description != "" {
		return obj.Description
	}
	return string(obj.Type)
}
