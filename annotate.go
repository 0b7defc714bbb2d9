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
)

// ElementRef pairs a reference number with the accessibility-tree line it
// tags. Element holds the trimmed line text without the appended tag, so a
// downstream consumer addressing the element sees the bare description.
type ElementRef struct {
	Ref     int
	Element string
}

// AnnotateTree appends a [ref=N] tag to every interactive line of an
// accessibility-tree dump and returns the annotated dump together with the
// parallel reference index. A line is interactive when it contains any of the
// keywords, case-insensitively. References are assigned top to bottom
// starting at 1, with no gaps and no reuse; non-interactive lines are neither
// modified nor counted. Both outputs come from a single scan, so they always
// agree in count, order and text.
//
// Annotation is not idempotent: re-running over an already annotated dump
// tags the lines again.
func AnnotateTree(tree string, keywords []string) (string, []ElementRef) {
	if tree == "" {
		return "", nil
	}

	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	lines := strings.Split(tree, "\n")
	var refs []ElementRef
	counter := 1
	for i, line := range lines {
		if !isInteractiveLine(line, lowered) {
			continue
		}
		refs = append(refs, ElementRef{Ref: counter, Element: strings.TrimSpace(line)})
		lines[i] = fmt.Sprintf("%s [ref=%d]", line, counter)
		counter++
	}
	return strings.Join(lines, "\n"), refs
}

func isInteractiveLine(line string, loweredKeywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range loweredKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
