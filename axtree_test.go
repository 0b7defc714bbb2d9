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
	"testing"
)

func axNode(id, parent, role, name string) axRawNode {
	n := axRawNode{NodeID: id, ParentID: parent}
	if role != "" {
		n.Role = &axValue{Type: "role", Value: role}
	}
	if name != "" {
		n.Name = &axValue{Type: "computedString", Value: name}
	}
	return n
}

func TestRenderAXTreeNesting(t *testing.T) {
	nodes := []axRawNode{
		axNode("1", "", "RootWebArea", "Example"),
		axNode("2", "1", "link", "Docs"),
		axNode("3", "1", "button", "Submit"),
		axNode("4", "2", "StaticText", "Docs"),
	}
	want := strings.Join([]string{
		`- RootWebArea "Example"`,
		`  - link "Docs"`,
		`    - text: Docs`,
		`  - button "Submit"`,
	}, "\n")
	if got := renderAXTree(nodes); got != want {
		t.Errorf("renderAXTree:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderAXTreeHoistsIgnoredAndGeneric(t *testing.T) {
	nodes := []axRawNode{
		axNode("1", "", "RootWebArea", "Page"),
		axNode("2", "1", "generic", ""),
		axNode("3", "2", "link", "Inside"),
	}
	// Ignored wrapper in a parallel branch
	ignored := axNode("4", "1", "paragraph", "")
	ignored.Ignored = true
	nodes = append(nodes, ignored, axNode("5", "4", "StaticText", "hoisted text"))

	got := renderAXTree(nodes)
	want := strings.Join([]string{
		`- RootWebArea "Page"`,
		`  - link "Inside"`,
		`  - text: hoisted text`,
	}, "\n")
	if got != want {
		t.Errorf("renderAXTree:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderAXTreeKeepsLabeledGeneric(t *testing.T) {
	nodes := []axRawNode{
		axNode("1", "", "RootWebArea", "Page"),
		axNode("2", "1", "generic", "card container"),
	}
	got := renderAXTree(nodes)
	if !strings.Contains(got, `- generic "card container"`) {
		t.Errorf("labeled generic was hoisted:\n%s", got)
	}
}

func TestRenderAXTreeNamelessRole(t *testing.T) {
	nodes := []axRawNode{
		axNode("1", "", "RootWebArea", "Page"),
		axNode("2", "1", "list", ""),
	}
	got := renderAXTree(nodes)
	if !strings.Contains(got, "  - list") || strings.Contains(got, `- list "`) {
		t.Errorf("nameless role rendered wrong:\n%s", got)
	}
}

func TestRenderAXTreeNumericSiblingOrder(t *testing.T) {
	// String comparison would put "10" before "2".
	nodes := []axRawNode{
		axNode("1", "", "RootWebArea", "Page"),
		axNode("10", "1", "link", "Second"),
		axNode("2", "1", "link", "First"),
	}
	got := renderAXTree(nodes)
	first := strings.Index(got, "First")
	second := strings.Index(got, "Second")
	if first < 0 || second < 0 || first > second {
		t.Errorf("siblings out of numeric order:\n%s", got)
	}
}

func TestRenderAXTreeEmpty(t *testing.T) {
	if got := renderAXTree(nil); got != "" {
		t.Errorf("renderAXTree(nil) = %q, want empty", got)
	}
}

func TestAXTreeResultUnmarshalTolerant(t *testing.T) {
	// Responses from newer Chrome versions carry property names cdproto's
	// generated enums reject; the lenient types must accept them.
	raw := `{"nodes":[
		{"nodeId":"1","ignored":false,
		 "role":{"type":"role","value":"RootWebArea"},
		 "name":{"type":"computedString","value":"Home"},
		 "properties":[{"name":"someFutureProperty","value":{"type":"boolean","value":true}}],
		 "backendDOMNodeId":7},
		{"nodeId":"2","ignored":true,
		 "ignoredReasons":[{"name":"uninteresting","value":{"type":"boolean","value":true}}],
		 "parentId":"1"}
	]}`
	var result axTreeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(result.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(result.Nodes))
	}
	if axValueString(result.Nodes[0].Role) != "RootWebArea" {
		t.Errorf("role = %q", axValueString(result.Nodes[0].Role))
	}
	if !result.Nodes[1].Ignored {
		t.Error("ignored flag lost")
	}
}

func TestAXValueString(t *testing.T) {
	tests := []struct {
		v    *axValue
		want string
	}{
		{nil, ""},
		{&axValue{Type: "string"}, ""},
		{&axValue{Type: "computedString", Value: "hello"}, "hello"},
		{&axValue{Type: "integer", Value: float64(3)}, "3"},
		{&axValue{Type: "boolean", Value: true}, "true"},
	}
	for _, tt := range tests {
		if got := axValueString(tt.v); got != tt.want {
			t.Errorf("axValueString(%+v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
