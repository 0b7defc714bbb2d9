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
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chromedp/cdproto/cdp"
)

// Lenient versions of the CDP accessibility types. Plain strings and
// interface values are used instead of cdproto's strict enums so that
// unknown property names from newer Chrome versions don't fail the
// unmarshal and with it the whole snapshot.

type axValue struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

type axProperty struct {
	Name  string   `json:"name"`
	Value *axValue `json:"value"`
}

type axRawNode struct {
	NodeID           string        `json:"nodeId"`
	Ignored          bool          `json:"ignored"`
	IgnoredReasons   []*axProperty `json:"ignoredReasons,omitempty"`
	Role             *axValue      `json:"role,omitempty"`
	Name             *axValue      `json:"name,omitempty"`
	Properties       []*axProperty `json:"properties,omitempty"`
	ParentID         string        `json:"parentId,omitempty"`
	BackendDOMNodeID int64         `json:"backendDOMNodeId,omitempty"`
}

type axTreeResult struct {
	Nodes []axRawNode `json:"nodes"`
}

// dumpAXTree fetches the page's full accessibility tree over a raw CDP call
// and renders it as an indented text dump. The raw call sidesteps cdproto's
// generated enum types, which reject property names they don't know about.
// The ctx must carry a chromedp executor.
func dumpAXTree(ctx context.Context) (string, error) {
	var result axTreeResult
	if err := cdp.Execute(ctx, "Accessibility.getFullAXTree", nil, &result); err != nil {
		return "", fmt.Errorf("accessibility tree fetch failed: %w", err)
	}
	return renderAXTree(result.Nodes), nil
}

// renderAXTree turns the flat CDP node list into the indented dump consumed
// by the annotator: one `- role "name"` line per rendered node, two spaces of
// indent per depth. Ignored nodes, inline text boxes and unlabeled generic
// containers are hoisted, their children rendered at the parent's depth.
// Static text appears as `- text: ...` lines.
func renderAXTree(nodes []axRawNode) string {
	if len(nodes) == 0 {
		return ""
	}

	type treeNode struct {
		raw      *axRawNode
		children []*treeNode
	}

	nodeMap := make(map[string]*treeNode, len(nodes))
	order := make([]*treeNode, 0, len(nodes))
	for i := range nodes {
		tn := &treeNode{raw: &nodes[i]}
		nodeMap[nodes[i].NodeID] = tn
		order = append(order, tn)
	}

	var roots []*treeNode
	for _, tn := range order {
		if parent, ok := nodeMap[tn.raw.ParentID]; ok && tn.raw.ParentID != tn.raw.NodeID {
			parent.children = append(parent.children, tn)
		} else {
			roots = append(roots, tn)
		}
	}

	// CDP node ids are numeric strings; sort children numerically so sibling
	// order is stable regardless of map iteration.
	sortNodes := func(ns []*treeNode) {
		sort.SliceStable(ns, func(i, j int) bool {
			return axNodeIDLess(ns[i].raw.NodeID, ns[j].raw.NodeID)
		})
	}
	sortNodes(roots)
	for _, tn := range order {
		sortNodes(tn.children)
	}

	var lines []string
	var walk func(tn *treeNode, depth int)
	walk = func(tn *treeNode, depth int) {
		role := axValueString(tn.raw.Role)
		if hoistedRole(tn.raw, role) {
			for _, child := range tn.children {
				walk(child, depth)
			}
			return
		}

		indent := strings.Repeat("  ", depth)
		name := axValueString(tn.raw.Name)
		switch {
		case role == "StaticText":
			lines = append(lines, fmt.Sprintf("%s- text: %s", indent, name))
		case name != "":
			lines = append(lines, fmt.Sprintf("%s- %s %q", indent, role, name))
		default:
			lines = append(lines, fmt.Sprintf("%s- %s", indent, role))
		}
		for _, child := range tn.children {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}

	return strings.Join(lines, "\n")
}

func hoistedRole(raw *axRawNode, role string) bool {
	if raw.Ignored {
		return true
	}
	switch role {
	case "InlineTextBox", "LineBreak", "none", "":
		return true
	case "generic":
		// Keep labeled generics; unlabeled wrappers are pure noise.
		return axValueString(raw.Name) == ""
	}
	return false
}

func axNodeIDLess(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

// axValueString extracts a display string from a lenient AX value.
func axValueString(v *axValue) string {
	if v == nil || v.Value == nil {
		return ""
	}
	switch val := v.Value.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return fmt.Sprintf("%v", v.Value)
}
