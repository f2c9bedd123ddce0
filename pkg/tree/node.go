// Package tree builds the organization tree consumed by the layout engine.
//
// The tree is a pure projection of entity records: it is rebuilt, never
// mutated, whenever source data or interaction state changes. Every node is
// keyed by a deterministic synthetic ID ("school-<uuid>", "branch-<uuid>",
// ...) so the same record always maps to the same node across rebuilds.
package tree

import (
	"fmt"
	"strings"
)

// Kind identifies the entity type of a node. The tag set is closed: layout
// defaults, display styling, and level visibility all key off it.
type Kind string

// Node kinds, ordered from root to leaf.
const (
	KindCompany Kind = "company"
	KindSchool  Kind = "school"
	KindBranch  Kind = "branch"
	KindGrade   Kind = "grade"
	KindSection Kind = "section"
)

// Levels lists all kinds in hierarchy order (index = depth from root).
var Levels = []Kind{KindCompany, KindSchool, KindBranch, KindGrade, KindSection}

// Level returns the depth of the kind in the hierarchy (company = 0).
// Unknown kinds return -1.
func (k Kind) Level() int {
	for i, l := range Levels {
		if l == k {
			return i
		}
	}
	return -1
}

// Child returns the kind one level below, or "" for the leaf kind.
func (k Kind) Child() Kind {
	lvl := k.Level()
	if lvl < 0 || lvl+1 >= len(Levels) {
		return ""
	}
	return Levels[lvl+1]
}

// Parent returns the kind one level above, or "" for the root kind.
func (k Kind) Parent() Kind {
	lvl := k.Level()
	if lvl <= 0 {
		return ""
	}
	return Levels[lvl-1]
}

// NodeID returns the synthetic node identifier for a record.
// IDs are stable across rebuilds: "<kind>-<record id>".
func NodeID(k Kind, recordID string) string {
	return fmt.Sprintf("%s-%s", k, recordID)
}

// ParseNodeID splits a synthetic node ID back into its kind and record ID.
// Returns ok=false for malformed IDs or unknown kinds.
func ParseNodeID(id string) (k Kind, recordID string, ok bool) {
	i := strings.IndexByte(id, '-')
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	k = Kind(id[:i])
	if k.Level() < 0 {
		return "", "", false
	}
	return k, id[i+1:], true
}

// Node is the unit of layout. Record holds the underlying entity and is
// opaque to the layout engine; Label and Status are lifted out of the record
// for rendering.
type Node struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	ParentID string `json:"parent_id,omitempty"`
	Children []string `json:"children,omitempty"` // insertion order = display order
	Label    string `json:"label"`
	Status   string `json:"status,omitempty"`
	Record   any    `json:"record,omitempty"`
}

// Map is the node map: a forest rooted at exactly one company node.
type Map map[string]*Node

// Root returns the company node, or nil if the map is empty or malformed.
func (m Map) Root() *Node {
	for _, n := range m {
		if n.Kind == KindCompany {
			return n
		}
	}
	return nil
}

// Count returns the number of nodes of the given kind.
func (m Map) Count(k Kind) int {
	c := 0
	for _, n := range m {
		if n.Kind == k {
			c++
		}
	}
	return c
}
