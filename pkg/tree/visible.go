package tree

// Rendered reports whether a node should appear in the rendered tree: its
// kind's level must be visible, and every ancestor up to the root must be
// expanded. The root only needs its level to be visible.
func Rendered(m Map, id string, visible map[Kind]bool, expanded map[string]bool) bool {
	n, ok := m[id]
	if !ok || !visible[n.Kind] {
		return false
	}
	for p := n.ParentID; p != ""; {
		if !expanded[p] {
			return false
		}
		parent, ok := m[p]
		if !ok {
			return false
		}
		p = parent.ParentID
	}
	return true
}

// Visible projects the full tree down to the rendered nodes. Children lists
// are filtered to rendered children only, so the result can be handed
// directly to the layout engine. The projection is a fresh map; the input is
// never mutated.
func Visible(m Map, visible map[Kind]bool, expanded map[string]bool) Map {
	out := make(Map)
	for id, n := range m {
		if !Rendered(m, id, visible, expanded) {
			continue
		}
		cp := *n
		cp.Children = nil
		for _, c := range n.Children {
			if Rendered(m, c, visible, expanded) {
				cp.Children = append(cp.Children, c)
			}
		}
		out[id] = &cp
	}
	return out
}
