package view

import (
	"testing"

	"github.com/campusgrid/orgcanvas/pkg/layout"
	"github.com/campusgrid/orgcanvas/pkg/tree"
)

// viewTree returns a small node map: company -> 2 schools, the first school
// carrying a branch -> grade -> section chain, the second still childless
// (children not yet fetched).
func viewTree() tree.Map {
	m := tree.Map{
		"company-co": {ID: "company-co", Kind: tree.KindCompany, Children: []string{"school-s1", "school-s2"}},
		"school-s1":  {ID: "school-s1", Kind: tree.KindSchool, ParentID: "company-co", Children: []string{"branch-b1"}},
		"school-s2":  {ID: "school-s2", Kind: tree.KindSchool, ParentID: "company-co"},
		"branch-b1":  {ID: "branch-b1", Kind: tree.KindBranch, ParentID: "school-s1", Children: []string{"grade-g1"}},
		"grade-g1":   {ID: "grade-g1", Kind: tree.KindGrade, ParentID: "branch-b1", Children: []string{"section-c1"}},
		"section-c1": {ID: "section-c1", Kind: tree.KindSection, ParentID: "grade-g1"},
	}
	return m
}

func TestNewState(t *testing.T) {
	s := NewState("company-co")
	for _, k := range tree.Levels {
		if !s.VisibleLevels[k] {
			t.Errorf("level %s should start visible", k)
		}
	}
	if len(s.Expanded) != 1 || !s.Expanded["company-co"] {
		t.Errorf("expanded = %v, want only the root", s.Expanded)
	}
	if s.Zoom != 1.0 {
		t.Errorf("zoom = %v, want 1.0", s.Zoom)
	}
}

func TestToggleNodeFetch(t *testing.T) {
	m := viewTree()
	tests := []struct {
		name      string
		id        string
		wantFetch bool
	}{
		{"expanding childless school fetches", "school-s2", true},
		{"expanding school with loaded children does not", "school-s1", false},
		{"expanding childless section never fetches", "section-c1", false},
		{"unknown node is a no-op", "school-nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState("company-co")
			if got := s.ToggleNode(m, tt.id); got != tt.wantFetch {
				t.Errorf("ToggleNode(%s) needsFetch = %v, want %v", tt.id, got, tt.wantFetch)
			}
		})
	}

	// Collapsing never fetches, and expanding again after a collapse does.
	s := NewState("company-co")
	s.ToggleNode(m, "school-s2")
	if got := s.ToggleNode(m, "school-s2"); got != false {
		t.Error("collapsing should not request a fetch")
	}
	if s.Expanded["school-s2"] {
		t.Error("collapse should remove the expansion key")
	}
	if got := s.ToggleNode(m, "school-s2"); got != true {
		t.Error("re-expanding a still-childless school should fetch again")
	}
}

func TestToggleLevelOffCascade(t *testing.T) {
	m := viewTree()
	s := NewState("company-co")
	s.Expanded["school-s1"] = true
	s.Expanded["branch-b1"] = true
	s.Expanded["grade-g1"] = true

	s.ToggleLevel(m, tree.KindBranch)

	for _, k := range []tree.Kind{tree.KindBranch, tree.KindGrade, tree.KindSection} {
		if s.VisibleLevels[k] {
			t.Errorf("level %s should be off after cascading off branches", k)
		}
	}
	for _, k := range []tree.Kind{tree.KindCompany, tree.KindSchool} {
		if !s.VisibleLevels[k] {
			t.Errorf("level %s should stay on", k)
		}
	}
	// Expansion keys at or below the toggled level are gone; ancestors keep
	// theirs.
	for _, id := range []string{"branch-b1", "grade-g1"} {
		if s.Expanded[id] {
			t.Errorf("expansion key %s should be pruned", id)
		}
	}
	if !s.Expanded["company-co"] || !s.Expanded["school-s1"] {
		t.Error("ancestor expansion keys should survive")
	}
}

func TestToggleLevelOnCascade(t *testing.T) {
	m := viewTree()
	s := NewState("company-co")
	s.ToggleLevel(m, tree.KindGrade) // everything off from grades down
	if s.VisibleLevels[tree.KindSection] {
		t.Fatal("setup: sections should be off")
	}

	s.ToggleLevel(m, tree.KindSection) // back on

	for _, k := range tree.Levels {
		if !s.VisibleLevels[k] {
			t.Errorf("level %s should be on after cascading sections on", k)
		}
	}
	// Ancestors that actually have children are expanded; the childless
	// school is left alone.
	for _, id := range []string{"company-co", "school-s1", "branch-b1", "grade-g1"} {
		if !s.Expanded[id] {
			t.Errorf("%s should be expanded by the on-cascade", id)
		}
	}
	if s.Expanded["school-s2"] {
		t.Error("childless school should not be auto-expanded")
	}
	if s.Expanded["section-c1"] {
		t.Error("leaf level itself should not gain expansion keys")
	}
}

func TestPruneExpansion(t *testing.T) {
	m := viewTree()
	s := NewState("company-co")
	s.Expanded["school-s1"] = true
	s.Expanded["school-gone"] = true

	s.PruneExpansion(m)

	if s.Expanded["school-gone"] {
		t.Error("stale key should be pruned")
	}
	if !s.Expanded["school-s1"] || !s.Expanded["company-co"] {
		t.Error("live keys should survive pruning")
	}
}

// Toggling inactive records off must not leave their subtrees expanded: the
// screen rebuilds the tree without them and prunes, so flipping the filter
// back on shows them collapsed.
func TestInactiveFilterCollapsesPrunedSubtrees(t *testing.T) {
	full := viewTree()
	s := NewState("company-co")
	s.ToggleNode(full, "school-s1")
	s.ToggleNode(full, "branch-b1")

	// Filter flips: school-s1 is inactive, its subtree leaves the tree.
	filtered := tree.Map{
		"company-co": {ID: "company-co", Kind: tree.KindCompany, Children: []string{"school-s2"}},
		"school-s2":  {ID: "school-s2", Kind: tree.KindSchool, ParentID: "company-co"},
	}
	s.PruneExpansion(filtered)

	if s.Expanded["school-s1"] || s.Expanded["branch-b1"] {
		t.Error("expansion state of filtered-out nodes should be dropped")
	}

	// Filter flips back: the subtree reappears collapsed.
	if !tree.Rendered(full, "school-s1", s.VisibleLevels, s.Expanded) {
		t.Error("school should be rendered again under the expanded root")
	}
	if tree.Rendered(full, "branch-b1", s.VisibleLevels, s.Expanded) {
		t.Error("branch should reappear collapsed, not expanded")
	}
	// branch-b1 itself is rendered as a collapsed card under its school
	// only once the school is re-expanded, which the pruned state no
	// longer records.
	s.Expanded["school-s1"] = true
	if !tree.Rendered(full, "branch-b1", s.VisibleLevels, s.Expanded) {
		t.Error("branch should render once its school is expanded again")
	}
	if tree.Rendered(full, "grade-g1", s.VisibleLevels, s.Expanded) {
		t.Error("grade should stay hidden behind the collapsed branch")
	}
}

func TestZoomClamping(t *testing.T) {
	s := NewState("company-co")

	s.SetZoom(5)
	if s.Zoom != MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", s.Zoom, MaxZoom)
	}
	s.SetZoom(0.01)
	if s.Zoom != MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", s.Zoom, MinZoom)
	}

	s.Zoom = 1.0
	s.ZoomIn()
	if s.Zoom != 1.1 {
		t.Errorf("ZoomIn: zoom = %v, want 1.1", s.Zoom)
	}
	s.Zoom = MinZoom
	s.ZoomOut()
	if s.Zoom != MinZoom {
		t.Errorf("ZoomOut at floor: zoom = %v, want %v", s.Zoom, MinZoom)
	}
}

func TestFitToScreen(t *testing.T) {
	s := NewState("company-co")
	vp := Viewport{Width: 800, Height: 600}

	s.FitToScreen(vp, layout.Size{Width: 1600, Height: 600})
	if s.Zoom != 0.5 {
		t.Errorf("zoom = %v, want 0.5", s.Zoom)
	}
	// 1600*0.5 = 800 wide (flush), 600*0.5 = 300 tall (centered).
	if s.Pan != (Offset{X: 0, Y: 150}) {
		t.Errorf("pan = %+v, want {0 150}", s.Pan)
	}

	// A tiny chart would over-zoom; the clamp holds it at MaxZoom.
	s.FitToScreen(vp, layout.Size{Width: 100, Height: 100})
	if s.Zoom != MaxZoom {
		t.Errorf("zoom = %v, want %v", s.Zoom, MaxZoom)
	}

	// Degenerate layout falls back to reset.
	s.FitToScreen(vp, layout.Size{})
	if s.Zoom != 1.0 {
		t.Errorf("zoom after degenerate fit = %v, want 1.0", s.Zoom)
	}
}

func TestSetFullscreen(t *testing.T) {
	s := NewState("company-co")
	s.SetFullscreen(true, Viewport{Width: 1920, Height: 1080}, layout.Size{Width: 960, Height: 540})
	if !s.Fullscreen {
		t.Error("fullscreen flag not set")
	}
	if s.Zoom != 2.0 {
		t.Errorf("zoom = %v, want refit to 2.0", s.Zoom)
	}
}

func TestLogical(t *testing.T) {
	screen := map[string]layout.Dimensions{"a": {W: 200, H: 100}}

	out := Logical(screen, 2.0)
	if out["a"] != (layout.Dimensions{W: 100, H: 50}) {
		t.Errorf("Logical at zoom 2 = %+v", out["a"])
	}

	if got := Logical(screen, 0); got["a"] != screen["a"] {
		t.Error("zoom 0 should pass measurements through")
	}
}

func TestStaticMeasurer(t *testing.T) {
	m := StaticMeasurer{"a": {W: 10, H: 5}}
	out := m.Measure([]string{"a", "b"})
	if len(out) != 1 || out["a"] != (layout.Dimensions{W: 10, H: 5}) {
		t.Errorf("Measure = %v", out)
	}
}
