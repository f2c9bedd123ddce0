// Package view owns the interaction state of the org-structure screen:
// which nodes are expanded, which entity levels are visible, and the camera
// transform (zoom, pan, fullscreen).
//
// The state is a plain serializable value with explicit transition methods.
// It feeds the tree and layout packages as pure input; nothing here touches
// rendering or data fetching directly. ToggleNode reports when a lazy child
// fetch is needed so the caller can kick one off.
package view

import (
	"github.com/campusgrid/orgcanvas/pkg/layout"
	"github.com/campusgrid/orgcanvas/pkg/tree"
)

// Zoom bounds and step for the camera transform.
const (
	MinZoom  = 0.3
	MaxZoom  = 2.0
	ZoomStep = 0.1
)

// Offset is the camera pan in pixels.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the size of the area available for drawing the chart.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// State is the interaction state. It has no terminal state; a Controller is
// long-lived for the screen's mounted lifetime.
type State struct {
	Expanded      map[string]bool    `json:"expanded"`
	VisibleLevels map[tree.Kind]bool `json:"visible_levels"`
	Zoom          float64            `json:"zoom"`
	Pan           Offset             `json:"pan"`
	Fullscreen    bool               `json:"fullscreen"`
}

// NewState returns the initial screen state: every level visible, only the
// root expanded, zoom 1.
func NewState(rootID string) State {
	visible := make(map[tree.Kind]bool, len(tree.Levels))
	for _, k := range tree.Levels {
		visible[k] = true
	}
	expanded := make(map[string]bool)
	if rootID != "" {
		expanded[rootID] = true
	}
	return State{
		Expanded:      expanded,
		VisibleLevels: visible,
		Zoom:          1.0,
	}
}

// ToggleNode flips a node's expansion. It reports whether the caller should
// fetch the node's children on demand: true when the node was just expanded,
// is of a kind whose children load lazily (school, branch, grade), and has
// no children in the current tree.
func (s *State) ToggleNode(m tree.Map, id string) (needsFetch bool) {
	n, ok := m[id]
	if !ok {
		return false
	}
	if s.Expanded[id] {
		delete(s.Expanded, id)
		return false
	}
	s.Expanded[id] = true

	switch n.Kind {
	case tree.KindSchool, tree.KindBranch, tree.KindGrade:
		return len(n.Children) == 0
	}
	return false
}

// ToggleLevel flips a level's visibility with the cascade policy of the
// org-structure screen:
//
//   - Turning a level off also turns off every descendant level and removes
//     the expansion keys of that level's kind and below, so no orphaned
//     expansion state survives.
//   - Turning a level on also turns on every ancestor level and expands
//     exactly the ancestor nodes that actually have children; nodes with
//     zero loaded children are not auto-expanded.
func (s *State) ToggleLevel(m tree.Map, k tree.Kind) {
	lvl := k.Level()
	if lvl < 0 {
		return
	}

	if s.VisibleLevels[k] {
		// Cascade off: this level and everything beneath it.
		for _, desc := range tree.Levels[lvl:] {
			s.VisibleLevels[desc] = false
		}
		for id := range s.Expanded {
			if n, ok := m[id]; ok && n.Kind.Level() >= lvl {
				delete(s.Expanded, id)
			}
		}
		return
	}

	// Cascade on: ancestors first, then expand the ancestors that have
	// something to show.
	for _, anc := range tree.Levels[:lvl+1] {
		s.VisibleLevels[anc] = true
	}
	for id, n := range m {
		if n.Kind.Level() < lvl && len(n.Children) > 0 {
			s.Expanded[id] = true
		}
	}
}

// PruneExpansion drops expansion keys whose nodes no longer exist in the
// tree, e.g. after the inactive-school filter removed their records.
func (s *State) PruneExpansion(m tree.Map) {
	for id := range s.Expanded {
		if _, ok := m[id]; !ok {
			delete(s.Expanded, id)
		}
	}
}

// ZoomIn increases zoom by one step, clamped to MaxZoom.
func (s *State) ZoomIn() { s.SetZoom(s.Zoom + ZoomStep) }

// ZoomOut decreases zoom by one step, clamped to MinZoom.
func (s *State) ZoomOut() { s.SetZoom(s.Zoom - ZoomStep) }

// SetZoom clamps and applies a zoom level.
func (s *State) SetZoom(z float64) {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	s.Zoom = z
}

// FitToScreen recomputes the optimal zoom from the ratio of the viewport to
// the latest layout size, clamps it, and re-centers the pan. A zero-size
// layout resets to zoom 1.
func (s *State) FitToScreen(vp Viewport, total layout.Size) {
	if total.Width <= 0 || total.Height <= 0 {
		s.ResetZoom(vp, total)
		return
	}
	zw := vp.Width / total.Width
	zh := vp.Height / total.Height
	z := zw
	if zh < z {
		z = zh
	}
	s.SetZoom(z)
	s.center(vp, total)
}

// ResetZoom restores zoom 1 and re-centers.
func (s *State) ResetZoom(vp Viewport, total layout.Size) {
	s.Zoom = 1.0
	s.center(vp, total)
}

// SetFullscreen records a fullscreen change observed from the environment
// and re-fits the chart, the same as a manual resize would.
func (s *State) SetFullscreen(on bool, vp Viewport, total layout.Size) {
	s.Fullscreen = on
	s.FitToScreen(vp, total)
}

// center positions the pan offset so the scaled chart is centered in the
// viewport. Negative offsets (chart larger than viewport) are kept, matching
// scroll-based rendering.
func (s *State) center(vp Viewport, total layout.Size) {
	s.Pan = Offset{
		X: (vp.Width - total.Width*s.Zoom) / 2,
		Y: (vp.Height - total.Height*s.Zoom) / 2,
	}
}
