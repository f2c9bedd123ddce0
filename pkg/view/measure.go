package view

import "github.com/campusgrid/orgcanvas/pkg/layout"

// Measurer reports the actual rendered size of mounted node cards. Card
// height depends on content, so the first layout pass runs with kind-based
// estimates; once real sizes arrive a second, debounced pass corrects them.
//
// Implementations measure in screen pixels; Logical converts back to layout
// units by dividing out the current zoom. Nodes that are not mounted
// (collapsed, level hidden) are simply absent from the result and keep their
// estimated size.
type Measurer interface {
	Measure(ids []string) map[string]layout.Dimensions
}

// Logical converts screen-pixel measurements into layout units at the given
// zoom. A zoom of zero (not yet initialized) leaves values unchanged.
func Logical(screen map[string]layout.Dimensions, zoom float64) map[string]layout.Dimensions {
	if zoom == 0 || zoom == 1 {
		return screen
	}
	out := make(map[string]layout.Dimensions, len(screen))
	for id, d := range screen {
		out[id] = layout.Dimensions{W: d.W / zoom, H: d.H / zoom}
	}
	return out
}

// StaticMeasurer returns fixed sizes from a map. Used in tests and by the
// terminal viewer, where card sizes are known up front.
type StaticMeasurer map[string]layout.Dimensions

// Measure returns the stored size for each requested ID that has one.
func (m StaticMeasurer) Measure(ids []string) map[string]layout.Dimensions {
	out := make(map[string]layout.Dimensions)
	for _, id := range ids {
		if d, ok := m[id]; ok {
			out[id] = d
		}
	}
	return out
}
