// Package layout positions organization tree nodes on a 2D canvas.
//
// The engine is a pure function: given a node map, a per-node dimension map,
// and a configuration, it produces a center-anchored position for every
// reachable node plus the overall canvas size. Output depends only on the
// node map's children ordering, never on map iteration order or wall-clock
// time, so identical inputs always yield identical results.
//
// Two sibling-placement strategies exist. The standard strategy resolves
// each child's subtree width recursively and lays siblings out left to right
// with a fixed gap, centering the parent over the span. The grid strategy
// kicks in when a node's child count exceeds MaxSiblingsPerRow: children are
// tiled into fixed-cell rows, with a partially filled last row centered on
// the same column slots.
package layout

// Config holds the spacing parameters for a layout pass. It is an immutable
// value object; callers copy and adjust rather than mutate a shared instance.
type Config struct {
	// GapX is the horizontal gap between adjacent sibling subtree boxes.
	GapX float64
	// GapY is the vertical distance between consecutive levels.
	GapY float64
	// MinCardWidth and MaxCardWidth clamp node widths from the dimension map.
	MinCardWidth float64
	MaxCardWidth float64
	// CenterParents horizontally centers a parent over its children's span.
	// When false the parent keeps the left edge of its children's span.
	CenterParents bool
	// MaxSiblingsPerRow is the child count above which siblings wrap into a
	// grid. Zero disables grid wrapping entirely.
	MaxSiblingsPerRow int
	// CompactGapX is the horizontal gap between grid cells.
	CompactGapX float64
	// RowGapY is the vertical gap between grid rows.
	RowGapY float64
	// Margin is the padding applied around the finished layout so no card
	// touches the canvas edge.
	Margin float64
}

// DefaultConfig returns the spacing used by the admin org-structure screen.
func DefaultConfig() Config {
	return Config{
		GapX:              60,
		GapY:              220,
		MinCardWidth:      200,
		MaxCardWidth:      360,
		CenterParents:     true,
		MaxSiblingsPerRow: 6,
		CompactGapX:       30,
		RowGapY:           40,
		Margin:            50,
	}
}

// clampWidth applies the configured card width bounds.
func (c Config) clampWidth(w float64) float64 {
	if c.MinCardWidth > 0 && w < c.MinCardWidth {
		w = c.MinCardWidth
	}
	if c.MaxCardWidth > 0 && w > c.MaxCardWidth {
		w = c.MaxCardWidth
	}
	return w
}
