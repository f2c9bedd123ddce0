package layout

import (
	"math"

	"github.com/campusgrid/orgcanvas/pkg/tree"
)

// Position is the center point of a node card, in pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the bounding box of the finished layout.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Result holds the output of a layout pass. Positions are recomputed
// wholesale on every pass; there is no incremental patching.
type Result struct {
	Positions map[string]Position `json:"positions"`
	Size      Size                `json:"size"`
}

// Compute lays out the subtree rooted at rootID. If rootID is absent from
// the node map it returns an empty, valid result: callers show an empty
// state instead of treating it as a failure.
//
// Child order is taken from each node's Children list, so the result is a
// deterministic function of its inputs.
func Compute(nodes tree.Map, dims map[string]Dimensions, cfg Config, rootID string) Result {
	res := Result{Positions: make(map[string]Position)}
	if _, ok := nodes[rootID]; !ok {
		return res
	}

	e := &engine{
		nodes:  nodes,
		dims:   dims,
		cfg:    cfg,
		widths: make(map[string]float64),
		pos:    res.Positions,
	}
	e.place(rootID, 0, 0)

	// Shift so the top-left card sits at the margin, then pad the bounding
	// box so no card is clipped.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for id, p := range res.Positions {
		d := e.card(id)
		minX = math.Min(minX, p.X-d.W/2)
		minY = math.Min(minY, p.Y-d.H/2)
		maxX = math.Max(maxX, p.X+d.W/2)
		maxY = math.Max(maxY, p.Y+d.H/2)
	}
	dx, dy := cfg.Margin-minX, cfg.Margin-minY
	for id, p := range res.Positions {
		res.Positions[id] = Position{X: p.X + dx, Y: p.Y + dy}
	}
	res.Size = Size{
		Width:  maxX - minX + 2*cfg.Margin,
		Height: maxY - minY + 2*cfg.Margin,
	}
	return res
}

// engine carries the per-pass state so the recursive helpers stay short.
type engine struct {
	nodes  tree.Map
	dims   map[string]Dimensions
	cfg    Config
	widths map[string]float64 // memoized subtree widths
	pos    map[string]Position
}

// card returns the (clamped) dimensions for a node, falling back to the
// kind-based default when no entry exists in the dimension map.
func (e *engine) card(id string) Dimensions {
	d, ok := e.dims[id]
	if !ok || d.W <= 0 || d.H <= 0 {
		if n, ok := e.nodes[id]; ok {
			d = DefaultDimensions(n.Kind)
		} else {
			d = DefaultDimensions("")
		}
	}
	d.W = e.cfg.clampWidth(d.W)
	return d
}

// children returns the node's child IDs filtered to those present in the
// map. Missing references are dropped defensively.
func (e *engine) children(id string) []string {
	n, ok := e.nodes[id]
	if !ok {
		return nil
	}
	kids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if _, ok := e.nodes[c]; ok {
			kids = append(kids, c)
		}
	}
	return kids
}

// gridWraps reports whether a sibling group of size k tiles into rows.
// A count of exactly MaxSiblingsPerRow still lays out linearly.
func (e *engine) gridWraps(k int) bool {
	return e.cfg.MaxSiblingsPerRow > 0 && k > e.cfg.MaxSiblingsPerRow
}

// subtreeWidth resolves the horizontal extent of a node's subtree in
// post-order: a leaf is as wide as its card; an inner node spans its
// children plus gaps, or the grid span when the group wraps.
func (e *engine) subtreeWidth(id string) float64 {
	if w, ok := e.widths[id]; ok {
		return w
	}
	own := e.card(id).W
	kids := e.children(id)
	w := own
	switch {
	case len(kids) == 0:
		// own width stands
	case e.gridWraps(len(kids)):
		cellW, _ := e.gridCell(kids)
		span := float64(e.cfg.MaxSiblingsPerRow)*cellW - e.cfg.CompactGapX
		w = math.Max(own, span)
	default:
		span := -e.cfg.GapX
		for _, c := range kids {
			span += e.subtreeWidth(c) + e.cfg.GapX
		}
		w = math.Max(own, span)
	}
	e.widths[id] = w
	return w
}

// gridCell returns the fixed cell size for a wrapped sibling group: the
// widest/tallest child card plus the compact gaps. Measured subtree widths
// are deliberately ignored; the simpler math accepts imprecise packing for
// large fan-out.
func (e *engine) gridCell(kids []string) (cellW, cellH float64) {
	for _, c := range kids {
		d := e.card(c)
		cellW = math.Max(cellW, d.W)
		cellH = math.Max(cellH, d.H)
	}
	return cellW + e.cfg.CompactGapX, cellH + e.cfg.RowGapY
}

// place assigns the node's center position and recurses into its children.
// All children of a node share y = parent.y + GapY; grid rows add a fixed
// row height on top of that. Card height variance leaves vertical slack
// below shorter cards, which is accepted.
func (e *engine) place(id string, centerX, y float64) {
	e.pos[id] = Position{X: centerX, Y: y}

	kids := e.children(id)
	if len(kids) == 0 {
		return
	}

	if e.gridWraps(len(kids)) {
		e.placeGrid(id, kids, centerX, y)
		return
	}

	span := -e.cfg.GapX
	for _, c := range kids {
		span += e.subtreeWidth(c) + e.cfg.GapX
	}

	cursor := centerX - span/2
	if !e.cfg.CenterParents {
		cursor = centerX - e.card(id).W/2
	}
	for _, c := range kids {
		cw := e.subtreeWidth(c)
		e.place(c, cursor+cw/2, y+e.cfg.GapY)
		cursor += cw + e.cfg.GapX
	}
}

// placeGrid tiles children into rows of up to MaxSiblingsPerRow cells. Full
// rows are centered under the parent; a partially filled last row is
// centered among the same column slots rather than left-aligned.
func (e *engine) placeGrid(id string, kids []string, centerX, y float64) {
	cols := e.cfg.MaxSiblingsPerRow
	cellW, cellH := e.gridCell(kids)
	fullSpan := float64(cols) * cellW
	startX := centerX - fullSpan/2 + cellW/2

	for i, c := range kids {
		row, col := i/cols, i%cols
		cx := startX + float64(col)*cellW
		if inRow := len(kids) - row*cols; inRow < cols {
			cx += float64(cols-inRow) * cellW / 2
		}
		cy := y + e.cfg.GapY + float64(row)*cellH
		e.place(c, cx, cy)
	}
}
