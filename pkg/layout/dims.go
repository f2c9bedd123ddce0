package layout

import "github.com/campusgrid/orgcanvas/pkg/tree"

// Dimensions is the rendered size of a node card in pixels.
type Dimensions struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// defaultDims holds the type-based estimates used before real card sizes are
// known. Measured values overwrite these once the corresponding element has
// rendered (see pkg/view).
var defaultDims = map[tree.Kind]Dimensions{
	tree.KindCompany: {W: 320, H: 160},
	tree.KindSchool:  {W: 300, H: 150},
	tree.KindBranch:  {W: 280, H: 140},
	tree.KindGrade:   {W: 260, H: 120},
	tree.KindSection: {W: 240, H: 100},
}

// DefaultDimensions returns the estimate for a node kind. Unknown kinds get
// the section (smallest) size.
func DefaultDimensions(k tree.Kind) Dimensions {
	if d, ok := defaultDims[k]; ok {
		return d
	}
	return defaultDims[tree.KindSection]
}

// EstimateDimensions builds a dimension map for every node in the tree using
// the kind defaults. This is the input to the first layout pass of the
// estimate → measure → re-layout cycle.
func EstimateDimensions(nodes tree.Map) map[string]Dimensions {
	dims := make(map[string]Dimensions, len(nodes))
	for id, n := range nodes {
		dims[id] = DefaultDimensions(n.Kind)
	}
	return dims
}

// Refine overlays measured sizes on top of a base dimension map. Nodes
// without a measurement (not yet mounted, collapsed) keep their base value.
// Neither input is mutated.
func Refine(base, measured map[string]Dimensions) map[string]Dimensions {
	out := make(map[string]Dimensions, len(base))
	for id, d := range base {
		out[id] = d
	}
	for id, d := range measured {
		if d.W > 0 && d.H > 0 {
			out[id] = d
		}
	}
	return out
}
