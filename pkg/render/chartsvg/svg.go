// Package chartsvg renders an organization tree layout as an SVG document:
// one rounded card per node, a status badge, and a cubic connector from each
// parent to each of its children.
package chartsvg

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/campusgrid/orgcanvas/pkg/layout"
	"github.com/campusgrid/orgcanvas/pkg/org"
	"github.com/campusgrid/orgcanvas/pkg/render"
	"github.com/campusgrid/orgcanvas/pkg/tree"
)

// Option customizes SVG rendering.
type Option func(*svgRenderer)

type svgRenderer struct {
	dims        map[string]layout.Dimensions
	showBadges  bool
	transparent bool
}

// WithDimensions supplies the per-node card sizes used by the layout pass.
// Nodes without an entry fall back to their kind default.
func WithDimensions(d map[string]layout.Dimensions) Option {
	return func(r *svgRenderer) { r.dims = d }
}

// WithoutBadges disables the status badge on each card.
func WithoutBadges() Option { return func(r *svgRenderer) { r.showBadges = false } }

// WithTransparentBackground omits the white canvas rectangle.
func WithTransparentBackground() Option { return func(r *svgRenderer) { r.transparent = true } }

// RenderSVG draws the rendered portion of the tree. Cards and connectors are
// emitted in sorted node-ID order so identical inputs produce identical
// bytes.
func RenderSVG(nodes tree.Map, res layout.Result, opts ...Option) []byte {
	r := svgRenderer{showBadges: true}
	for _, opt := range opts {
		opt(&r)
	}

	ids := make([]string, 0, len(res.Positions))
	for id := range res.Positions {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int { return cmp.Compare(a, b) })

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		res.Size.Width, res.Size.Height, res.Size.Width, res.Size.Height)

	if !r.transparent {
		fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="#ffffff"/>`+"\n",
			res.Size.Width, res.Size.Height)
	}

	// Connectors go under the cards.
	for _, id := range ids {
		n, ok := nodes[id]
		if !ok {
			continue
		}
		for _, c := range n.Children {
			childPos, ok := res.Positions[c]
			if !ok {
				continue
			}
			child, ok := nodes[c]
			if !ok {
				continue
			}
			path := render.ConnectorPath(res.Positions[id], childPos,
				r.cardDims(n).H, r.cardDims(child).H)
			fmt.Fprintf(&buf, `  <path d="%s" fill="none" stroke="%s" stroke-width="1.5" opacity="0.6"/>`+"\n",
				path, styleFor(n.Kind).Accent)
		}
	}

	for _, id := range ids {
		if n, ok := nodes[id]; ok {
			r.renderCard(&buf, n, res.Positions[id])
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) cardDims(n *tree.Node) layout.Dimensions {
	if d, ok := r.dims[n.ID]; ok && d.W > 0 && d.H > 0 {
		return d
	}
	return layout.DefaultDimensions(n.Kind)
}

func (r *svgRenderer) renderCard(buf *bytes.Buffer, n *tree.Node, pos layout.Position) {
	d := r.cardDims(n)
	s := styleFor(n.Kind)
	left, top := pos.X-d.W/2, pos.Y-d.H/2

	fmt.Fprintf(buf, `  <g id="node-%s">`+"\n", escape(n.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="10" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		left, top, d.W, d.H, s.Fill, s.Accent)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="6" rx="3" fill="%s"/>`+"\n",
		left, top, d.W, s.Accent)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="11" fill="%s" font-family="sans-serif">%s %s</text>`+"\n",
		left+12, top+24, s.Accent, s.Icon, s.Title)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="15" font-weight="bold" fill="#111827" font-family="sans-serif">%s</text>`+"\n",
		left+12, top+46, escape(n.Label))

	if sub := subtitle(n); sub != "" {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="12" fill="#6b7280" font-family="sans-serif">%s</text>`+"\n",
			left+12, top+66, escape(sub))
	}

	if r.showBadges && n.Status != "" {
		color, ok := statusColors[n.Status]
		if !ok {
			color = statusColors[org.StatusInactive]
		}
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>`+"\n",
			left+d.W-16, top+16, color)
	}

	buf.WriteString("  </g>\n")
}

// escape sanitizes text for embedding in SVG.
func escape(s string) string {
	rep := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return rep.Replace(s)
}
