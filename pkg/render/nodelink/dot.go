// Package nodelink exports the organization tree as a Graphviz node-link
// diagram. It is the quick-inspection counterpart to the full card chart in
// [chartsvg]: nodes appear as labeled boxes connected by arrows, with
// Graphviz handling placement.
package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/campusgrid/orgcanvas/pkg/render"
	"github.com/campusgrid/orgcanvas/pkg/tree"
)

// Options configures node-link export.
type Options struct {
	// Detailed includes kind and status in node labels.
	// When false, only the node label is shown.
	Detailed bool
}

// fillColors gives each kind a distinct Graphviz fill.
var fillColors = map[tree.Kind]string{
	tree.KindCompany: "lavender",
	tree.KindSchool:  "honeydew",
	tree.KindBranch:  "cornsilk",
	tree.KindGrade:   "aliceblue",
	tree.KindSection: "mistyrose",
}

// ToDOT converts a node map to Graphviz DOT format. Nodes are emitted in
// sorted ID order for deterministic output. The resulting DOT string can be
// rendered with [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(nodes tree.Map, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph org {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int { return cmp.Compare(a, b) })

	for _, id := range ids {
		n := nodes[id]
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s];\n",
			n.ID, fmtLabel(n, opts.Detailed), fillColors[n.Kind])
	}

	buf.WriteString("\n")
	for _, id := range ids {
		n := nodes[id]
		for _, c := range n.Children {
			if _, ok := nodes[c]; ok {
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, c)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *tree.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	parts := []string{string(n.Kind)}
	if n.Status != "" {
		parts = append(parts, n.Status)
	}
	return n.Label + "\n" + strings.Join(parts, " · ")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz viewBox so the document origin is
// (0,0) and width/height match the viewBox extent.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image suitable for high-DPI displays.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
