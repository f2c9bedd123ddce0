// Package render turns layout results into visual outputs.
//
// The [chartsvg] subpackage draws the org chart itself: one card per node
// plus a smooth connector from each parent to each child. The [nodelink]
// subpackage exports the same tree as a Graphviz node-link diagram.
//
// This package holds the pieces both share: connector path generation and
// SVG-to-PDF/PNG conversion.
package render

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/campusgrid/orgcanvas/pkg/layout"
)

// ConnectorPath returns the SVG path data for a smooth cubic curve from the
// bottom-center of the parent card to the top-center of the child card.
// The curve carries no semantic weight; when the two anchors coincide the
// path is degenerate (zero length) but still valid.
func ConnectorPath(parent, child layout.Position, parentH, childH float64) string {
	x1, y1 := parent.X, parent.Y+parentH/2
	x2, y2 := child.X, child.Y-childH/2

	if x1 == x2 && y1 == y2 {
		return fmt.Sprintf("M %.1f %.1f", x1, y1)
	}

	// Control points sit at the vertical midpoint between the two anchors,
	// giving an S-curve that stays vertical at both card faces.
	midY := (y1 + y2) / 2
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f",
		x1, y1, x1, midY, x2, midY, x2, y2)
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale
// factor. Scale of 2.0 produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
