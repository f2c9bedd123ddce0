package chartsvg

import (
	"fmt"

	"github.com/campusgrid/orgcanvas/pkg/org"
	"github.com/campusgrid/orgcanvas/pkg/tree"
)

// KindStyle holds the display configuration for one node kind. The kind tag
// set is closed, so a lookup table replaces any string-keyed dispatch.
type KindStyle struct {
	Title  string // card header, e.g. "School"
	Fill   string // card background
	Accent string // header strip and connector color
	Icon   string // single glyph shown next to the title
}

// kindStyles maps every node kind to its display configuration.
var kindStyles = map[tree.Kind]KindStyle{
	tree.KindCompany: {Title: "Company", Fill: "#eef2ff", Accent: "#4338ca", Icon: "◆"},
	tree.KindSchool:  {Title: "School", Fill: "#ecfdf5", Accent: "#047857", Icon: "▣"},
	tree.KindBranch:  {Title: "Branch", Fill: "#fffbeb", Accent: "#b45309", Icon: "▤"},
	tree.KindGrade:   {Title: "Grade Level", Fill: "#eff6ff", Accent: "#1d4ed8", Icon: "▥"},
	tree.KindSection: {Title: "Class Section", Fill: "#fdf2f8", Accent: "#be185d", Icon: "▦"},
}

// styleFor returns the style for a kind, defaulting to the section style for
// anything unknown.
func styleFor(k tree.Kind) KindStyle {
	if s, ok := kindStyles[k]; ok {
		return s
	}
	return kindStyles[tree.KindSection]
}

// statusColors maps record statuses to badge colors.
var statusColors = map[string]string{
	org.StatusActive:   "#16a34a",
	org.StatusInactive: "#9ca3af",
	org.StatusArchived: "#dc2626",
}

// subtitle extracts a one-line detail string from the node's record.
func subtitle(n *tree.Node) string {
	switch r := n.Record.(type) {
	case org.School:
		if r.Manager != "" {
			return r.Manager
		}
		if r.StudentCount > 0 {
			return fmt.Sprintf("%d students", r.StudentCount)
		}
	case org.Branch:
		if r.Manager != "" {
			return r.Manager
		}
		if r.Capacity > 0 {
			return fmt.Sprintf("%d / %d students", r.StudentCount, r.Capacity)
		}
	case org.GradeLevel:
		if r.Coordinator != "" {
			return r.Coordinator
		}
	case org.ClassSection:
		if r.Teacher != "" {
			return r.Teacher
		}
		if r.Capacity > 0 {
			return fmt.Sprintf("%d / %d students", r.StudentCount, r.Capacity)
		}
	}
	return ""
}
