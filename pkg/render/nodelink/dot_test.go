package nodelink

import (
	"strings"
	"testing"

	"github.com/campusgrid/orgcanvas/pkg/org"
	"github.com/campusgrid/orgcanvas/pkg/tree"
)

func dotTree() tree.Map {
	return tree.Map{
		"company-co": {
			ID: "company-co", Kind: tree.KindCompany, Label: "Acme Schools",
			Status: org.StatusActive, Children: []string{"school-s1", "school-s2"},
		},
		"school-s1": {
			ID: "school-s1", Kind: tree.KindSchool, ParentID: "company-co",
			Label: "North", Status: org.StatusActive,
		},
		"school-s2": {
			ID: "school-s2", Kind: tree.KindSchool, ParentID: "company-co",
			Label: "Harbor", Status: org.StatusInactive,
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(dotTree(), Options{})

	if !strings.HasPrefix(dot, "digraph org {\n") || !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT output not wrapped in a digraph block")
	}
	for _, want := range []string{
		`"company-co" [label="Acme Schools", fillcolor=lavender];`,
		`"school-s1" [label="North", fillcolor=honeydew];`,
		`"company-co" -> "school-s1";`,
		`"company-co" -> "school-s2";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestToDOTDeterministic(t *testing.T) {
	m := dotTree()
	if a, b := ToDOT(m, Options{}), ToDOT(m, Options{}); a != b {
		t.Error("identical inputs produced different DOT output")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(dotTree(), Options{Detailed: true})
	if !strings.Contains(dot, `[label="Harbor\nschool · inactive", fillcolor=honeydew];`) {
		t.Error("detailed label missing kind and status line")
	}
}

func TestToDOTSkipsDanglingEdges(t *testing.T) {
	m := dotTree()
	m["company-co"].Children = append(m["company-co"].Children, "school-ghost")
	dot := ToDOT(m, Options{})
	if strings.Contains(dot, "school-ghost") {
		t.Error("edge to a missing node should be dropped")
	}
}
