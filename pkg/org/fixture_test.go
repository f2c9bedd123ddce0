package org

import (
	"strings"
	"testing"
)

const fixtureYAML = `
id: co
name: Acme Schools
schools:
  - id: s1
    name: North
    branches:
      - id: b1
        name: Main
        grade_levels:
          - id: g1
            name: Grade 7
            sections:
              - id: c1
                name: 7-A
  - id: s2
    name: Elm
    status: inactive
`

func TestReadFixtureDefaults(t *testing.T) {
	c, err := ReadFixture(strings.NewReader(fixtureYAML))
	if err != nil {
		t.Fatalf("ReadFixture: %v", err)
	}

	if c.Status != StatusActive {
		t.Errorf("company status = %q, want active default", c.Status)
	}
	if got := c.Schools[1].Status; got != StatusInactive {
		t.Errorf("explicit status overwritten: %q", got)
	}

	// Parent references are filled in from nesting.
	s := c.Schools[0]
	if s.CompanyID != "co" {
		t.Errorf("school company_id = %q, want co", s.CompanyID)
	}
	b := s.Branches[0]
	if b.SchoolID != "s1" || b.Status != StatusActive {
		t.Errorf("branch defaults: school_id=%q status=%q", b.SchoolID, b.Status)
	}
	g := b.GradeLevels[0]
	if g.BranchID != "b1" {
		t.Errorf("grade branch_id = %q, want b1", g.BranchID)
	}
	if sec := g.Sections[0]; sec.GradeLevelID != "g1" || sec.Status != StatusActive {
		t.Errorf("section defaults: grade_level_id=%q status=%q", sec.GradeLevelID, sec.Status)
	}
}

func TestReadFixtureBadYAML(t *testing.T) {
	if _, err := ReadFixture(strings.NewReader(": not yaml")); err == nil {
		t.Error("malformed YAML should error")
	}
}

func TestValidateBranch(t *testing.T) {
	tests := []struct {
		name    string
		branch  Branch
		wantErr string
	}{
		{"valid", Branch{Name: "Main", SchoolID: "s1"}, ""},
		{"missing name", Branch{Name: "  ", SchoolID: "s1"}, "name is required"},
		{"missing school", Branch{Name: "Main"}, "must reference a school"},
		{"bad status", Branch{Name: "Main", SchoolID: "s1", Status: "paused"}, "invalid status"},
		{"negative capacity", Branch{Name: "Main", SchoolID: "s1", Capacity: -1}, "capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBranch(tt.branch)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateBranch = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateBranch = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
