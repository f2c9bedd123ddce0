package authz

import (
	"context"
	"testing"
)

func TestFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		school  string
		want    bool
	}{
		{"nil list allows everything", Filters{}, "s1", true},
		{"listed id allowed", Filters{SchoolIDs: []string{"s1", "s2"}}, "s2", true},
		{"unlisted id denied", Filters{SchoolIDs: []string{"s1"}}, "s9", false},
		{"empty non-nil list denies everything", Filters{SchoolIDs: []string{}}, "s1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.AllowsSchool(tt.school); got != tt.want {
				t.Errorf("AllowsSchool(%s) = %v, want %v", tt.school, got, tt.want)
			}
		})
	}

	f := Filters{BranchIDs: []string{"b1"}}
	if !f.AllowsBranch("b1") || f.AllowsBranch("b2") {
		t.Error("branch filter misbehaves")
	}
	if !f.AllowsSchool("s1") {
		t.Error("school list nil: any school passes")
	}
}

func TestAllowAll(t *testing.T) {
	ctx := context.Background()
	var a AllowAll
	if !a.CanViewTab(ctx, "anyone", TabBranches) || !a.Can(ctx, "anyone", ActionBranchDelete) {
		t.Error("AllowAll should grant everything")
	}
	f, err := a.ScopeFilters(ctx, "anyone", TabBranches)
	if err != nil || f.SchoolIDs != nil || f.BranchIDs != nil {
		t.Errorf("AllowAll filters = %+v, %v, want unrestricted", f, err)
	}
}

func TestStaticScopes(t *testing.T) {
	s := StaticScopes{
		"alice": {TabBranches: {SchoolIDs: []string{"s1"}}},
	}
	if f, ok := s.Lookup(context.Background(), "alice", TabBranches); !ok || len(f.SchoolIDs) != 1 {
		t.Errorf("Lookup(alice) = %+v, %v", f, ok)
	}
	if _, ok := s.Lookup(context.Background(), "alice", TabStudents); ok {
		t.Error("unknown tab should report no entry")
	}
	if _, ok := s.Lookup(context.Background(), "bob", TabBranches); ok {
		t.Error("unknown subject should report no entry")
	}
}
