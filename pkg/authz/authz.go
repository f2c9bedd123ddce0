// Package authz is the access-control boundary for the admin screens.
//
// The rest of the codebase consumes three capabilities: whether a subject may
// view a tab, whether it may perform an action, and which scope filters
// (school/branch ID lists) restrict the records it may see. Decisions are
// owned by this package's backing policy engine; everything downstream
// treats a missing or falsy answer as deny.
package authz

import "context"

// Tab names used by the admin screens.
const (
	TabOrgStructure = "org-structure"
	TabBranches     = "branches"
	TabStudents     = "students"
)

// Actions checked by the branch CRUD handlers.
const (
	ActionBranchCreate = "branches.create"
	ActionBranchUpdate = "branches.update"
	ActionBranchDelete = "branches.delete"
)

// Filters restrict which records a subject may fetch or see. A nil slice
// places no restriction on that level; an empty non-nil slice matches
// nothing.
type Filters struct {
	SchoolIDs []string `json:"school_ids,omitempty" toml:"school_ids"`
	BranchIDs []string `json:"branch_ids,omitempty" toml:"branch_ids"`
}

// AllowsSchool reports whether a school passes the filter.
func (f Filters) AllowsSchool(id string) bool {
	return allows(f.SchoolIDs, id)
}

// AllowsBranch reports whether a branch passes the filter.
func (f Filters) AllowsBranch(id string) bool {
	return allows(f.BranchIDs, id)
}

func allows(ids []string, id string) bool {
	if ids == nil {
		return true
	}
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Service answers authorization questions for a subject (user or role
// identifier). Implementations must fail closed: any error or unknown
// subject is a deny.
type Service interface {
	// CanViewTab reports whether the subject may open the named tab.
	CanViewTab(ctx context.Context, subject, tab string) bool

	// Can reports whether the subject may perform the named action.
	Can(ctx context.Context, subject, action string) bool

	// ScopeFilters returns the record restrictions for the subject on a
	// tab. Callers must still check CanViewTab; unrestricted filters do
	// not imply view access.
	ScopeFilters(ctx context.Context, subject, tab string) (Filters, error)
}

// AllowAll grants everything with no restrictions. For local development
// and tests only.
type AllowAll struct{}

// CanViewTab always returns true.
func (AllowAll) CanViewTab(ctx context.Context, subject, tab string) bool { return true }

// Can always returns true.
func (AllowAll) Can(ctx context.Context, subject, action string) bool { return true }

// ScopeFilters returns unrestricted filters.
func (AllowAll) ScopeFilters(ctx context.Context, subject, tab string) (Filters, error) {
	return Filters{}, nil
}

// Ensure AllowAll implements Service.
var _ Service = AllowAll{}
