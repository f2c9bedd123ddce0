// Package store defines the backend data boundary for organizational
// entities. The chart service and HTTP handlers consume plain records
// through the [Store] interface; production uses MongoDB, tests and the CLI
// use the in-memory implementation seeded from a fixture.
package store

import (
	"context"
	"errors"

	"github.com/campusgrid/orgcanvas/pkg/org"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store provides read access to the organization tree and CRUD on branches
// (the unit of editing on the admin screens). The children-of queries back
// the tree's lazy loading: grade levels and sections are fetched only when a
// parent node is expanded.
type Store interface {
	// Company returns the company with its schools embedded. Branches and
	// deeper levels are loaded on demand through the *Of queries.
	Company(ctx context.Context, companyID string) (*org.Company, error)

	// BranchesOf lists a school's branches in display order.
	BranchesOf(ctx context.Context, schoolID string) ([]org.Branch, error)

	// GradeLevelsOf lists a branch's grade levels in display order.
	GradeLevelsOf(ctx context.Context, branchID string) ([]org.GradeLevel, error)

	// SectionsOf lists a grade level's class sections in display order.
	SectionsOf(ctx context.Context, gradeID string) ([]org.ClassSection, error)

	// Branch returns a single branch.
	Branch(ctx context.Context, branchID string) (*org.Branch, error)

	// CreateBranch inserts a branch, assigning an ID when empty.
	CreateBranch(ctx context.Context, b org.Branch) (*org.Branch, error)

	// UpdateBranch replaces an existing branch.
	UpdateBranch(ctx context.Context, b org.Branch) (*org.Branch, error)

	// DeleteBranch removes a branch and everything beneath it.
	DeleteBranch(ctx context.Context, branchID string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
