// Package org defines the organizational entity records for the school
// platform: a company owns schools, schools own branches, branches own grade
// levels, and grade levels own class sections.
//
// Records are plain JSON/BSON-shaped structs. They carry no behavior beyond
// status checks; the layout engine treats them as opaque payloads.
package org

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Status values for organizational records.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

// ValidStatuses is the set of accepted record statuses.
var ValidStatuses = map[string]bool{
	StatusActive:   true,
	StatusInactive: true,
	StatusArchived: true,
}

// Company is the root of an organization. Each tenant has exactly one.
type Company struct {
	ID      string   `json:"id" bson:"_id" yaml:"id"`
	Name    string   `json:"name" bson:"name" yaml:"name"`
	Code    string   `json:"code,omitempty" bson:"code,omitempty" yaml:"code"`
	Status  string   `json:"status" bson:"status" yaml:"status"`
	Schools []School `json:"schools,omitempty" bson:"schools,omitempty" yaml:"schools"`
}

// School is a direct child of the company.
type School struct {
	ID           string   `json:"id" bson:"_id" yaml:"id"`
	CompanyID    string   `json:"company_id" bson:"company_id" yaml:"company_id"`
	Name         string   `json:"name" bson:"name" yaml:"name"`
	Code         string   `json:"code,omitempty" bson:"code,omitempty" yaml:"code"`
	Status       string   `json:"status" bson:"status" yaml:"status"`
	Manager      string   `json:"manager,omitempty" bson:"manager,omitempty" yaml:"manager"`
	StudentCount int      `json:"student_count,omitempty" bson:"student_count,omitempty" yaml:"student_count"`
	Branches     []Branch `json:"branches,omitempty" bson:"branches,omitempty" yaml:"branches"`
}

// Branch is a physical location belonging to a school. Branches are the unit
// of CRUD on the admin screens.
type Branch struct {
	ID           string       `json:"id" bson:"_id" yaml:"id"`
	SchoolID     string       `json:"school_id" bson:"school_id" yaml:"school_id"`
	Name         string       `json:"name" bson:"name" yaml:"name"`
	Code         string       `json:"code,omitempty" bson:"code,omitempty" yaml:"code"`
	Status       string       `json:"status" bson:"status" yaml:"status"`
	Address      string       `json:"address,omitempty" bson:"address,omitempty" yaml:"address"`
	Manager      string       `json:"manager,omitempty" bson:"manager,omitempty" yaml:"manager"`
	Capacity     int          `json:"capacity,omitempty" bson:"capacity,omitempty" yaml:"capacity"`
	StudentCount int          `json:"student_count,omitempty" bson:"student_count,omitempty" yaml:"student_count"`
	TeacherCount int          `json:"teacher_count,omitempty" bson:"teacher_count,omitempty" yaml:"teacher_count"`
	GradeLevels  []GradeLevel `json:"grade_levels,omitempty" bson:"grade_levels,omitempty" yaml:"grade_levels"`
}

// GradeLevel is an academic year within a branch (e.g. "Grade 7").
type GradeLevel struct {
	ID          string         `json:"id" bson:"_id" yaml:"id"`
	BranchID    string         `json:"branch_id" bson:"branch_id" yaml:"branch_id"`
	Name        string         `json:"name" bson:"name" yaml:"name"`
	Code        string         `json:"code,omitempty" bson:"code,omitempty" yaml:"code"`
	Status      string         `json:"status" bson:"status" yaml:"status"`
	Coordinator string         `json:"coordinator,omitempty" bson:"coordinator,omitempty" yaml:"coordinator"`
	Sections    []ClassSection `json:"sections,omitempty" bson:"sections,omitempty" yaml:"sections"`
}

// ClassSection is a single class within a grade level (e.g. "7-B").
type ClassSection struct {
	ID           string `json:"id" bson:"_id" yaml:"id"`
	GradeLevelID string `json:"grade_level_id" bson:"grade_level_id" yaml:"grade_level_id"`
	Name         string `json:"name" bson:"name" yaml:"name"`
	Code         string `json:"code,omitempty" bson:"code,omitempty" yaml:"code"`
	Status       string `json:"status" bson:"status" yaml:"status"`
	Teacher      string `json:"teacher,omitempty" bson:"teacher,omitempty" yaml:"teacher"`
	Capacity     int    `json:"capacity,omitempty" bson:"capacity,omitempty" yaml:"capacity"`
	StudentCount int    `json:"student_count,omitempty" bson:"student_count,omitempty" yaml:"student_count"`
}

// IsActive reports whether a school should appear when inactive records are
// filtered out of the tree.
func (s School) IsActive() bool { return s.Status == StatusActive }

// NewID returns a fresh record identifier.
func NewID() string { return uuid.NewString() }

// ValidateBranch checks the fields an admin can submit through the branch
// form. Returns a descriptive error for the first problem found.
func ValidateBranch(b Branch) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("branch name is required")
	}
	if b.SchoolID == "" {
		return fmt.Errorf("branch must reference a school")
	}
	if b.Status != "" && !ValidStatuses[b.Status] {
		return fmt.Errorf("invalid status: %q (must be one of: active, inactive, archived)", b.Status)
	}
	if b.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative")
	}
	return nil
}
