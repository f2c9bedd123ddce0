package store

import (
	"context"
	"sync"

	"github.com/campusgrid/orgcanvas/pkg/org"
)

// Memory is an in-memory Store for tests and CLI fixture rendering.
// It is safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	companies map[string]org.Company // schools embedded, branches stripped
	branches  map[string]org.Branch  // grade levels stripped
	grades    map[string]org.GradeLevel
	sections  map[string]org.ClassSection

	// display order per parent
	branchOrder  map[string][]string // schoolID -> branch IDs
	gradeOrder   map[string][]string // branchID -> grade IDs
	sectionOrder map[string][]string // gradeID -> section IDs
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		companies:    make(map[string]org.Company),
		branches:     make(map[string]org.Branch),
		grades:       make(map[string]org.GradeLevel),
		sections:     make(map[string]org.ClassSection),
		branchOrder:  make(map[string][]string),
		gradeOrder:   make(map[string][]string),
		sectionOrder: make(map[string][]string),
	}
}

// NewMemoryFromCompany seeds a store from a fully nested company record,
// flattening the embedded children into the per-level tables.
func NewMemoryFromCompany(c org.Company) *Memory {
	m := NewMemory()
	m.Seed(c)
	return m
}

// Seed loads a nested company record into the store.
func (m *Memory) Seed(c org.Company) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range c.Schools {
		for _, b := range s.Branches {
			for _, g := range b.GradeLevels {
				for _, sec := range g.Sections {
					m.sections[sec.ID] = sec
					m.sectionOrder[g.ID] = append(m.sectionOrder[g.ID], sec.ID)
				}
				g.Sections = nil
				m.grades[g.ID] = g
				m.gradeOrder[b.ID] = append(m.gradeOrder[b.ID], g.ID)
			}
			b.GradeLevels = nil
			m.branches[b.ID] = b
			m.branchOrder[s.ID] = append(m.branchOrder[s.ID], b.ID)
		}
	}
	// Keep schools embedded but strip their branch lists; branches load
	// through BranchesOf like the real backend.
	for i := range c.Schools {
		c.Schools[i].Branches = nil
	}
	m.companies[c.ID] = c
}

// Company returns the company with schools embedded.
func (m *Memory) Company(ctx context.Context, companyID string) (*org.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.companies[companyID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := c
	cp.Schools = append([]org.School(nil), c.Schools...)
	return &cp, nil
}

// BranchesOf lists a school's branches in insertion order.
func (m *Memory) BranchesOf(ctx context.Context, schoolID string) ([]org.Branch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.branchOrder[schoolID]
	out := make([]org.Branch, 0, len(ids))
	for _, id := range ids {
		if b, ok := m.branches[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// GradeLevelsOf lists a branch's grade levels in insertion order.
func (m *Memory) GradeLevelsOf(ctx context.Context, branchID string) ([]org.GradeLevel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.gradeOrder[branchID]
	out := make([]org.GradeLevel, 0, len(ids))
	for _, id := range ids {
		if g, ok := m.grades[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// SectionsOf lists a grade level's sections in insertion order.
func (m *Memory) SectionsOf(ctx context.Context, gradeID string) ([]org.ClassSection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.sectionOrder[gradeID]
	out := make([]org.ClassSection, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.sections[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Branch returns a single branch.
func (m *Memory) Branch(ctx context.Context, branchID string) (*org.Branch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.branches[branchID]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

// CreateBranch inserts a branch, assigning an ID when empty.
func (m *Memory) CreateBranch(ctx context.Context, b org.Branch) (*org.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = org.NewID()
	}
	if b.Status == "" {
		b.Status = org.StatusActive
	}
	m.branches[b.ID] = b
	m.branchOrder[b.SchoolID] = append(m.branchOrder[b.SchoolID], b.ID)
	return &b, nil
}

// UpdateBranch replaces an existing branch.
func (m *Memory) UpdateBranch(ctx context.Context, b org.Branch) (*org.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.branches[b.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if b.SchoolID == "" {
		b.SchoolID = old.SchoolID
	}
	m.branches[b.ID] = b
	return &b, nil
}

// DeleteBranch removes a branch and its grade levels and sections.
func (m *Memory) DeleteBranch(ctx context.Context, branchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.branches[branchID]
	if !ok {
		return ErrNotFound
	}
	for _, gid := range m.gradeOrder[branchID] {
		for _, sid := range m.sectionOrder[gid] {
			delete(m.sections, sid)
		}
		delete(m.sectionOrder, gid)
		delete(m.grades, gid)
	}
	delete(m.gradeOrder, branchID)
	delete(m.branches, branchID)

	ids := m.branchOrder[b.SchoolID]
	for i, id := range ids {
		if id == branchID {
			m.branchOrder[b.SchoolID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Close does nothing for the in-memory store.
func (m *Memory) Close(ctx context.Context) error { return nil }

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
