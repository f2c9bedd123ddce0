package tree

import "github.com/campusgrid/orgcanvas/pkg/org"

// LazyChildren holds on-demand-fetched child records keyed by the parent's
// node ID. A present entry (even an empty slice) replaces whatever children
// were embedded in the initial fetch; an absent entry leaves the embedded
// records in place. A parent whose fetch has not resolved yet simply keeps an
// empty children list until the next rebuild.
type LazyChildren struct {
	Branches map[string][]org.Branch       // keyed by school node ID
	Grades   map[string][]org.GradeLevel   // keyed by branch node ID
	Sections map[string][]org.ClassSection // keyed by grade node ID
}

// BuildOptions controls which records enter the tree.
type BuildOptions struct {
	// ShowInactive keeps schools whose status is not active. When false,
	// such schools (and everything beneath them) are dropped from the tree.
	ShowInactive bool
}

// Build constructs the full potential tree for a company: every node that
// could exist given the current data, regardless of expansion or level
// visibility. Filtering happens at render time (see Visible) so that
// expand/collapse never requires rebuilding subtrees.
//
// Malformed records (missing ID) are skipped; a parent with zero children
// gets an empty children list, not an absent node. A nil company yields an
// empty map.
func Build(company *org.Company, lazy LazyChildren, opts BuildOptions) Map {
	m := make(Map)
	if company == nil || company.ID == "" {
		return m
	}

	root := &Node{
		ID:     NodeID(KindCompany, company.ID),
		Kind:   KindCompany,
		Label:  company.Name,
		Status: company.Status,
		Record: *company,
	}
	m[root.ID] = root

	for _, s := range company.Schools {
		if s.ID == "" {
			continue
		}
		if !opts.ShowInactive && !s.IsActive() {
			continue
		}
		sn := &Node{
			ID:       NodeID(KindSchool, s.ID),
			Kind:     KindSchool,
			ParentID: root.ID,
			Label:    s.Name,
			Status:   s.Status,
			Record:   s,
		}
		m[sn.ID] = sn
		root.Children = append(root.Children, sn.ID)

		for _, b := range childBranches(s, sn.ID, lazy) {
			if b.ID == "" {
				continue
			}
			bn := &Node{
				ID:       NodeID(KindBranch, b.ID),
				Kind:     KindBranch,
				ParentID: sn.ID,
				Label:    b.Name,
				Status:   b.Status,
				Record:   b,
			}
			m[bn.ID] = bn
			sn.Children = append(sn.Children, bn.ID)

			for _, g := range childGrades(b, bn.ID, lazy) {
				if g.ID == "" {
					continue
				}
				gn := &Node{
					ID:       NodeID(KindGrade, g.ID),
					Kind:     KindGrade,
					ParentID: bn.ID,
					Label:    g.Name,
					Status:   g.Status,
					Record:   g,
				}
				m[gn.ID] = gn
				bn.Children = append(bn.Children, gn.ID)

				for _, sec := range childSections(g, gn.ID, lazy) {
					if sec.ID == "" {
						continue
					}
					cn := &Node{
						ID:       NodeID(KindSection, sec.ID),
						Kind:     KindSection,
						ParentID: gn.ID,
						Label:    sec.Name,
						Status:   sec.Status,
						Record:   sec,
					}
					m[cn.ID] = cn
					gn.Children = append(gn.Children, cn.ID)
				}
			}
		}
	}

	return m
}

func childBranches(s org.School, nodeID string, lazy LazyChildren) []org.Branch {
	if bs, ok := lazy.Branches[nodeID]; ok {
		return bs
	}
	return s.Branches
}

func childGrades(b org.Branch, nodeID string, lazy LazyChildren) []org.GradeLevel {
	if gs, ok := lazy.Grades[nodeID]; ok {
		return gs
	}
	return b.GradeLevels
}

func childSections(g org.GradeLevel, nodeID string, lazy LazyChildren) []org.ClassSection {
	if ss, ok := lazy.Sections[nodeID]; ok {
		return ss
	}
	return g.Sections
}
