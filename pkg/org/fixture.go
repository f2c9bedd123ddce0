package org

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadFixtureFile reads a full company tree from a YAML file. Used by the CLI
// render/view commands and by tests that need a realistic organization
// without a live store.
func ReadFixtureFile(path string) (*Company, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadFixture(f)
}

// ReadFixture decodes a company tree from YAML.
// Records without an explicit status default to active; records without an
// ID are left empty and skipped later by the tree normalizer.
func ReadFixture(r io.Reader) (*Company, error) {
	var c Company
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	applyFixtureDefaults(&c)
	return &c, nil
}

func applyFixtureDefaults(c *Company) {
	if c.Status == "" {
		c.Status = StatusActive
	}
	for i := range c.Schools {
		s := &c.Schools[i]
		if s.Status == "" {
			s.Status = StatusActive
		}
		if s.CompanyID == "" {
			s.CompanyID = c.ID
		}
		for j := range s.Branches {
			b := &s.Branches[j]
			if b.Status == "" {
				b.Status = StatusActive
			}
			if b.SchoolID == "" {
				b.SchoolID = s.ID
			}
			for k := range b.GradeLevels {
				g := &b.GradeLevels[k]
				if g.Status == "" {
					g.Status = StatusActive
				}
				if g.BranchID == "" {
					g.BranchID = b.ID
				}
				for l := range g.Sections {
					sec := &g.Sections[l]
					if sec.Status == "" {
						sec.Status = StatusActive
					}
					if sec.GradeLevelID == "" {
						sec.GradeLevelID = g.ID
					}
				}
			}
		}
	}
}
