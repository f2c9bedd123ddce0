package chart

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/campusgrid/orgcanvas/pkg/authz"
	"github.com/campusgrid/orgcanvas/pkg/cache"
	"github.com/campusgrid/orgcanvas/pkg/errors"
	"github.com/campusgrid/orgcanvas/pkg/org"
	"github.com/campusgrid/orgcanvas/pkg/store"
	"github.com/campusgrid/orgcanvas/pkg/tree"
)

// mapCache is an in-process cache.Cache for tests. TTLs are ignored.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *mapCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

var _ cache.Cache = (*mapCache)(nil)

// denyAll refuses every request.
type denyAll struct{}

func (denyAll) CanViewTab(ctx context.Context, subject, tab string) bool { return false }
func (denyAll) Can(ctx context.Context, subject, action string) bool     { return false }
func (denyAll) ScopeFilters(ctx context.Context, subject, tab string) (authz.Filters, error) {
	return authz.Filters{}, nil
}

// scopedAuthz grants everything but restricts records.
type scopedAuthz struct{ filters authz.Filters }

func (scopedAuthz) CanViewTab(ctx context.Context, subject, tab string) bool { return true }
func (scopedAuthz) Can(ctx context.Context, subject, action string) bool     { return true }
func (a scopedAuthz) ScopeFilters(ctx context.Context, subject, tab string) (authz.Filters, error) {
	return a.filters, nil
}

func serviceCompany() org.Company {
	return org.Company{
		ID: "co", Name: "Acme Schools", Status: org.StatusActive,
		Schools: []org.School{
			{
				ID: "s1", Name: "North", Status: org.StatusActive,
				Branches: []org.Branch{
					{
						ID: "b1", SchoolID: "s1", Name: "Main", Status: org.StatusActive,
						GradeLevels: []org.GradeLevel{
							{
								ID: "g1", BranchID: "b1", Name: "Grade 7", Status: org.StatusActive,
								Sections: []org.ClassSection{
									{ID: "c1", GradeLevelID: "g1", Name: "7-A", Status: org.StatusActive},
								},
							},
						},
					},
				},
			},
			{ID: "s2", Name: "Harbor", Status: org.StatusActive},
		},
	}
}

func newTestService(az authz.Service) (*Service, *mapCache) {
	c := newMapCache()
	st := store.NewMemoryFromCompany(serviceCompany())
	return NewService(st, az, c, nil, log.New(io.Discard)), c
}

func TestExecutePipeline(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	opts := Options{
		CompanyID: "co",
		ExpandAll: true,
		Formats:   []string{"svg", "dot", "json"},
	}
	result, err := svc.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// company + 2 schools + 1 branch + 1 grade + 1 section
	if result.Stats.NodeCount != 6 {
		t.Errorf("node count = %d, want 6", result.Stats.NodeCount)
	}
	if result.TreeHash == "" {
		t.Error("tree hash missing")
	}
	if !bytes.HasPrefix(result.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact missing or malformed")
	}
	if !bytes.HasPrefix(result.Artifacts["dot"], []byte("digraph org")) {
		t.Error("dot artifact missing or malformed")
	}
	if !bytes.Contains(result.Artifacts["json"], []byte(`"nodes"`)) {
		t.Error("json artifact missing the node map")
	}
	if len(result.Layout.Positions) != 6 {
		t.Errorf("layout placed %d cards, want 6", len(result.Layout.Positions))
	}
	if result.CacheInfo.TreeHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", result.CacheInfo)
	}

	// The second identical run is served entirely from cache.
	again, err := svc.Execute(ctx, Options{
		CompanyID: "co",
		ExpandAll: true,
		Formats:   []string{"svg", "dot", "json"},
	})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.TreeHit || !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", again.CacheInfo)
	}
	if !bytes.Equal(result.Artifacts["svg"], again.Artifacts["svg"]) {
		t.Error("cached svg differs from the rendered one")
	}
}

func TestBuildTreeLazyExpansion(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	// Nothing expanded: only the company and its schools are assembled.
	nodes, err := svc.BuildTree(ctx, Options{CompanyID: "co"})
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if len(nodes) != 3 {
		t.Errorf("collapsed tree has %d nodes, want 3", len(nodes))
	}

	// Expanding a school pulls in its branches, but not deeper levels.
	nodes, err = svc.BuildTree(ctx, Options{CompanyID: "co", Expanded: []string{"school-s1"}})
	if err != nil {
		t.Fatalf("BuildTree expanded: %v", err)
	}
	if _, ok := nodes["branch-b1"]; !ok {
		t.Error("expanded school's branch missing")
	}
	if _, ok := nodes["grade-g1"]; ok {
		t.Error("grades should stay unloaded behind a collapsed branch")
	}

	// Stale expansion keys are ignored.
	if _, err := svc.BuildTree(ctx, Options{CompanyID: "co", Expanded: []string{"school-gone", "bogus"}}); err != nil {
		t.Errorf("stale expansion keys should not error: %v", err)
	}
}

func TestBuildTreeCompanyNotFound(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.BuildTree(context.Background(), Options{CompanyID: "nope"})
	if !errors.Is(err, errors.ErrCodeCompanyNotFound) {
		t.Errorf("err = %v, want COMPANY_NOT_FOUND", err)
	}
}

func TestBuildTreeForbidden(t *testing.T) {
	svc, _ := newTestService(denyAll{})
	_, err := svc.BuildTree(context.Background(), Options{CompanyID: "co", Subject: "mallory"})
	if !errors.Is(err, errors.ErrCodeForbidden) {
		t.Errorf("err = %v, want FORBIDDEN", err)
	}
}

func TestBuildTreeScopeFilter(t *testing.T) {
	svc, _ := newTestService(scopedAuthz{filters: authz.Filters{SchoolIDs: []string{"s1"}}})
	nodes, err := svc.BuildTree(context.Background(), Options{CompanyID: "co", Subject: "scoped", ExpandAll: true})
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if _, ok := nodes["school-s2"]; ok {
		t.Error("out-of-scope school should be filtered")
	}
	if _, ok := nodes["school-s1"]; !ok {
		t.Error("in-scope school missing")
	}
	if got := len(nodes.Root().Children); got != 1 {
		t.Errorf("root children = %d, want 1", got)
	}
}

func TestChildrenOf(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	v, err := svc.ChildrenOf(ctx, "", "school-s1")
	if err != nil {
		t.Fatalf("ChildrenOf(school): %v", err)
	}
	if branches, ok := v.([]org.Branch); !ok || len(branches) != 1 || branches[0].ID != "b1" {
		t.Errorf("school children = %#v", v)
	}

	if _, err := svc.ChildrenOf(ctx, "", "section-c1"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("leaf children err = %v, want UNSUPPORTED", err)
	}
	if _, err := svc.ChildrenOf(ctx, "", "not-a-node-"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("malformed node err = %v, want INVALID_INPUT", err)
	}
}

func TestChildrenOfScope(t *testing.T) {
	svc, _ := newTestService(scopedAuthz{filters: authz.Filters{SchoolIDs: []string{"s2"}}})
	if _, err := svc.ChildrenOf(context.Background(), "scoped", "school-s1"); !errors.Is(err, errors.ErrCodeForbidden) {
		t.Errorf("out-of-scope school err = %v, want FORBIDDEN", err)
	}
}

func TestBranchMutations(t *testing.T) {
	svc, c := newTestService(nil)
	ctx := context.Background()

	created, err := svc.CreateBranch(ctx, "", "co", org.Branch{SchoolID: "s2", Name: "Harbor Main"})
	if err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if created.ID == "" {
		t.Error("created branch has no ID")
	}
	if got := string(c.entries["orgver:co"]); got != "1" {
		t.Errorf("version after create = %q, want 1", got)
	}

	created.Name = "Harbor Waterfront"
	if _, err := svc.UpdateBranch(ctx, "", "co", *created); err != nil {
		t.Fatalf("UpdateBranch: %v", err)
	}
	if got := string(c.entries["orgver:co"]); got != "2" {
		t.Errorf("version after update = %q, want 2", got)
	}

	if _, err := svc.UpdateBranch(ctx, "", "co", org.Branch{ID: "ghost", SchoolID: "s1", Name: "x"}); !errors.Is(err, errors.ErrCodeBranchNotFound) {
		t.Errorf("update missing err = %v, want BRANCH_NOT_FOUND", err)
	}
	if _, err := svc.CreateBranch(ctx, "", "co", org.Branch{SchoolID: "s1"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nameless branch err = %v, want INVALID_INPUT", err)
	}

	if err := svc.DeleteBranch(ctx, "", "co", created.ID); err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}
	if err := svc.DeleteBranch(ctx, "", "co", created.ID); !errors.Is(err, errors.ErrCodeBranchNotFound) {
		t.Errorf("double delete err = %v, want BRANCH_NOT_FOUND", err)
	}
}

func TestBranchMutationsForbidden(t *testing.T) {
	svc, _ := newTestService(denyAll{})
	ctx := context.Background()
	if _, err := svc.CreateBranch(ctx, "mallory", "co", org.Branch{SchoolID: "s1", Name: "x"}); !errors.Is(err, errors.ErrCodeForbidden) {
		t.Errorf("create err = %v, want FORBIDDEN", err)
	}
	if err := svc.DeleteBranch(ctx, "mallory", "co", "b1"); !errors.Is(err, errors.ErrCodeForbidden) {
		t.Errorf("delete err = %v, want FORBIDDEN", err)
	}
}

func TestMutationInvalidatesTree(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	opts := Options{CompanyID: "co", ExpandAll: true}

	if _, err := svc.BuildTree(ctx, opts); err != nil {
		t.Fatalf("warm BuildTree: %v", err)
	}
	_, hit, err := svc.BuildTreeWithCacheInfo(ctx, opts)
	if err != nil || !hit {
		t.Fatalf("second fetch should hit: hit=%v err=%v", hit, err)
	}

	if _, err := svc.CreateBranch(ctx, "", "co", org.Branch{SchoolID: "s2", Name: "New"}); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	nodes, hit, err := svc.BuildTreeWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatalf("post-mutation fetch: %v", err)
	}
	if hit {
		t.Error("version bump should force a fresh fetch")
	}
	if got := nodes.Count(tree.KindBranch); got != 2 {
		t.Errorf("branch count = %d, want 2 after create", got)
	}
}
