package chart

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/campusgrid/orgcanvas/pkg/authz"
	"github.com/campusgrid/orgcanvas/pkg/cache"
	"github.com/campusgrid/orgcanvas/pkg/errors"
	"github.com/campusgrid/orgcanvas/pkg/layout"
	"github.com/campusgrid/orgcanvas/pkg/observability"
	"github.com/campusgrid/orgcanvas/pkg/org"
	"github.com/campusgrid/orgcanvas/pkg/render"
	"github.com/campusgrid/orgcanvas/pkg/render/chartsvg"
	"github.com/campusgrid/orgcanvas/pkg/render/nodelink"
	"github.com/campusgrid/orgcanvas/pkg/store"
	"github.com/campusgrid/orgcanvas/pkg/tree"
)

// Service encapsulates pipeline execution with caching and access control.
// Both CLI and API use this to avoid duplicating the staging logic.
//
// The Service is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely share one Service with
// different options; concurrent fetches for the same cache key are coalesced.
type Service struct {
	Store  store.Store
	Authz  authz.Service
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	fetch singleflight.Group
}

// NewService creates a service with the given collaborators.
// A nil authz service allows everything, a nil cache disables caching, and a
// nil keyer uses the default keyer.
func NewService(st store.Store, az authz.Service, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Service {
	if az == nil {
		az = authz.AllowAll{}
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		Store:  st,
		Authz:  az,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete fetch → layout → render pipeline with caching.
func (s *Service) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	s.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Fetch
	fetchStart := time.Now()
	observability.Pipeline().OnFetchStart(ctx, opts.CompanyID)
	nodes, treeHit, err := s.BuildTreeWithCacheInfo(ctx, opts)
	observability.Pipeline().OnFetchComplete(ctx, opts.CompanyID, len(nodes), time.Since(fetchStart), err)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Tree = nodes
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.NodeCount = len(nodes)
	result.CacheInfo.TreeHit = treeHit

	if data, err := json.Marshal(nodes); err == nil {
		result.TreeHash = cache.Hash(data)
	}

	s.Logger.Info("assembled tree",
		"company", opts.CompanyID,
		"nodes", len(nodes),
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(nodes))
	res, layoutHit, err := s.ComputeLayoutWithCacheInfo(ctx, nodes, opts)
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	s.Logger.Info("computed layout",
		"cards", len(res.Positions),
		"canvas", fmt.Sprintf("%.0fx%.0f", res.Size.Width, res.Size.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := s.RenderWithCacheInfo(ctx, nodes, res, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	s.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// =============================================================================
// Stage 1: Fetch
// =============================================================================

// treePayload is the cache representation of a fetched tree: the raw records
// rather than the assembled node map, so concrete record types survive the
// JSON round trip.
type treePayload struct {
	Company  org.Company                   `json:"company"`
	Branches map[string][]org.Branch       `json:"branches,omitempty"`
	Grades   map[string][]org.GradeLevel   `json:"grades,omitempty"`
	Sections map[string][]org.ClassSection `json:"sections,omitempty"`
}

func (p *treePayload) build(opts Options) tree.Map {
	return tree.Build(&p.Company, tree.LazyChildren{
		Branches: p.Branches,
		Grades:   p.Grades,
		Sections: p.Sections,
	}, tree.BuildOptions{ShowInactive: opts.ShowInactive})
}

// BuildTreeWithCacheInfo loads records and assembles the organization tree,
// and reports whether the records came from cache. Concurrent calls with the
// same cache key share a single store round trip.
func (s *Service) BuildTreeWithCacheInfo(ctx context.Context, opts Options) (tree.Map, bool, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	s.applyLogger(&opts)

	if !s.Authz.CanViewTab(ctx, opts.Subject, authz.TabOrgStructure) {
		return nil, false, errors.New(errors.ErrCodeForbidden, "subject %q may not view the organization structure", opts.Subject)
	}
	filters, err := s.Authz.ScopeFilters(ctx, opts.Subject, authz.TabOrgStructure)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeForbidden, err, "resolve scope filters")
	}

	version := s.treeVersion(ctx, opts.CompanyID)
	cacheKey := s.Keyer.TreeKey(opts.CompanyID, opts.TreeKeyOpts(version, filters))

	if !opts.Refresh {
		if data, hit, err := s.Cache.Get(ctx, cacheKey); err == nil && hit {
			var p treePayload
			if err := json.Unmarshal(data, &p); err == nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				return p.build(opts), true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "tree")

	v, err, _ := s.fetch.Do(cacheKey, func() (any, error) {
		p, err := s.fetchPayload(ctx, opts, filters)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(p); err == nil {
			_ = s.Cache.Set(ctx, cacheKey, data, cache.TTLTree)
		}
		return p, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*treePayload).build(opts), false, nil
}

// BuildTree is a convenience wrapper that discards the cache hit info.
func (s *Service) BuildTree(ctx context.Context, opts Options) (tree.Map, error) {
	nodes, _, err := s.BuildTreeWithCacheInfo(ctx, opts)
	return nodes, err
}

// fetchPayload loads the company and every lazily-requested child list from
// the store, applying the caller's scope filters.
func (s *Service) fetchPayload(ctx context.Context, opts Options, filters authz.Filters) (*treePayload, error) {
	var company *org.Company
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		company, err = s.Store.Company(ctx, opts.CompanyID)
		if err != nil && !stderrors.Is(err, store.ErrNotFound) {
			return cache.Retryable(err)
		}
		return err
	})
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.New(errors.ErrCodeCompanyNotFound, "company %q not found", opts.CompanyID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load company %q", opts.CompanyID)
	}

	// Drop schools outside the caller's scope before anything else sees them.
	schools := company.Schools[:0:0]
	for _, sc := range company.Schools {
		if filters.AllowsSchool(sc.ID) {
			schools = append(schools, sc)
		}
	}
	company.Schools = schools

	p := &treePayload{
		Company:  *company,
		Branches: make(map[string][]org.Branch),
		Grades:   make(map[string][]org.GradeLevel),
		Sections: make(map[string][]org.ClassSection),
	}

	if opts.ExpandAll {
		return p, s.fetchAll(ctx, p, filters)
	}
	for _, nodeID := range opts.Expanded {
		if err := s.fetchChildren(ctx, p, nodeID, filters); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// fetchChildren resolves one expanded node's child records into the payload.
// Unknown or leaf node IDs are skipped: an expansion key can outlive the node
// it pointed at.
func (s *Service) fetchChildren(ctx context.Context, p *treePayload, nodeID string, filters authz.Filters) error {
	kind, recordID, ok := tree.ParseNodeID(nodeID)
	if !ok {
		return nil
	}
	switch kind {
	case tree.KindSchool:
		if !filters.AllowsSchool(recordID) {
			return nil
		}
		branches, err := s.Store.BranchesOf(ctx, recordID)
		if err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "load branches of school %q", recordID)
		}
		p.Branches[nodeID] = filterBranches(branches, filters)
	case tree.KindBranch:
		if !filters.AllowsBranch(recordID) {
			return nil
		}
		grades, err := s.Store.GradeLevelsOf(ctx, recordID)
		if err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "load grade levels of branch %q", recordID)
		}
		p.Grades[nodeID] = grades
	case tree.KindGrade:
		sections, err := s.Store.SectionsOf(ctx, recordID)
		if err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "load sections of grade %q", recordID)
		}
		p.Sections[nodeID] = sections
	}
	return nil
}

// fetchAll walks the whole hierarchy breadth-first. Used for full chart
// exports where every level is rendered.
func (s *Service) fetchAll(ctx context.Context, p *treePayload, filters authz.Filters) error {
	for _, sc := range p.Company.Schools {
		schoolNode := tree.NodeID(tree.KindSchool, sc.ID)
		if err := s.fetchChildren(ctx, p, schoolNode, filters); err != nil {
			return err
		}
		for _, b := range p.Branches[schoolNode] {
			branchNode := tree.NodeID(tree.KindBranch, b.ID)
			if err := s.fetchChildren(ctx, p, branchNode, filters); err != nil {
				return err
			}
			for _, g := range p.Grades[branchNode] {
				if err := s.fetchChildren(ctx, p, tree.NodeID(tree.KindGrade, g.ID), filters); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func filterBranches(branches []org.Branch, filters authz.Filters) []org.Branch {
	out := branches[:0:0]
	for _, b := range branches {
		if filters.AllowsBranch(b.ID) {
			out = append(out, b)
		}
	}
	return out
}

// ChildrenOf answers the lazy-loading endpoint: the child records of one
// node, scope-filtered. The records are returned as-is for JSON encoding.
func (s *Service) ChildrenOf(ctx context.Context, subject, nodeID string) (any, error) {
	if !s.Authz.CanViewTab(ctx, subject, authz.TabOrgStructure) {
		return nil, errors.New(errors.ErrCodeForbidden, "subject %q may not view the organization structure", subject)
	}
	filters, err := s.Authz.ScopeFilters(ctx, subject, authz.TabOrgStructure)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeForbidden, err, "resolve scope filters")
	}

	kind, recordID, ok := tree.ParseNodeID(nodeID)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "malformed node ID %q", nodeID)
	}
	switch kind {
	case tree.KindSchool:
		if !filters.AllowsSchool(recordID) {
			return nil, errors.New(errors.ErrCodeForbidden, "school %q is outside the subject's scope", recordID)
		}
		branches, err := s.Store.BranchesOf(ctx, recordID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load branches of school %q", recordID)
		}
		return filterBranches(branches, filters), nil
	case tree.KindBranch:
		if !filters.AllowsBranch(recordID) {
			return nil, errors.New(errors.ErrCodeForbidden, "branch %q is outside the subject's scope", recordID)
		}
		grades, err := s.Store.GradeLevelsOf(ctx, recordID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load grade levels of branch %q", recordID)
		}
		return grades, nil
	case tree.KindGrade:
		sections, err := s.Store.SectionsOf(ctx, recordID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load sections of grade %q", recordID)
		}
		return sections, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "%s nodes have no loadable children", kind)
	}
}

// =============================================================================
// Stage 2: Layout
// =============================================================================

// ComputeLayoutWithCacheInfo computes the layout with caching and returns
// cache hit info.
func (s *Service) ComputeLayoutWithCacheInfo(ctx context.Context, nodes tree.Map, opts Options) (layout.Result, bool, error) {
	opts.SetLayoutDefaults()
	s.applyLogger(&opts)

	treeData, err := json.Marshal(nodes)
	if err != nil {
		return layout.Result{}, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize tree for cache key")
	}
	var dimsHash string
	if len(opts.Dimensions) > 0 {
		if data, err := json.Marshal(opts.Dimensions); err == nil {
			dimsHash = cache.Hash(data)
		}
	}
	cacheKey := s.Keyer.LayoutKey(cache.Hash(treeData), opts.LayoutKeyOpts(dimsHash))

	if data, hit, err := s.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached layout.Result
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute.
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	dims := layout.Refine(layout.EstimateDimensions(nodes), opts.Dimensions)
	rootID := ""
	if root := nodes.Root(); root != nil {
		rootID = root.ID
	}
	res := layout.Compute(nodes, dims, opts.Layout, rootID)

	if data, err := json.Marshal(res); err == nil {
		_ = s.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}
	return res, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (s *Service) ComputeLayout(ctx context.Context, nodes tree.Map, opts Options) (layout.Result, error) {
	res, _, err := s.ComputeLayoutWithCacheInfo(ctx, nodes, opts)
	return res, err
}

// =============================================================================
// Stage 3: Render
// =============================================================================

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info.
func (s *Service) RenderWithCacheInfo(ctx context.Context, nodes tree.Map, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	s.applyLogger(&opts)
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid formats")
	}

	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := s.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := s.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := s.renderFormat(nodes, res, format, opts)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data
		cacheKey := s.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = s.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (s *Service) Render(ctx context.Context, nodes tree.Map, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := s.RenderWithCacheInfo(ctx, nodes, res, opts)
	return artifacts, err
}

func (s *Service) renderFormat(nodes tree.Map, res layout.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return s.renderSVG(nodes, res, opts), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(nodes, nodelink.Options{Detailed: opts.Detailed})), nil
	case FormatJSON:
		payload := struct {
			Nodes  tree.Map      `json:"nodes"`
			Layout layout.Result `json:"layout"`
		}{nodes, res}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode JSON artifact")
		}
		return data, nil
	case FormatPNG:
		data, err := render.ToPNG(s.renderSVG(nodes, res, opts), opts.PNGScale)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert SVG to PNG")
		}
		return data, nil
	case FormatPDF:
		data, err := render.ToPDF(s.renderSVG(nodes, res, opts))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert SVG to PDF")
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

func (s *Service) renderSVG(nodes tree.Map, res layout.Result, opts Options) []byte {
	svgOpts := []chartsvg.Option{}
	if len(opts.Dimensions) > 0 {
		dims := layout.Refine(layout.EstimateDimensions(nodes), opts.Dimensions)
		svgOpts = append(svgOpts, chartsvg.WithDimensions(dims))
	}
	if opts.NoBadges {
		svgOpts = append(svgOpts, chartsvg.WithoutBadges())
	}
	if opts.Transparent {
		svgOpts = append(svgOpts, chartsvg.WithTransparentBackground())
	}
	return chartsvg.RenderSVG(nodes, res, svgOpts...)
}

// =============================================================================
// Mutations
// =============================================================================

// CreateBranch validates and inserts a branch, then invalidates the
// company's cached trees.
func (s *Service) CreateBranch(ctx context.Context, subject, companyID string, b org.Branch) (*org.Branch, error) {
	if !s.Authz.Can(ctx, subject, authz.ActionBranchCreate) {
		return nil, errors.New(errors.ErrCodeForbidden, "subject %q may not create branches", subject)
	}
	filters, err := s.Authz.ScopeFilters(ctx, subject, authz.TabBranches)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeForbidden, err, "resolve scope filters")
	}
	if !filters.AllowsSchool(b.SchoolID) {
		return nil, errors.New(errors.ErrCodeForbidden, "school %q is outside the subject's scope", b.SchoolID)
	}
	if err := org.ValidateBranch(b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid branch")
	}

	created, err := s.Store.CreateBranch(ctx, b)
	observability.Mutation().OnMutation(ctx, authz.ActionBranchCreate, companyID, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create branch")
	}
	s.Invalidate(ctx, companyID)
	return created, nil
}

// UpdateBranch validates and replaces a branch, then invalidates the
// company's cached trees.
func (s *Service) UpdateBranch(ctx context.Context, subject, companyID string, b org.Branch) (*org.Branch, error) {
	if !s.Authz.Can(ctx, subject, authz.ActionBranchUpdate) {
		return nil, errors.New(errors.ErrCodeForbidden, "subject %q may not update branches", subject)
	}
	filters, err := s.Authz.ScopeFilters(ctx, subject, authz.TabBranches)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeForbidden, err, "resolve scope filters")
	}
	if !filters.AllowsBranch(b.ID) {
		return nil, errors.New(errors.ErrCodeForbidden, "branch %q is outside the subject's scope", b.ID)
	}
	if err := org.ValidateBranch(b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid branch")
	}

	updated, err := s.Store.UpdateBranch(ctx, b)
	observability.Mutation().OnMutation(ctx, authz.ActionBranchUpdate, companyID, err)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.New(errors.ErrCodeBranchNotFound, "branch %q not found", b.ID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "update branch")
	}
	s.Invalidate(ctx, companyID)
	return updated, nil
}

// DeleteBranch removes a branch and its subtree, then invalidates the
// company's cached trees.
func (s *Service) DeleteBranch(ctx context.Context, subject, companyID, branchID string) error {
	if !s.Authz.Can(ctx, subject, authz.ActionBranchDelete) {
		return errors.New(errors.ErrCodeForbidden, "subject %q may not delete branches", subject)
	}
	filters, err := s.Authz.ScopeFilters(ctx, subject, authz.TabBranches)
	if err != nil {
		return errors.Wrap(errors.ErrCodeForbidden, err, "resolve scope filters")
	}
	if !filters.AllowsBranch(branchID) {
		return errors.New(errors.ErrCodeForbidden, "branch %q is outside the subject's scope", branchID)
	}

	err = s.Store.DeleteBranch(ctx, branchID)
	observability.Mutation().OnMutation(ctx, authz.ActionBranchDelete, companyID, err)
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.New(errors.ErrCodeBranchNotFound, "branch %q not found", branchID)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete branch")
	}
	s.Invalidate(ctx, companyID)
	return nil
}

// =============================================================================
// Cache Invalidation
// =============================================================================

// Invalidate bumps the company's cache version so subsequent tree fetches
// miss. Layout and artifact entries are content-addressed and need no
// explicit invalidation. Failures are logged, not returned: a stale cache is
// tolerable, a failed mutation is not.
func (s *Service) Invalidate(ctx context.Context, companyID string) {
	observability.Mutation().OnInvalidate(ctx, companyID)
	version := s.treeVersion(ctx, companyID)
	key := s.Keyer.VersionKey(companyID)
	if err := s.Cache.Set(ctx, key, []byte(strconv.FormatInt(version+1, 10)), cache.TTLVersion); err != nil {
		s.Logger.Warn("bump cache version", "company", companyID, "error", err)
	}
}

// treeVersion returns the company's current cache version (0 when unset).
func (s *Service) treeVersion(ctx context.Context, companyID string) int64 {
	data, hit, err := s.Cache.Get(ctx, s.Keyer.VersionKey(companyID))
	if err != nil || !hit {
		return 0
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Close releases resources held by the service.
func (s *Service) Close(ctx context.Context) error {
	var firstErr error
	if s.Cache != nil {
		firstErr = s.Cache.Close()
	}
	if s.Store != nil {
		if err := s.Store.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the service's logger on options if not already set.
func (s *Service) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = s.Logger
	}
}
