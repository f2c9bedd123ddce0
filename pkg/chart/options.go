// Package chart provides the core chart pipeline for OrgCanvas.
//
// This package implements the complete fetch → layout → render pipeline that
// can be used by CLI, API, and viewer components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: Load the company and lazily-requested children from the store
//     and assemble the organization tree
//  2. Layout: Compute card positions for the tree
//  3. Render: Generate output in various formats (SVG, DOT, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Service and execute the pipeline:
//
//	svc := chart.NewService(st, nil, cache, nil, logger)
//	opts := chart.Options{
//	    CompanyID: "acme",
//	    ExpandAll: true,
//	    Formats:   []string{"svg"},
//	}
//	result, err := svc.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Fetch only
//	nodes, err := svc.BuildTree(ctx, opts)
//
//	// Layout with an existing tree
//	res, err := svc.ComputeLayout(ctx, nodes, opts)
//
//	// Render with an existing layout
//	artifacts, err := svc.Render(ctx, nodes, res, opts)
package chart

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/campusgrid/orgcanvas/pkg/authz"
	"github.com/campusgrid/orgcanvas/pkg/cache"
	"github.com/campusgrid/orgcanvas/pkg/layout"
	"github.com/campusgrid/orgcanvas/pkg/tree"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options contains all configuration for the chart pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Fetch options
	CompanyID    string   `json:"company_id"`
	Subject      string   `json:"subject,omitempty"`       // authorization subject; empty means unrestricted caller
	ShowInactive bool     `json:"show_inactive,omitempty"` // keep inactive schools in the tree
	Expanded     []string `json:"expanded,omitempty"`      // node IDs whose children should be loaded
	ExpandAll    bool     `json:"expand_all,omitempty"`    // load every level (full chart exports)
	Refresh      bool     `json:"refresh,omitempty"`       // bypass the tree cache

	// Layout options
	Layout     layout.Config                `json:"layout,omitempty"`
	Dimensions map[string]layout.Dimensions `json:"dimensions,omitempty"` // measured card sizes by node ID

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // richer DOT labels
	NoBadges    bool     `json:"no_badges,omitempty"`
	Transparent bool     `json:"transparent,omitempty"`
	PNGScale    float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the assembled organization tree.
	Tree tree.Map

	// TreeHash is the content hash of the tree.
	TreeHash string

	// Layout contains the computed positions and canvas size.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	FetchTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TreeHit   bool // Whether the fetched tree came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks required fields for the fetch stage.
func (o *Options) ValidateForFetch() error {
	if o.CompanyID == "" {
		return fmt.Errorf("company_id is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = 2.0
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// TreeKeyOpts returns cache key options for the fetch stage. Version is the
// company's current cache version and filters are the caller's scope
// restrictions; both are runtime values, not serialized options.
func (o *Options) TreeKeyOpts(version int64, filters authz.Filters) cache.TreeKeyOpts {
	expanded := o.Expanded
	if o.ExpandAll {
		expanded = []string{"*"}
	} else if len(expanded) > 0 {
		expanded = append([]string(nil), expanded...)
		sort.Strings(expanded)
	}
	return cache.TreeKeyOpts{
		Version:      version,
		SchoolIDs:    filters.SchoolIDs,
		BranchIDs:    filters.BranchIDs,
		ShowInactive: o.ShowInactive,
		Expanded:     expanded,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(dimsHash string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		GapX:              o.Layout.GapX,
		GapY:              o.Layout.GapY,
		CenterParents:     o.Layout.CenterParents,
		MaxSiblingsPerRow: o.Layout.MaxSiblingsPerRow,
		CompactGapX:       o.Layout.CompactGapX,
		RowGapY:           o.Layout.RowGapY,
		Margin:            o.Layout.Margin,
		DimsHash:          dimsHash,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		Badges:   !o.NoBadges,
	}
}
