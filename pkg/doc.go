// Package pkg provides the core libraries for OrgCanvas organization charts.
//
// # Overview
//
// OrgCanvas turns a company's school hierarchy into navigable charts. The pkg
// directory is organized into four main areas:
//
//  1. [org], [tree] - Domain records and the tree they project into
//  2. [layout], [render], [view] - Chart geometry, output formats, interaction
//  3. [store], [cache], [authz] - Infrastructure (records, caching, access control)
//  4. [chart] - Orchestration (fetch → layout → render)
//
// # Architecture
//
// The typical data flow through OrgCanvas:
//
//	MongoDB / YAML fixture
//	         ↓
//	    [store] package (company, schools, lazy children)
//	         ↓
//	    [tree] package (normalized node map)
//	         ↓
//	    [layout] package (card positions + canvas size)
//	         ↓
//	    [render] package (SVG, DOT, PDF, PNG output)
//
// Interaction state (expansion, level visibility, zoom, pan) lives in [view]
// and feeds back into which records [chart] loads and which nodes [render]
// draws.
//
// # Quick Start
//
// Execute the whole pipeline through the chart service:
//
//	svc := chart.NewService(st, nil, nil, nil, logger)
//	result, err := svc.Execute(ctx, chart.Options{
//	    CompanyID: "acme",
//	    ExpandAll: true,
//	    Formats:   []string{"svg"},
//	})
package pkg
