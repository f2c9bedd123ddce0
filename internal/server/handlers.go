package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campusgrid/orgcanvas/pkg/chart"
	"github.com/campusgrid/orgcanvas/pkg/errors"
	"github.com/campusgrid/orgcanvas/pkg/org"
)

// chartOptions decodes the query parameters shared by the tree and chart
// endpoints into pipeline options.
func chartOptions(r *http.Request) chart.Options {
	q := r.URL.Query()
	opts := chart.Options{
		CompanyID:    chi.URLParam(r, "companyID"),
		Subject:      subject(r),
		ShowInactive: q.Get("show_inactive") == "true",
		ExpandAll:    q.Get("expand_all") == "true",
		Refresh:      q.Get("refresh") == "true",
		Detailed:     q.Get("detailed") == "true",
		NoBadges:     q.Get("badges") == "false",
		Transparent:  q.Get("transparent") == "true",
	}
	if expanded := q.Get("expanded"); expanded != "" {
		opts.Expanded = strings.Split(expanded, ",")
	}
	return opts
}

// handleTree returns the assembled tree with its layout, the payload the
// interactive canvas consumes.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	opts := chartOptions(r)
	opts.Formats = []string{chart.FormatJSON}

	result, err := s.svc.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":  result.Tree,
		"layout": result.Layout,
		"hash":   result.TreeHash,
	})
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	opts := chartOptions(r)
	opts.Formats = []string{chart.FormatSVG}
	if !opts.ExpandAll && len(opts.Expanded) == 0 {
		opts.ExpandAll = true // a standalone chart export shows everything
	}

	result, err := s.svc.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(result.Artifacts[chart.FormatSVG])
}

func (s *Server) handleChartDOT(w http.ResponseWriter, r *http.Request) {
	opts := chartOptions(r)
	opts.Formats = []string{chart.FormatDOT}
	if !opts.ExpandAll && len(opts.Expanded) == 0 {
		opts.ExpandAll = true
	}

	result, err := s.svc.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write(result.Artifacts[chart.FormatDOT])
}

// handleChildren backs the canvas's lazy loading: one level of children for
// an expanded node.
func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	children, err := s.svc.ChildrenOf(r.Context(), subject(r), chi.URLParam(r, "nodeID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"children": children})
}

func (s *Server) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	var b org.Branch
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode branch"))
		return
	}
	created, err := s.svc.CreateBranch(r.Context(), subject(r), chi.URLParam(r, "companyID"), b)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateBranch(w http.ResponseWriter, r *http.Request) {
	var b org.Branch
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode branch"))
		return
	}
	b.ID = chi.URLParam(r, "branchID")
	updated, err := s.svc.UpdateBranch(r.Context(), subject(r), chi.URLParam(r, "companyID"), b)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBranch(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteBranch(r.Context(), subject(r), chi.URLParam(r, "companyID"), chi.URLParam(r, "branchID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
