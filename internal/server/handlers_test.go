package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/campusgrid/orgcanvas/pkg/authz"
	"github.com/campusgrid/orgcanvas/pkg/chart"
	"github.com/campusgrid/orgcanvas/pkg/config"
	"github.com/campusgrid/orgcanvas/pkg/org"
	"github.com/campusgrid/orgcanvas/pkg/store"
)

// viewerOnly grants read access but no mutations.
type viewerOnly struct{}

func (viewerOnly) CanViewTab(ctx context.Context, subject, tab string) bool { return true }
func (viewerOnly) Can(ctx context.Context, subject, action string) bool     { return false }
func (viewerOnly) ScopeFilters(ctx context.Context, subject, tab string) (authz.Filters, error) {
	return authz.Filters{}, nil
}

func apiCompany() org.Company {
	return org.Company{
		ID: "co", Name: "Acme Schools", Status: org.StatusActive,
		Schools: []org.School{
			{
				ID: "s1", Name: "North", Status: org.StatusActive,
				Branches: []org.Branch{
					{ID: "b1", SchoolID: "s1", Name: "Main", Status: org.StatusActive},
				},
			},
		},
	}
}

func newTestServer(t *testing.T, az authz.Service) *httptest.Server {
	t.Helper()
	svc := chart.NewService(store.NewMemoryFromCompany(apiCompany()), az, nil, nil, log.New(io.Discard))
	srv := New(svc, config.Default().Server, log.New(io.Discard))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", resp.StatusCode, body)
	}
}

func TestGetTree(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/api/orgs/co/tree?expand_all=true")
	if err != nil {
		t.Fatalf("GET tree: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Nodes  map[string]json.RawMessage `json:"nodes"`
		Layout struct {
			Positions map[string]struct{ X, Y float64 } `json:"positions"`
		} `json:"layout"`
		Hash string `json:"hash"`
	}
	decodeBody(t, resp, &body)
	if len(body.Nodes) != 3 { // company + school + branch
		t.Errorf("nodes = %d, want 3", len(body.Nodes))
	}
	if len(body.Layout.Positions) != 3 {
		t.Errorf("positions = %d, want 3", len(body.Layout.Positions))
	}
	if body.Hash == "" {
		t.Error("tree hash missing")
	}
}

func TestGetTreeUnknownCompany(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/api/orgs/ghost/tree")
	if err != nil {
		t.Fatalf("GET tree: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	var body errorBody
	decodeBody(t, resp, &body)
	if body.Code != "COMPANY_NOT_FOUND" || body.Message == "" {
		t.Errorf("error body = %+v", body)
	}
}

func TestGetChartSVG(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/api/orgs/co/chart.svg")
	if err != nil {
		t.Fatalf("GET chart.svg: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Error("body is not an SVG document")
	}
}

func TestGetChartDOT(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/api/orgs/co/chart.dot")
	if err != nil {
		t.Fatalf("GET chart.dot: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(data, []byte("digraph org")) {
		t.Errorf("status = %d, body prefix %q", resp.StatusCode, data[:min(20, len(data))])
	}
}

func TestGetChildren(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/api/orgs/co/nodes/school-s1/children")
	if err != nil {
		t.Fatalf("GET children: %v", err)
	}
	var body struct {
		Children []org.Branch `json:"children"`
	}
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusOK || len(body.Children) != 1 || body.Children[0].ID != "b1" {
		t.Errorf("children = %d %+v", resp.StatusCode, body.Children)
	}

	// Leaf kinds have no loadable children.
	resp, err = http.Get(ts.URL + "/api/orgs/co/nodes/section-c9/children")
	if err != nil {
		t.Fatalf("GET leaf children: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("leaf children status = %d, want 422", resp.StatusCode)
	}
}

func TestBranchCRUD(t *testing.T) {
	ts := newTestServer(t, nil)
	client := ts.Client()

	// Create.
	payload := `{"school_id": "s1", "name": "River Campus"}`
	resp, err := client.Post(ts.URL+"/api/orgs/co/branches/", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST branch: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created org.Branch
	decodeBody(t, resp, &created)
	if created.ID == "" || created.Name != "River Campus" {
		t.Fatalf("created = %+v", created)
	}

	// Update.
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/orgs/co/branches/"+created.ID,
		strings.NewReader(`{"school_id": "s1", "name": "River Campus East", "status": "active"}`))
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("PUT branch: %v", err)
	}
	var updated org.Branch
	decodeBody(t, resp, &updated)
	if resp.StatusCode != http.StatusOK || updated.Name != "River Campus East" {
		t.Errorf("update = %d %+v", resp.StatusCode, updated)
	}

	// Delete.
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/orgs/co/branches/"+created.ID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE branch: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}

	// Deleting again is a 404.
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/orgs/co/branches/"+created.ID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE branch again: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestBranchCreateRejectsBadInput(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, payload := range []string{
		`{"school_id": "s1"}`, // missing name
		`{not json`,
	} {
		resp, err := ts.Client().Post(ts.URL+"/api/orgs/co/branches/", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("POST branch: %v", err)
		}
		var body errorBody
		decodeBody(t, resp, &body)
		if resp.StatusCode != http.StatusBadRequest || body.Code != "INVALID_INPUT" {
			t.Errorf("payload %q: status = %d, code = %s", payload, resp.StatusCode, body.Code)
		}
	}
}

func TestBranchMutationForbidden(t *testing.T) {
	ts := newTestServer(t, viewerOnly{})
	resp, err := ts.Client().Post(ts.URL+"/api/orgs/co/branches/", "application/json",
		strings.NewReader(`{"school_id": "s1", "name": "Nope"}`))
	if err != nil {
		t.Fatalf("POST branch: %v", err)
	}
	var body errorBody
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusForbidden || body.Code != "FORBIDDEN" {
		t.Errorf("status = %d, code = %s, want 403 FORBIDDEN", resp.StatusCode, body.Code)
	}
}

func TestSubjectHeaderReachesAuthz(t *testing.T) {
	recorded := ""
	az := subjectRecorder{seen: &recorded}
	ts := newTestServer(t, az)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/orgs/co/tree", nil)
	req.Header.Set(SubjectHeader, "alice")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET tree: %v", err)
	}
	resp.Body.Close()
	if recorded != "alice" {
		t.Errorf("authz saw subject %q, want alice", recorded)
	}
}

// subjectRecorder captures the subject passed to the authz boundary.
type subjectRecorder struct{ seen *string }

func (r subjectRecorder) CanViewTab(ctx context.Context, subject, tab string) bool {
	*r.seen = subject
	return true
}
func (r subjectRecorder) Can(ctx context.Context, subject, action string) bool { return true }
func (r subjectRecorder) ScopeFilters(ctx context.Context, subject, tab string) (authz.Filters, error) {
	return authz.Filters{}, nil
}
