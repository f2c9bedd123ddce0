package authz

import (
	"context"
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/charmbracelet/log"
)

// rbacModel is the casbin model: role inheritance via g, object matching via
// keyMatch so policies can grant whole prefixes ("tab:*").
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Enforcer is the casbin-backed Service. Policies live in a CSV file of the
// usual casbin form:
//
//	p, school_admin, tab:org-structure, view
//	p, school_admin, branches, create
//	g, alice, school_admin
//
// Scope filters are not casbin's job; they come from a separate provider
// (typically the static map in the server config).
type Enforcer struct {
	mu       sync.RWMutex
	enforcer *casbin.Enforcer
	scopes   ScopeProvider
	logger   *log.Logger
}

// ScopeProvider resolves per-subject record restrictions.
type ScopeProvider interface {
	Lookup(ctx context.Context, subject, tab string) (Filters, bool)
}

// StaticScopes is a fixed subject → tab → Filters table.
type StaticScopes map[string]map[string]Filters

// Lookup returns the filters for a subject and tab.
func (s StaticScopes) Lookup(ctx context.Context, subject, tab string) (Filters, bool) {
	tabs, ok := s[subject]
	if !ok {
		return Filters{}, false
	}
	f, ok := tabs[tab]
	return f, ok
}

// NewEnforcer loads the RBAC model and the policy CSV at policyPath.
// A nil scopes provider means no subject has record restrictions.
func NewEnforcer(policyPath string, scopes ScopeProvider, logger *log.Logger) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	enf, err := casbin.NewEnforcer(m, fileadapter.NewAdapter(policyPath))
	if err != nil {
		return nil, fmt.Errorf("init enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load policies from %s: %w", policyPath, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Enforcer{enforcer: enf, scopes: scopes, logger: logger}, nil
}

// CanViewTab checks the "view" action on the "tab:<name>" object.
// Errors are logged and treated as deny.
func (e *Enforcer) CanViewTab(ctx context.Context, subject, tab string) bool {
	return e.check(subject, "tab:"+tab, "view")
}

// Can checks an action of the form "<resource>.<verb>".
// Errors are logged and treated as deny.
func (e *Enforcer) Can(ctx context.Context, subject, action string) bool {
	resource, verb := splitAction(action)
	return e.check(subject, resource, verb)
}

// ScopeFilters returns the subject's restrictions for a tab. A subject
// without an entry gets unrestricted filters; view access is still gated by
// CanViewTab.
func (e *Enforcer) ScopeFilters(ctx context.Context, subject, tab string) (Filters, error) {
	if e.scopes == nil {
		return Filters{}, nil
	}
	f, ok := e.scopes.Lookup(ctx, subject, tab)
	if !ok {
		return Filters{}, nil
	}
	return f, nil
}

func (e *Enforcer) check(subject, object, action string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ok, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		e.logger.Warn("authz enforce failed, denying",
			"subject", subject, "object", object, "action", action, "err", err)
		return false
	}
	return ok
}

// splitAction separates "branches.create" into ("branches", "create").
// Actions without a dot check the whole string as the object with act "*".
func splitAction(action string) (resource, verb string) {
	for i := len(action) - 1; i >= 0; i-- {
		if action[i] == '.' {
			return action[:i], action[i+1:]
		}
	}
	return action, "*"
}

// Ensure Enforcer implements Service.
var _ Service = (*Enforcer)(nil)
