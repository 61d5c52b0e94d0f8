package service

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

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
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

var defaultPolicies = [][]string{
	{"sales", "/api/quotes", "POST"},
	{"sales", "/api/quotes/:id", "GET"},
	{"sales", "/api/rebate-zones", "GET"},
	{"sales", "/api/rebate-zones/resolve", "GET"},
	{"sales", "/api/certificates/*", "POST"},
	{"sales", "/api/battery-sizing", "POST"},
	{"sales", "/api/energy-flow", "POST"},
	{"sales", "/api/packages", "GET"},
	{"sales", "/api/packages/:slug/quote", "GET"},
	{"analyst", "/api/internal/*", "*"},
	{"analyst", "/api/packages", "POST"},
}

var defaultGroupings = [][]string{
	{"analyst", "sales"},
}

// NewEnforcer loads role policies from the casbin_rule table, seeding the
// default rules on first use.
func NewEnforcer(db *gorm.DB, log *zap.Logger) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}

	added := 0
	for _, p := range defaultPolicies {
		ok, err := enforcer.AddPolicy(p[0], p[1], p[2])
		if err != nil {
			return nil, fmt.Errorf("seed policy %v: %w", p, err)
		}
		if ok {
			added++
		}
	}
	for _, g := range defaultGroupings {
		ok, err := enforcer.AddGroupingPolicy(g[0], g[1])
		if err != nil {
			return nil, fmt.Errorf("seed role %v: %w", g, err)
		}
		if ok {
			added++
		}
	}
	if added > 0 {
		log.Named("authorization").Info("seeded default policies", zap.Int("rules", added))
	}
	return enforcer, nil
}
