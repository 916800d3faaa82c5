package rbac

import (
	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Role-to-permission mapping is fixed: two roles, MANAGER inheriting
// everything an EMPLOYEE may do plus the approval surface.
var policies = [][]string{
	{"EMPLOYEE", "leave", "submit"},
	{"EMPLOYEE", "leave", "read"},
	{"EMPLOYEE", "balance", "read"},
	{"EMPLOYEE", "shift", "read"},
	{"EMPLOYEE", "shift", "request"},
	{"EMPLOYEE", "attendance", "write"},
	{"EMPLOYEE", "attendance", "read"},
	{"MANAGER", "leave", "approve"},
	{"MANAGER", "balance", "read_team"},
	{"MANAGER", "shift", "assign"},
	{"MANAGER", "shift", "resolve"},
	{"MANAGER", "directory", "write"},
}

var groupings = [][]string{
	{"MANAGER", "EMPLOYEE"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}
	return e, nil
}
