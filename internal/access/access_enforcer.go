package access

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	ResourceAdmin = "admin"
	ResourceSelf  = "self"

	ActionManage = "manage"
	ActionRead   = "read"
	ActionWrite  = "write"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

// NewEnforcer builds the role policy in memory. Roles are fixed, so there
// is no policy table to load from.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{
		{RoleAdmin, "*", "*"},
		{RoleEmployee, ResourceSelf, "*"},
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}
	return e, nil
}
