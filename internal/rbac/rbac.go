package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Admin roles mirror the admin_users.role column.
const (
	RoleAdmin  = "admin"
	RoleHR     = "hr"
	RoleViewer = "viewer"
)

//go:generate mockgen -source=rbac.go -destination=mock/rbac_mock.go -package=mock
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

type enforcer struct {
	e *casbin.Enforcer
}

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// policies are static: the role set comes from a DB enum, not from
// operator-managed role definitions.
var policies = [][]string{
	{RoleAdmin, "*", "*"},

	{RoleHR, "employee", "read"},
	{RoleHR, "employee", "write"},
	{RoleHR, "attendance", "read"},
	{RoleHR, "report", "read"},
	{RoleHR, "dashboard", "read"},

	{RoleViewer, "employee", "read"},
	{RoleViewer, "attendance", "read"},
	{RoleViewer, "report", "read"},
	{RoleViewer, "dashboard", "read"},
}

func NewEnforcer() (Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
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

	return &enforcer{e: e}, nil
}

func (c *enforcer) Enforce(role, resource, action string) (bool, error) {
	return c.e.Enforce(role, resource, action)
}
