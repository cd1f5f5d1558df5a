package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
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

// rolePolicies maps each role to the resource/action pairs it may use.
// Approvers inherit employee permissions, admins inherit approver permissions
// (see roleInheritance).
var rolePolicies = [][3]string{
	{"employee", "leave", "read"},
	{"employee", "leave", "create"},
	{"employee", "leave", "update"},
	{"employee", "leave", "delete"},

	{"approver", "leave", "approve"},
	{"approver", "adjustment", "read"},

	{"admin", "adjustment", "create"},
	{"admin", "adjustment", "rollover"},
}

var roleInheritance = [][2]string{
	{"approver", "employee"},
	{"admin", "approver"},
}

// NewEnforcer builds the casbin enforcer with the static role policy. The
// policy set is small and fixed, so no storage adapter is attached.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range rolePolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range roleInheritance {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
