package authz

const (
	RoleEmployee = "employee"
	RoleApprover = "approver"
	RoleAdmin    = "admin"
)

// Principal is the resolved identity a request acts as. Token parsing and
// role resolution happen at the transport boundary; by the time a Principal
// reaches business code it is fully populated.
type Principal struct {
	UserID             string
	Role               string
	Permissions        []string
	VisibleDepartments []string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanApprove reports whether the principal carries management capability.
func (p Principal) CanApprove() bool {
	return p.Role == RoleApprover || p.Role == RoleAdmin
}

func (p Principal) HasPermission(perm string) bool {
	for _, v := range p.Permissions {
		if v == perm {
			return true
		}
	}
	return false
}

// SeesDepartment reports whether a department falls inside the principal's
// visible scope. Admins see everything.
func (p Principal) SeesDepartment(department string) bool {
	if p.IsAdmin() {
		return true
	}
	for _, d := range p.VisibleDepartments {
		if d == department {
			return true
		}
	}
	return false
}
