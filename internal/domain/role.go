package domain

// Role enumerates the closed set of access levels.
type Role string

const (
	RoleEmployee  Role = "EMPLOYEE"
	RoleSuperUser Role = "SUPERUSER"
)

// Satisfies reports whether r grants the capability level of required.
// SuperUser implies every Employee-level capability; the reverse does not hold.
func (r Role) Satisfies(required Role) bool {
	if r == RoleSuperUser {
		return true
	}
	return r == required
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleSuperUser
}
