package domain

// Identity is the authenticated subject derived from a validated token.
// Immutable for the lifetime of the token that produced it.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// IsSuperUser reports whether the identity carries the elevated role.
func (i Identity) IsSuperUser() bool {
	return i.Role == RoleSuperUser
}
