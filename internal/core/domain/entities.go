package domain

// Role represents a user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ValidRole reports whether the given name is a known role
func ValidRole(name string) bool {
	switch Role(name) {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Principal represents an authenticated caller as resolved by the
// auth middleware. Handlers consult it for ownership checks.
type Principal struct {
	UserID   uint
	Username string
	Roles    []string
}

// HasRole reports whether the principal carries the given role
func (p *Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal carries the ADMIN role
func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
