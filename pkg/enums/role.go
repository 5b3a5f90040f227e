package enums

import (
	"fmt"
	"strings"
)

// Role is the platform-level permissions role carried on a User.
// Canonical storage is lowercase; parsing tolerates legacy mixed-case
// records ("Admin", "Sales") written before casing was normalized.
type Role string

const (
	RoleUser  Role = "user"
	RoleSales Role = "sales"
	RoleAdmin Role = "admin"
)

var validRoles = []Role{
	RoleUser,
	RoleSales,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known canonical Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role grants access to admin/sales surfaces.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSales
}

// ParseRole converts raw input into a canonical Role, case-insensitively.
func ParseRole(value string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
