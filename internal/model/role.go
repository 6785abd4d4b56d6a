package model

import "fmt"

// Role is the account type of a user.
type Role string

const (
	// RolePacilian is a patient account.
	RolePacilian Role = "PACILIAN"
	// RoleCaregiver is a doctor account.
	RoleCaregiver Role = "CAREGIVER"
)

// Roles lists every known role.
var Roles = []Role{RolePacilian, RoleCaregiver}

// Value returns the string form of the role.
func (r Role) Value() string {
	return string(r)
}

// Authority returns the role prefixed with ROLE_, as granted to an authenticated user.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// ContainsRole reports whether value names a known role.
func ContainsRole(value string) bool {
	for _, r := range Roles {
		if string(r) == value {
			return true
		}
	}
	return false
}

// ParseRole converts value into a Role.
func ParseRole(value string) (Role, error) {
	if !ContainsRole(value) {
		return "", fmt.Errorf("unknown role: %q", value)
	}
	return Role(value), nil
}
