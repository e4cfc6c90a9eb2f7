package model

import "fmt"

// Role is the permission level shown for a user. It is never stored; it is
// derived from the IsSuperuser/IsStaff pair.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTeamLead Role = "team_lead"
	RoleUser     Role = "user"
)

// Roles lists the accepted role values in display order.
var Roles = []Role{RoleAdmin, RoleTeamLead, RoleUser}

// ParseRole validates a submitted role value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTeamLead, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Flags maps a role to its (isSuperuser, isStaff) pair.
func (r Role) Flags() (isSuperuser, isStaff bool) {
	switch r {
	case RoleAdmin:
		return true, true
	case RoleTeamLead:
		return false, true
	default:
		return false, false
	}
}

// RoleFromFlags derives the role from the stored flags. Pairs that no write
// path produces (superuser without staff) read back as RoleUser.
func RoleFromFlags(isSuperuser, isStaff bool) Role {
	switch {
	case isSuperuser && isStaff:
		return RoleAdmin
	case !isSuperuser && isStaff:
		return RoleTeamLead
	default:
		return RoleUser
	}
}
