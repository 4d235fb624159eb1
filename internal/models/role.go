package models

import "slices"

// Role is one of the fixed authorization roles.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	default:
		return false
	}
}

// Roles is a set of roles kept as a slice for stable JSON/BSON output.
type Roles []Role

func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// Add appends role unless it is already present.
func (rs Roles) Add(role Role) Roles {
	if rs.Contains(role) {
		return rs
	}
	return append(rs, role)
}

// Strings converts the set for token claims.
func (rs Roles) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

// RolesFromStrings drops anything that is not a known role.
func RolesFromStrings(values []string) Roles {
	out := make(Roles, 0, len(values))
	for _, v := range values {
		role := Role(v)
		if role.IsValid() {
			out = out.Add(role)
		}
	}
	return out
}
