package auth

import (
	"strings"

	"storefront/internal/models"
)

// RoleFromHint maps a signup role hint onto a role. Unknown hints get USER.
func RoleFromHint(hint string) models.Role {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "admin":
		return models.RoleAdmin
	case "mod":
		return models.RoleModerator
	default:
		return models.RoleUser
	}
}

func RolesFromHints(hints []string) models.Roles {
	if len(hints) == 0 {
		return models.Roles{models.RoleUser}
	}
	roles := make(models.Roles, 0, len(hints))
	for _, hint := range hints {
		roles = roles.Add(RoleFromHint(hint))
	}
	return roles
}
