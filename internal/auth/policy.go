package auth

import (
	"slices"

	"studio/pkg/sanitizer"
)

// AdminPolicy decides whether a principal has administrative capability.
type AdminPolicy func(p Principal) bool

// RoleOrUserPolicy accepts principals holding one of roles or whose user id is listed.
func RoleOrUserPolicy(roles []string, userIDs []string) AdminPolicy {
	roles = sanitizer.NormalizeRoles(roles)
	userIDs = sanitizer.NormalizeIDs(userIDs)

	return func(p Principal) bool {
		if p.IsZero() {
			return false
		}
		if slices.Contains(userIDs, p.UserID) {
			return true
		}
		for _, role := range p.Roles {
			if slices.Contains(roles, sanitizer.NormalizeRole(role)) {
				return true
			}
		}
		return false
	}
}

// DenyAll grants admin capability to nobody.
func DenyAll(Principal) bool {
	return false
}
