package jwt

import (
	"slices"
	"strings"
)

// HasAnyRole reports whether the role claim is one of roles.
func (c *Claims) HasAnyRole(roles ...string) bool {
	return slices.Contains(roles, c.Role)
}

// BearerToken extracts the token from an "Authorization: Bearer <t>" value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
