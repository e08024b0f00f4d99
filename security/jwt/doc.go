// Package jwt mints and verifies the HS256 bearer tokens used by shopfront.
//
// Three token types exist, each signed by its own TokenManager and secret:
//
//	TypeUser     short lived access token for users
//	TypeRefresh  long lived token that only mints new access tokens
//	TypeAdmin    admin token carrying the admin role
//
// Verification distinguishes an expired token from any other failure so
// callers can report the reason:
//
//	claims, err := access.Verify(token)
//	if err != nil {
//	    reason := jwt.ReasonOf(err) // "expired" or "invalid"
//	}
package jwt
