package domain

import "time"

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
// Credential handling (passwords, OTP, OAuth) lives with the auth collaborator;
// services only ever see the already-verified user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}
