package auth

import "opsconsole/internal/domain/models"

// JWTVerifier validates bearer tokens issued by the identity provider.
// Middleware depends on this interface so tests can swap in a static verifier.
type JWTVerifier interface {
	// VerifyToken returns the parsed claims, or domain.ErrUnauthorized when the
	// token is malformed, expired, unsigned or anonymous.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	Close() error
}
