package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgs guards against algorithm confusion
var allowedAlgs = []string{"RS256", "ES256"}

// SupabaseJWTVerifier verifies tokens against a JWKS endpoint.
type SupabaseJWTVerifier struct {
	keyfunc jwt.Keyfunc
	logger  *slog.Logger
}

// NewJWTVerifier fetches the key set at jwksURL. keyfunc refreshes it in the
// background according to the endpoint's cache headers.
func NewJWTVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)
	return NewKeyfuncVerifier(jwks.Keyfunc, logger), nil
}

// NewKeyfuncVerifier builds a verifier around an arbitrary key lookup.
func NewKeyfuncVerifier(kf jwt.Keyfunc, logger *slog.Logger) *SupabaseJWTVerifier {
	return &SupabaseJWTVerifier{keyfunc: kf, logger: logger}
}

// VerifyToken validates a token and extracts its claims.
func (v *SupabaseJWTVerifier) VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SupabaseClaims{}, v.keyfunc,
		jwt.WithValidMethods(allowedAlgs),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token rejected", "error", err)
		return nil, &domain.UnauthorizedError{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*models.SupabaseClaims)
	if !ok || !token.Valid {
		return nil, &domain.UnauthorizedError{Message: "invalid token"}
	}

	if claims.Subject == "" {
		return nil, &domain.UnauthorizedError{Message: "token missing subject"}
	}

	// anonymous sessions never reach the console
	if claims.Role != "authenticated" {
		v.logger.Warn("token has non-authenticated role", "role", claims.Role, "user_id", claims.Subject)
		return nil, &domain.UnauthorizedError{Message: "authenticated session required"}
	}

	return claims, nil
}

// Close is a no-op; keyfunc manages its own refresh goroutine lifetime via ctx.
func (v *SupabaseJWTVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
