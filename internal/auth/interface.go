package auth

import (
	"context"

	"github.com/FTI-LMS/LMS/internal/domain/models"
)

// TokenVerifier checks a caller's access token before it is forwarded to the drive API.
type TokenVerifier interface {
	// VerifyToken validates the token and returns its claims.
	// Returns domain.ErrUnauthorized if the token is malformed, expired or badly signed.
	VerifyToken(ctx context.Context, tokenString string) (*models.AccessClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
