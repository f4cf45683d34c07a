package httputil

import (
	"context"
	"net/http"

	"github.com/FTI-LMS/LMS/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	accessTokenKey contextKey = "accessToken"
	claimsKey      contextKey = "claims"
)

// WithAccessToken adds the caller's drive access token to the request context
func WithAccessToken(r *http.Request, token string) *http.Request {
	ctx := context.WithValue(r.Context(), accessTokenKey, token)
	return r.WithContext(ctx)
}

// GetAccessToken retrieves the access token from context, returns empty string if not found
func GetAccessToken(r *http.Request) string {
	token, _ := r.Context().Value(accessTokenKey).(string)
	return token
}

// WithClaims adds verified token claims to the request context
func WithClaims(r *http.Request, claims *models.AccessClaims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	return r.WithContext(ctx)
}

// GetClaims retrieves verified claims, nil when no verifier is configured
func GetClaims(r *http.Request) *models.AccessClaims {
	claims, _ := r.Context().Value(claimsKey).(*models.AccessClaims)
	return claims
}
