package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FTI-LMS/LMS/internal/auth"
	"github.com/FTI-LMS/LMS/internal/config"
	"github.com/FTI-LMS/LMS/internal/httputil"
)

// AccessToken requires a drive access token on every request it wraps.
// The token comes from "Authorization: Bearer" or, failing that, from the
// "accessToken" field of a JSON body; the body is restored for the handler.
// With a non-nil verifier the token is also checked locally and its claims
// stored in the context. Without one, the drive API is the only judge.
func AccessToken(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				var err error
				if token, err = bodyToken(w, r); err != nil {
					httputil.RespondError(w, http.StatusBadRequest, err.Error())
					return
				}
			}

			if token == "" {
				httputil.RespondErrorWithExtras(w, http.StatusUnauthorized, "access token is required",
					map[string]interface{}{"error_kind": "unauthorized"})
				return
			}

			if verifier != nil {
				claims, err := verifier.VerifyToken(r.Context(), token)
				if err != nil {
					logger.Warn("access token rejected", "path", r.URL.Path, "error", err)
					httputil.RespondErrorWithExtras(w, http.StatusUnauthorized, "invalid access token",
						map[string]interface{}{"error_kind": "unauthorized"})
					return
				}
				r = httputil.WithClaims(r, claims)
			}

			next.ServeHTTP(w, httputil.WithAccessToken(r, token))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// bodyToken peeks at a JSON body for "accessToken" and puts the bytes back.
func bodyToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	peek := r.Clone(r.Context())
	peek.Body = io.NopCloser(bytes.NewReader(raw))

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	// a body that is not a token envelope is left for the handler to reject
	if err := httputil.ParseJSON(w, peek, &body); err != nil {
		return "", nil
	}
	return strings.TrimSpace(body.AccessToken), nil
}
