package middleware

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FTI-LMS/LMS/internal/auth"
	"github.com/FTI-LMS/LMS/internal/domain"
	"github.com/FTI-LMS/LMS/internal/domain/models"
	"github.com/FTI-LMS/LMS/internal/httputil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	valid string
}

func (s stubVerifier) VerifyToken(_ context.Context, token string) (*models.AccessClaims, error) {
	if token != s.valid {
		return nil, fmt.Errorf("%w: bad token", domain.ErrUnauthorized)
	}
	return &models.AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}, nil
}

func (s stubVerifier) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echo writes the token seen by the handler and the body it received
func echo(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	subject := ""
	if c := httputil.GetClaims(r); c != nil {
		subject = c.Subject
	}
	fmt.Fprintf(w, "%s|%s|%s", httputil.GetAccessToken(r), subject, body)
}

func TestAccessToken(t *testing.T) {
	tests := []struct {
		name     string
		verifier auth.TokenVerifier
		header   string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "bearer header",
			header:   "Bearer tok-1",
			wantCode: http.StatusOK,
			wantBody: "tok-1||",
		},
		{
			name:     "body token is restored for the handler",
			body:     `{"accessToken":"tok-2"}`,
			wantCode: http.StatusOK,
			wantBody: `tok-2||{"accessToken":"tok-2"}`,
		},
		{
			name:     "header wins over body",
			header:   "bearer tok-h",
			body:     `{"accessToken":"tok-b"}`,
			wantCode: http.StatusOK,
			wantBody: `tok-h||{"accessToken":"tok-b"}`,
		},
		{
			name:     "missing token",
			body:     `{}`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "body token is trimmed",
			body:     `{"accessToken":"  tok-3 ", "driveId":"drv"}`,
			wantCode: http.StatusOK,
			wantBody: `tok-3||{"accessToken":"  tok-3 ", "driveId":"drv"}`,
		},
		{
			name:     "whitespace body",
			body:     "  \n",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed body",
			body:     `{"accessToken":`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "no body no header",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "verifier accepts",
			verifier: stubVerifier{valid: "good"},
			header:   "Bearer good",
			wantCode: http.StatusOK,
			wantBody: "good|user-1|",
		},
		{
			name:     "verifier rejects",
			verifier: stubVerifier{valid: "good"},
			header:   "Bearer bad",
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AccessToken(tt.verifier, discardLogger())(http.HandlerFunc(echo))

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/graph/files", body)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error_kind":"unauthorized"`)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}
