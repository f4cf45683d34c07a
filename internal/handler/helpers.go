package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/FTI-LMS/LMS/internal/domain"
	"github.com/FTI-LMS/LMS/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. Every response for a
// known failure class carries an "error_kind" member.
func handleError(w http.ResponseWriter, err error) {
	var (
		fetchErr   *domain.RemoteFetchError
		enrichErr  *domain.EnrichmentError
		persistErr *domain.PersistenceError
	)

	extras := map[string]interface{}{}
	if kind := domain.ErrorKind(err); kind != "" {
		extras["error_kind"] = kind
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, err.Error(), extras)
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondErrorWithExtras(w, http.StatusUnauthorized, err.Error(), extras)
	case errors.As(err, &fetchErr):
		extras["drive_id"] = fetchErr.DriveID
		extras["item_id"] = fetchErr.ItemID
		status := fetchErr.StatusCode()
		if fetchErr.Status != 0 {
			extras["upstream_status"] = fetchErr.Status
		}
		// the drive API rejected the caller's token
		if fetchErr.Status == http.StatusUnauthorized || fetchErr.Status == http.StatusForbidden {
			status = http.StatusUnauthorized
		}
		httputil.RespondErrorWithExtras(w, status, err.Error(), extras)
	case errors.As(err, &enrichErr):
		extras["item_id"] = enrichErr.ItemID
		extras["file_name"] = enrichErr.FileName
		httputil.RespondErrorWithExtras(w, enrichErr.StatusCode(), err.Error(), extras)
	case errors.As(err, &persistErr):
		extras["entity"] = persistErr.Entity
		httputil.RespondErrorWithExtras(w, persistErr.StatusCode(), err.Error(), extras)
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondErrorWithExtras(w, http.StatusNotFound, err.Error(), extras)
	case errors.Is(err, context.DeadlineExceeded):
		httputil.RespondError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// userID is the subject of the verified token, empty when no verifier ran
func userID(r *http.Request) string {
	if claims := httputil.GetClaims(r); claims != nil {
		return claims.GetUserID()
	}
	return ""
}
