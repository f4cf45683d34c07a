package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	ErrRemoteFetch = errors.New("remote fetch failed")
	ErrEnrichment  = errors.New("enrichment failed")
	ErrPersistence = errors.New("persistence failed")
)

// RemoteFetchError reports a failed listing call against the remote drive.
// Status is the HTTP status returned by the store, 0 on transport failure.
type RemoteFetchError struct {
	DriveID string
	ItemID  string
	Status  int
	Err     error
}

func (e *RemoteFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("list children of %s/%s: status %d: %v", e.DriveID, e.ItemID, e.Status, e.Err)
	}
	return fmt.Sprintf("list children of %s/%s: %v", e.DriveID, e.ItemID, e.Err)
}

func (e *RemoteFetchError) Unwrap() error        { return e.Err }
func (e *RemoteFetchError) Is(target error) bool { return target == ErrRemoteFetch }
func (e *RemoteFetchError) StatusCode() int      { return http.StatusBadGateway }

// EnrichmentError reports a failed or unparseable classification call for one file.
type EnrichmentError struct {
	DriveID  string
	ItemID   string
	FileName string
	Err      error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich %q (%s/%s): %v", e.FileName, e.DriveID, e.ItemID, e.Err)
}

func (e *EnrichmentError) Unwrap() error        { return e.Err }
func (e *EnrichmentError) Is(target error) bool { return target == ErrEnrichment }
func (e *EnrichmentError) StatusCode() int      { return http.StatusBadGateway }

// PersistenceError reports a failed save or scan against the catalog store.
// Entity names the record kind (e.g. "training_master"), ID the natural key when known.
type PersistenceError struct {
	Entity string
	ID     string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("persist %s %s: %v", e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("persist %s: %v", e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error        { return e.Err }
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
func (e *PersistenceError) StatusCode() int      { return http.StatusInternalServerError }

// ErrorKind returns a stable machine-readable name for the failure class of err.
// Returns "" for errors that do not belong to a known class.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrRemoteFetch):
		return "remote_fetch"
	case errors.Is(err, ErrEnrichment):
		return "enrichment"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return ""
	}
}
