package handler

import (
	"log/slog"
	"net/http"

	"github.com/FTI-LMS/LMS/internal/config"
	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"
	"github.com/FTI-LMS/LMS/internal/httputil"
)

// GraphHandler serves the drive proxy endpoints and the catalog build.
// Every route runs behind middleware.AccessToken.
type GraphHandler struct {
	driveService   catalogSvc.DriveService
	catalogService catalogSvc.CatalogService
	logger         *slog.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(driveService catalogSvc.DriveService, catalogService catalogSvc.CatalogService, logger *slog.Logger) *GraphHandler {
	return &GraphHandler{
		driveService:   driveService,
		catalogService: catalogService,
		logger:         logger,
	}
}

// ValidateToken checks the token against the drive API.
// POST /api/graph/validate-token
func (h *GraphHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	profile, err := h.driveService.UserInfo(r.Context(), httputil.GetAccessToken(r))
	if err != nil {
		h.logger.Debug("token validation failed", "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"userInfo": profile,
	})
}

// UserInfo returns the caller's profile
// POST /api/graph/user-info
func (h *GraphHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	profile, err := h.driveService.UserInfo(r.Context(), httputil.GetAccessToken(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"userInfo": profile,
	})
}

// ListFiles lists the root of the caller's drive
// POST /api/graph/files
func (h *GraphHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.driveService.ListRootFiles(r.Context(), httputil.GetAccessToken(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}

// ListRecentFiles lists recently used files
// POST /api/graph/files/recent?limit=N
func (h *GraphHandler) ListRecentFiles(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", config.DefaultRecentLimit)
	if err != nil {
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, err.Error(),
			map[string]interface{}{"error_kind": "validation"})
		return
	}

	files, err := h.driveService.ListRecentFiles(r.Context(), httputil.GetAccessToken(r), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"files": files,
		"count": len(files),
		"limit": limit,
	})
}

// ListChildren lists one level below an item
// POST /api/graph/drives/{driveId}/items/{itemId}/children
func (h *GraphHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	req := &catalogSvc.ListChildrenRequest{
		AccessToken: httputil.GetAccessToken(r),
		DriveID:     r.PathValue("driveId"),
		ItemID:      r.PathValue("itemId"),
	}

	files, err := h.driveService.ListChildren(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"files":   files,
		"count":   len(files),
		"driveId": req.DriveID,
		"itemId":  req.ItemID,
	})
}

// BuildCatalog traverses the folder tree under an item and persists the catalog
// POST /api/graph/drives/{driveId}/items/{itemId}/catalog
func (h *GraphHandler) BuildCatalog(w http.ResponseWriter, r *http.Request) {
	req := &catalogSvc.BuildCatalogRequest{
		AccessToken: httputil.GetAccessToken(r),
		UserID:      userID(r),
		DriveID:     r.PathValue("driveId"),
		ItemID:      r.PathValue("itemId"),
	}

	report, err := h.catalogService.BuildCatalog(r.Context(), req)
	if err != nil {
		h.logger.Error("catalog build failed",
			"drive_id", req.DriveID,
			"item_id", req.ItemID,
			"error", err,
		)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, report)
}
