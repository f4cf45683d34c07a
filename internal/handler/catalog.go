package handler

import (
	"log/slog"
	"net/http"

	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"
	"github.com/FTI-LMS/LMS/internal/httputil"
)

// CatalogHandler serves the stored catalog
type CatalogHandler struct {
	catalogService catalogSvc.CatalogService
	logger         *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService catalogSvc.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// Rebuild aggregates every stored flat record again under a new run.
// Requires an access token for the enrichment calls.
// POST /api/catalog/rebuild
func (h *CatalogHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	report, err := h.catalogService.RebuildCatalog(r.Context(), &catalogSvc.RebuildCatalogRequest{
		AccessToken: httputil.GetAccessToken(r),
		UserID:      userID(r),
	})
	if err != nil {
		h.logger.Error("catalog rebuild failed", "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, report)
}

// ListTrainings returns every stored training
// GET /api/catalog/trainings
func (h *CatalogHandler) ListTrainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := h.catalogService.ListTrainings(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"trainings": trainings,
		"count":     len(trainings),
	})
}

// ListTrainingDetails returns the modules of one training
// GET /api/catalog/trainings/{id}/details
func (h *CatalogHandler) ListTrainingDetails(w http.ResponseWriter, r *http.Request) {
	trainingID := r.PathValue("id")

	details, err := h.catalogService.ListTrainingDetails(r.Context(), trainingID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"training_id": trainingID,
		"modules":     details,
		"count":       len(details),
	})
}

// ListCategories returns the raw per-file enrichment rows
// GET /api/catalog/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.catalogService.ListCategoryDetails(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": rows,
		"count":      len(rows),
	})
}

// Export returns every training with its modules nested
// GET /api/catalog/export?format=json|yaml
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "yaml" {
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "format must be json or yaml",
			map[string]interface{}{"error_kind": "validation"})
		return
	}

	catalog, err := h.catalogService.ExportCatalog(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	if format == "yaml" {
		httputil.RespondYAML(w, http.StatusOK, map[string]interface{}{"trainings": catalog})
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"trainings": catalog})
}
