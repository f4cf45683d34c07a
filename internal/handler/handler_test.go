package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FTI-LMS/LMS/internal/domain"
	authModels "github.com/FTI-LMS/LMS/internal/domain/models"
	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"
	"github.com/FTI-LMS/LMS/internal/httputil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type stubDrive struct {
	err       error
	lastLimit int
	lastReq   *catalogSvc.ListChildrenRequest
	lastToken string
	files     []models.TreeNode
}

func (s *stubDrive) UserInfo(ctx context.Context, token string) (json.RawMessage, error) {
	s.lastToken = token
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`{"id":"u1"}`), nil
}

func (s *stubDrive) ListRootFiles(ctx context.Context, token string) ([]models.TreeNode, error) {
	s.lastToken = token
	return s.files, s.err
}

func (s *stubDrive) ListRecentFiles(ctx context.Context, token string, limit int) ([]models.TreeNode, error) {
	s.lastLimit = limit
	return s.files, s.err
}

func (s *stubDrive) ListChildren(ctx context.Context, req *catalogSvc.ListChildrenRequest) ([]models.TreeNode, error) {
	s.lastReq = req
	return s.files, s.err
}

type stubCatalog struct {
	err         error
	lastReq     *catalogSvc.BuildCatalogRequest
	lastRebuild *catalogSvc.RebuildCatalogRequest
	trainings   []models.TrainingWithDetails
}

func (s *stubCatalog) BuildCatalog(ctx context.Context, req *catalogSvc.BuildCatalogRequest) (*catalogSvc.BuildReport, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &catalogSvc.BuildReport{RunID: "run-1", DriveID: req.DriveID, ItemID: req.ItemID, FileCount: 2, Failures: []catalogSvc.FileFailure{}}, nil
}

func (s *stubCatalog) RebuildCatalog(ctx context.Context, req *catalogSvc.RebuildCatalogRequest) (*catalogSvc.BuildReport, error) {
	s.lastRebuild = req
	if s.err != nil {
		return nil, s.err
	}
	return &catalogSvc.BuildReport{RunID: "run-2", Failures: []catalogSvc.FileFailure{}}, nil
}

func (s *stubCatalog) ListTrainings(ctx context.Context) ([]models.TrainingMaster, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.TrainingMaster, 0, len(s.trainings))
	for _, t := range s.trainings {
		out = append(out, t.TrainingMaster)
	}
	return out, nil
}

func (s *stubCatalog) ListTrainingDetails(ctx context.Context, id string) ([]models.TrainingDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, t := range s.trainings {
		if t.TrainingID == id {
			return t.Modules, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) ListCategoryDetails(ctx context.Context) ([]models.CategoryDetails, error) {
	return []models.CategoryDetails{{FileName: "a.mp4", Category: "Ops"}}, s.err
}

func (s *stubCatalog) ExportCatalog(ctx context.Context) ([]models.TrainingWithDetails, error) {
	return s.trainings, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTrainings() []models.TrainingWithDetails {
	return []models.TrainingWithDetails{{
		TrainingMaster: models.TrainingMaster{RunID: "run-1", TrainingID: "D1", TrainingName: "Course", Duration: 25},
		Modules: []models.TrainingDetail{
			{RunID: "run-1", TrainingID: "D1", TrainingDetailID: "F1", ModuleName: "a.mp4", Duration: 10},
			{RunID: "run-1", TrainingID: "D1", TrainingDetailID: "F2", ModuleName: "b.mp4", Duration: 15},
		},
	}}
}

// withToken simulates middleware.AccessToken
func withToken(r *http.Request) *http.Request {
	return httputil.WithAccessToken(r, "tok")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGraphHandler_ValidateToken(t *testing.T) {
	drive := &stubDrive{}
	h := NewGraphHandler(drive, &stubCatalog{}, discardLogger())

	rec := httptest.NewRecorder()
	h.ValidateToken(rec, withToken(httptest.NewRequest(http.MethodPost, "/api/graph/validate-token", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, map[string]interface{}{"id": "u1"}, body["userInfo"])
	assert.Equal(t, "tok", drive.lastToken)
}

func TestGraphHandler_ValidateTokenRejectedUpstream(t *testing.T) {
	drive := &stubDrive{err: &domain.RemoteFetchError{DriveID: "me", Status: 401, Err: errors.New("expired")}}
	h := NewGraphHandler(drive, &stubCatalog{}, discardLogger())

	rec := httptest.NewRecorder()
	h.ValidateToken(rec, withToken(httptest.NewRequest(http.MethodPost, "/api/graph/validate-token", nil)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "remote_fetch", body["error_kind"])
	assert.Equal(t, float64(401), body["upstream_status"])
}

func TestGraphHandler_ListRecentFiles(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantLimit int
	}{
		{name: "default", query: "", wantCode: http.StatusOK, wantLimit: 10},
		{name: "explicit", query: "?limit=3", wantCode: http.StatusOK, wantLimit: 3},
		{name: "not a number", query: "?limit=abc", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drive := &stubDrive{files: []models.TreeNode{{ID: "F1"}}}
			h := NewGraphHandler(drive, &stubCatalog{}, discardLogger())

			rec := httptest.NewRecorder()
			h.ListRecentFiles(rec, withToken(httptest.NewRequest(http.MethodPost, "/api/graph/files/recent"+tt.query, nil)))

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				body := decode(t, rec)
				assert.Equal(t, float64(tt.wantLimit), body["limit"])
				assert.Equal(t, float64(1), body["count"])
				assert.Equal(t, tt.wantLimit, drive.lastLimit)
			}
		})
	}
}

func TestGraphHandler_ListChildren(t *testing.T) {
	drive := &stubDrive{files: []models.TreeNode{{ID: "F1", Name: "a.mp4"}, {ID: "D1", IsFolder: true, ChildCount: 2}}}
	h := NewGraphHandler(drive, &stubCatalog{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/graph/drives/drv/items/R/children", nil)
	req.SetPathValue("driveId", "drv")
	req.SetPathValue("itemId", "R")
	rec := httptest.NewRecorder()
	h.ListChildren(rec, withToken(req))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "drv", body["driveId"])
	assert.Equal(t, "R", body["itemId"])
	assert.Equal(t, "tok", drive.lastReq.AccessToken)
}

func TestGraphHandler_BuildCatalog(t *testing.T) {
	catalog := &stubCatalog{}
	h := NewGraphHandler(&stubDrive{}, catalog, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/graph/drives/drv/items/R/catalog", nil)
	req.SetPathValue("driveId", "drv")
	req.SetPathValue("itemId", "R")
	rec := httptest.NewRecorder()
	h.BuildCatalog(rec, withToken(req))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, float64(2), body["file_count"])
	assert.Equal(t, &catalogSvc.BuildCatalogRequest{AccessToken: "tok", DriveID: "drv", ItemID: "R"}, catalog.lastReq)
}

func TestCatalogRuns_CarryVerifiedUserID(t *testing.T) {
	withClaims := func(r *http.Request) *http.Request {
		claims := &authModels.AccessClaims{ObjectID: "oid-7"}
		claims.Subject = "sub-7"
		return httputil.WithClaims(withToken(r), claims)
	}

	t.Run("build", func(t *testing.T) {
		catalog := &stubCatalog{}
		h := NewGraphHandler(&stubDrive{}, catalog, discardLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/graph/drives/drv/items/R/catalog", nil)
		req.SetPathValue("driveId", "drv")
		req.SetPathValue("itemId", "R")
		rec := httptest.NewRecorder()
		h.BuildCatalog(rec, withClaims(req))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "oid-7", catalog.lastReq.UserID)
	})

	t.Run("rebuild", func(t *testing.T) {
		catalog := &stubCatalog{}
		h := NewCatalogHandler(catalog, discardLogger())

		rec := httptest.NewRecorder()
		h.Rebuild(rec, withClaims(httptest.NewRequest(http.MethodPost, "/api/catalog/rebuild", nil)))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "tok", catalog.lastRebuild.AccessToken)
		assert.Equal(t, "oid-7", catalog.lastRebuild.UserID)
	})

	t.Run("no verifier", func(t *testing.T) {
		catalog := &stubCatalog{}
		h := NewCatalogHandler(catalog, discardLogger())

		rec := httptest.NewRecorder()
		h.Rebuild(rec, withToken(httptest.NewRequest(http.MethodPost, "/api/catalog/rebuild", nil)))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, catalog.lastRebuild.UserID)
	})
}

func TestGraphHandler_BuildCatalogErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{
			name:     "listing failed",
			err:      &domain.RemoteFetchError{DriveID: "drv", ItemID: "C", Status: 503, Err: errors.New("throttled")},
			wantCode: http.StatusBadGateway,
			wantKind: "remote_fetch",
		},
		{
			name:     "enrichment failed",
			err:      &domain.EnrichmentError{DriveID: "drv", ItemID: "F1", FileName: "a.mp4", Err: errors.New("timeout")},
			wantCode: http.StatusBadGateway,
			wantKind: "enrichment",
		},
		{
			name:     "store failed",
			err:      &domain.PersistenceError{Entity: "training_master", ID: "D1", Err: errors.New("conn reset")},
			wantCode: http.StatusInternalServerError,
			wantKind: "persistence",
		},
		{
			name:     "validation",
			err:      domain.ErrValidation,
			wantCode: http.StatusBadRequest,
			wantKind: "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewGraphHandler(&stubDrive{}, &stubCatalog{err: tt.err}, discardLogger())

			rec := httptest.NewRecorder()
			h.BuildCatalog(rec, withToken(httptest.NewRequest(http.MethodPost, "/", nil)))

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantKind, decode(t, rec)["error_kind"])
		})
	}
}

func TestCatalogHandler_ListTrainingDetails(t *testing.T) {
	h := NewCatalogHandler(&stubCatalog{trainings: sampleTrainings()}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/trainings/D1/details", nil)
	req.SetPathValue("id", "D1")
	rec := httptest.NewRecorder()
	h.ListTrainingDetails(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "D1", body["training_id"])
	assert.Equal(t, float64(2), body["count"])

	req = httptest.NewRequest(http.MethodGet, "/api/catalog/trainings/nope/details", nil)
	req.SetPathValue("id", "nope")
	rec = httptest.NewRecorder()
	h.ListTrainingDetails(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandler_Export(t *testing.T) {
	h := NewCatalogHandler(&stubCatalog{trainings: sampleTrainings()}, discardLogger())

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Export(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/export", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Trainings []models.TrainingWithDetails `json:"trainings"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Trainings, 1)
		assert.Len(t, body.Trainings[0].Modules, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Export(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/export?format=yaml", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

		var body struct {
			Trainings []struct {
				TrainingID string  `yaml:"training_id"`
				Duration   float64 `yaml:"duration"`
				Modules    []struct {
					ModuleName string `yaml:"module_name"`
				} `yaml:"modules"`
			} `yaml:"trainings"`
		}
		require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Trainings, 1)
		assert.Equal(t, "D1", body.Trainings[0].TrainingID)
		assert.InDelta(t, 25.0, body.Trainings[0].Duration, 1e-9)
		require.Len(t, body.Trainings[0].Modules, 2)
		assert.Equal(t, "a.mp4", body.Trainings[0].Modules[0].ModuleName)
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Export(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/export?format=csv", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCatalogHandler_ListCategories(t *testing.T) {
	h := NewCatalogHandler(&stubCatalog{}, discardLogger())

	rec := httptest.NewRecorder()
	h.ListCategories(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"category":"Ops"`))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "UP", body["status"])
	assert.Equal(t, ServiceName, body["service"])
	assert.NotEmpty(t, body["timestamp"])
}
