package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/FTI-LMS/LMS/internal/domain/models/catalog"
)

// CatalogService builds and reads the training catalog
type CatalogService interface {
	// BuildCatalog traverses the tree under (driveID, itemID), enriches every file and
	// appends the resulting flat records, masters and details to the store.
	// Running it twice on an unchanged tree appends a second copy of every row.
	BuildCatalog(ctx context.Context, req *BuildCatalogRequest) (*BuildReport, error)

	// RebuildCatalog aggregates every previously stored flat record again and
	// appends a fresh set of masters and details.
	RebuildCatalog(ctx context.Context, req *RebuildCatalogRequest) (*BuildReport, error)

	ListTrainings(ctx context.Context) ([]catalog.TrainingMaster, error)
	ListTrainingDetails(ctx context.Context, trainingID string) ([]catalog.TrainingDetail, error)
	ListCategoryDetails(ctx context.Context) ([]catalog.CategoryDetails, error)

	// ExportCatalog returns every master with its modules nested
	ExportCatalog(ctx context.Context) ([]catalog.TrainingWithDetails, error)
}

// BuildCatalogRequest represents a catalog build for one subtree
type BuildCatalogRequest struct {
	AccessToken string `json:"-"`
	UserID      string `json:"-"` // verified token subject, empty without a verifier
	DriveID     string `json:"drive_id"`
	ItemID      string `json:"item_id"`
}

// RebuildCatalogRequest represents a rebuild from stored flat records
type RebuildCatalogRequest struct {
	AccessToken string `json:"-"`
	UserID      string `json:"-"`
}

// FileFailure describes one file whose enrichment failed during a run
// that was allowed to continue past errors.
type FileFailure struct {
	ItemID   string `json:"item_id"`
	FolderID string `json:"folder_id"`
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// AggregateResult is the output of one aggregation pass.
// Masters are in first-seen-folder order, Details and Categories in input order.
type AggregateResult struct {
	Masters    []catalog.TrainingMaster
	Details    []catalog.TrainingDetail
	Categories []catalog.CategoryDetails
	Failures   []FileFailure
}

// BuildReport summarises one build or rebuild run
type BuildReport struct {
	RunID         string        `json:"run_id"`
	DriveID       string        `json:"drive_id,omitempty"`
	ItemID        string        `json:"item_id,omitempty"`
	FileCount     int           `json:"file_count"`
	Enriched      int           `json:"enriched"`
	TrainingCount int           `json:"training_count"`
	DetailCount   int           `json:"detail_count"`
	Failures      []FileFailure `json:"failures"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
}

// DriveService proxies the remote drive for the listing endpoints
type DriveService interface {
	UserInfo(ctx context.Context, accessToken string) (json.RawMessage, error)
	ListRootFiles(ctx context.Context, accessToken string) ([]catalog.TreeNode, error)
	ListRecentFiles(ctx context.Context, accessToken string, limit int) ([]catalog.TreeNode, error)
	ListChildren(ctx context.Context, req *ListChildrenRequest) ([]catalog.TreeNode, error)
}

// ListChildrenRequest represents a one-level listing
type ListChildrenRequest struct {
	AccessToken string
	DriveID     string
	ItemID      string
}
