package catalog

import (
	"context"

	"github.com/FTI-LMS/LMS/internal/domain/models/catalog"
)

// Rows are append-only: there is no update or delete. Saving the same logical
// record twice stores two rows.

// VideoFileRepository persists the flat file records produced by a traversal
type VideoFileRepository interface {
	// Save appends one record and assigns its ID
	Save(ctx context.Context, file *catalog.VideoFile) error

	// FindAll returns every stored record in insertion order
	FindAll(ctx context.Context) ([]catalog.VideoFile, error)
}

// TrainingMasterRepository persists course-level records
type TrainingMasterRepository interface {
	Save(ctx context.Context, master *catalog.TrainingMaster) error
	FindAll(ctx context.Context) ([]catalog.TrainingMaster, error)
}

// TrainingDetailRepository persists module-level records
type TrainingDetailRepository interface {
	Save(ctx context.Context, detail *catalog.TrainingDetail) error
	FindAll(ctx context.Context) ([]catalog.TrainingDetail, error)

	// FindByTrainingID returns the modules of one training in insertion order
	FindByTrainingID(ctx context.Context, trainingID string) ([]catalog.TrainingDetail, error)
}

// CategoryDetailsRepository persists raw per-file enrichment results
type CategoryDetailsRepository interface {
	Save(ctx context.Context, details *catalog.CategoryDetails) error
	FindAll(ctx context.Context) ([]catalog.CategoryDetails, error)
}

// Store groups the catalog repositories handed to the catalog service.
type Store struct {
	VideoFiles      VideoFileRepository
	Masters         TrainingMasterRepository
	Details         TrainingDetailRepository
	CategoryDetails CategoryDetailsRepository
}
