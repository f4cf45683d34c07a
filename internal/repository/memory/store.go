// Package memory is an in-process catalog store. Rows live until the process exits.
package memory

import (
	"context"
	"sync"

	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	catalogRepo "github.com/FTI-LMS/LMS/internal/domain/repositories/catalog"
)

// table is an append-only slice with an id sequence
type table[T any] struct {
	mu     sync.RWMutex
	rows   []T
	nextID int64
}

func (t *table[T]) insert(row *T, setID func(*T, int64)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	setID(row, t.nextID)
	t.rows = append(t.rows, *row)
}

func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// NewStore returns an empty in-memory catalog store
func NewStore() catalogRepo.Store {
	return catalogRepo.Store{
		VideoFiles:      &VideoFileRepository{},
		Masters:         &TrainingMasterRepository{},
		Details:         &TrainingDetailRepository{},
		CategoryDetails: &CategoryDetailsRepository{},
	}
}

// VideoFileRepository implements catalog.VideoFileRepository
type VideoFileRepository struct {
	t table[models.VideoFile]
}

func (r *VideoFileRepository) Save(ctx context.Context, file *models.VideoFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.t.insert(file, func(f *models.VideoFile, id int64) { f.ID = id })
	return nil
}

func (r *VideoFileRepository) FindAll(ctx context.Context) ([]models.VideoFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.t.filter(nil), nil
}

// TrainingMasterRepository implements catalog.TrainingMasterRepository
type TrainingMasterRepository struct {
	t table[models.TrainingMaster]
}

func (r *TrainingMasterRepository) Save(ctx context.Context, master *models.TrainingMaster) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.t.insert(master, func(m *models.TrainingMaster, id int64) { m.ID = id })
	return nil
}

func (r *TrainingMasterRepository) FindAll(ctx context.Context) ([]models.TrainingMaster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.t.filter(nil), nil
}

// TrainingDetailRepository implements catalog.TrainingDetailRepository
type TrainingDetailRepository struct {
	t table[models.TrainingDetail]
}

func (r *TrainingDetailRepository) Save(ctx context.Context, detail *models.TrainingDetail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.t.insert(detail, func(d *models.TrainingDetail, id int64) { d.ID = id })
	return nil
}

func (r *TrainingDetailRepository) FindAll(ctx context.Context) ([]models.TrainingDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.t.filter(nil), nil
}

func (r *TrainingDetailRepository) FindByTrainingID(ctx context.Context, trainingID string) ([]models.TrainingDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.t.filter(func(d models.TrainingDetail) bool { return d.TrainingID == trainingID }), nil
}

// CategoryDetailsRepository implements catalog.CategoryDetailsRepository
type CategoryDetailsRepository struct {
	t table[models.CategoryDetails]
}

func (r *CategoryDetailsRepository) Save(ctx context.Context, details *models.CategoryDetails) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.t.insert(details, func(c *models.CategoryDetails, id int64) { c.ID = id })
	return nil
}

func (r *CategoryDetailsRepository) FindAll(ctx context.Context) ([]models.CategoryDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.t.filter(nil), nil
}
