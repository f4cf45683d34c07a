package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FTI-LMS/LMS/internal/domain"
	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	"github.com/FTI-LMS/LMS/internal/domain/repositories"
	catalogRepo "github.com/FTI-LMS/LMS/internal/domain/repositories/catalog"
	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"

	"github.com/google/uuid"
)

// Options configures catalog runs
type Options struct {
	TraversalConcurrency  int
	EnrichmentConcurrency int
	ContinueOnError       bool
	// Atomic saves all rows of a run in one transaction; requires a TransactionManager
	Atomic bool
}

type catalogService struct {
	store     catalogRepo.Store
	clients   catalogSvc.ClientFactory
	txManager repositories.TransactionManager
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
}

// NewCatalogService creates a new catalog service.
// txManager may be nil when opts.Atomic is false.
func NewCatalogService(
	store catalogRepo.Store,
	clients catalogSvc.ClientFactory,
	txManager repositories.TransactionManager,
	opts Options,
	logger *slog.Logger,
) catalogSvc.CatalogService {
	if opts.Atomic && txManager == nil {
		logger.Warn("atomic persistence requested without a transaction manager, saving incrementally")
		opts.Atomic = false
	}
	return &catalogService{
		store:     store,
		clients:   clients,
		txManager: txManager,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// BuildCatalog traverses, persists the flat records, aggregates and persists the result.
// Rows are appended; nothing already stored is updated or deduplicated.
func (s *catalogService) BuildCatalog(ctx context.Context, req *catalogSvc.BuildCatalogRequest) (*catalogSvc.BuildReport, error) {
	if err := validateBuildRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	report := s.newReport()
	report.DriveID = req.DriveID
	report.ItemID = req.ItemID

	traverser := NewTraverser(s.clients.Drive(req.AccessToken), s.opts.TraversalConcurrency, s.logger)
	files, err := traverser.Traverse(ctx, req.DriveID, req.ItemID)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].RunID = report.RunID
	}
	report.FileCount = len(files)

	aggregator := s.newAggregator(req.AccessToken)

	var result *catalogSvc.AggregateResult
	if s.opts.Atomic {
		if result, err = aggregator.Aggregate(ctx, files); err != nil {
			return nil, err
		}
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			if err := s.saveFiles(txCtx, files); err != nil {
				return err
			}
			return s.saveResult(txCtx, report.RunID, result)
		})
		if err != nil {
			return nil, err
		}
	} else {
		// flat records are stored before enrichment so a failed run can be rebuilt
		if err := s.saveFiles(ctx, files); err != nil {
			return nil, err
		}
		if result, err = aggregator.Aggregate(ctx, files); err != nil {
			return nil, err
		}
		if err := s.saveResult(ctx, report.RunID, result); err != nil {
			return nil, err
		}
	}

	s.finishReport(report, result)
	s.logger.Info("catalog built",
		"run_id", report.RunID,
		"user_id", req.UserID,
		"drive_id", req.DriveID,
		"item_id", req.ItemID,
		"file_count", report.FileCount,
		"training_count", report.TrainingCount,
		"failed", len(report.Failures),
	)

	return report, nil
}

// RebuildCatalog aggregates every stored flat record again under a new run id.
func (s *catalogService) RebuildCatalog(ctx context.Context, req *catalogSvc.RebuildCatalogRequest) (*catalogSvc.BuildReport, error) {
	if err := validateRebuildRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	report := s.newReport()

	files, err := s.store.VideoFiles.FindAll(ctx)
	if err != nil {
		return nil, wrapPersistence("video_file", "", err)
	}
	report.FileCount = len(files)

	result, err := s.newAggregator(req.AccessToken).Aggregate(ctx, files)
	if err != nil {
		return nil, err
	}

	save := func(ctx context.Context) error { return s.saveResult(ctx, report.RunID, result) }
	if s.opts.Atomic {
		err = s.txManager.ExecTx(ctx, save)
	} else {
		err = save(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.finishReport(report, result)
	s.logger.Info("catalog rebuilt",
		"run_id", report.RunID,
		"user_id", req.UserID,
		"file_count", report.FileCount,
		"training_count", report.TrainingCount,
		"failed", len(report.Failures),
	)

	return report, nil
}

// ListTrainings returns every stored master, all runs included
func (s *catalogService) ListTrainings(ctx context.Context) ([]models.TrainingMaster, error) {
	masters, err := s.store.Masters.FindAll(ctx)
	if err != nil {
		return nil, wrapPersistence("training_master", "", err)
	}
	return masters, nil
}

// ListTrainingDetails returns the stored modules of one training
func (s *catalogService) ListTrainingDetails(ctx context.Context, trainingID string) ([]models.TrainingDetail, error) {
	if err := validateTrainingID(trainingID); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	details, err := s.store.Details.FindByTrainingID(ctx, trainingID)
	if err != nil {
		return nil, wrapPersistence("training_detail", trainingID, err)
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("training %s: %w", trainingID, domain.ErrNotFound)
	}
	return details, nil
}

// ListCategoryDetails returns the raw enrichment rows
func (s *catalogService) ListCategoryDetails(ctx context.Context) ([]models.CategoryDetails, error) {
	rows, err := s.store.CategoryDetails.FindAll(ctx)
	if err != nil {
		return nil, wrapPersistence("category_details", "", err)
	}
	return rows, nil
}

// ExportCatalog nests details under their master. Details are matched on run and
// training id so repeated runs over the same folder stay separate.
func (s *catalogService) ExportCatalog(ctx context.Context) ([]models.TrainingWithDetails, error) {
	masters, err := s.store.Masters.FindAll(ctx)
	if err != nil {
		return nil, wrapPersistence("training_master", "", err)
	}
	details, err := s.store.Details.FindAll(ctx)
	if err != nil {
		return nil, wrapPersistence("training_detail", "", err)
	}

	type key struct{ run, training string }
	modules := make(map[key][]models.TrainingDetail)
	for _, d := range details {
		k := key{d.RunID, d.TrainingID}
		modules[k] = append(modules[k], d)
	}

	out := make([]models.TrainingWithDetails, 0, len(masters))
	for _, m := range masters {
		mods := modules[key{m.RunID, m.TrainingID}]
		if mods == nil {
			mods = []models.TrainingDetail{}
		}
		out = append(out, models.TrainingWithDetails{TrainingMaster: m, Modules: mods})
	}
	return out, nil
}

func (s *catalogService) newAggregator(accessToken string) *Aggregator {
	return NewAggregator(s.clients.Enrichment(accessToken), AggregatorOptions{
		Concurrency:     s.opts.EnrichmentConcurrency,
		ContinueOnError: s.opts.ContinueOnError,
	}, s.logger)
}

func (s *catalogService) newReport() *catalogSvc.BuildReport {
	return &catalogSvc.BuildReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Failures:  []catalogSvc.FileFailure{},
	}
}

func (s *catalogService) finishReport(report *catalogSvc.BuildReport, result *catalogSvc.AggregateResult) {
	report.Enriched = len(result.Details)
	report.TrainingCount = len(result.Masters)
	report.DetailCount = len(result.Details)
	report.Failures = result.Failures
	report.FinishedAt = s.now()
}

// saveFiles appends the flat records one row at a time
func (s *catalogService) saveFiles(ctx context.Context, files []models.VideoFile) error {
	for i := range files {
		if err := s.store.VideoFiles.Save(ctx, &files[i]); err != nil {
			return wrapPersistence("video_file", files[i].ItemID, err)
		}
	}
	return nil
}

// saveResult appends masters, then details, then category rows
func (s *catalogService) saveResult(ctx context.Context, runID string, result *catalogSvc.AggregateResult) error {
	createdAt := s.now()

	for i := range result.Masters {
		m := &result.Masters[i]
		m.RunID = runID
		m.CreatedAt = createdAt
		if err := s.store.Masters.Save(ctx, m); err != nil {
			return wrapPersistence("training_master", m.TrainingID, err)
		}
	}
	for i := range result.Details {
		d := &result.Details[i]
		d.RunID = runID
		d.CreatedAt = createdAt
		if err := s.store.Details.Save(ctx, d); err != nil {
			return wrapPersistence("training_detail", d.TrainingDetailID, err)
		}
	}
	for i := range result.Categories {
		c := &result.Categories[i]
		c.RunID = runID
		c.CreatedAt = createdAt
		if err := s.store.CategoryDetails.Save(ctx, c); err != nil {
			return wrapPersistence("category_details", c.FileName, err)
		}
	}
	return nil
}

func wrapPersistence(entity, id string, err error) error {
	if errors.Is(err, domain.ErrPersistence) {
		return err
	}
	return &domain.PersistenceError{Entity: entity, ID: id, Err: err}
}
