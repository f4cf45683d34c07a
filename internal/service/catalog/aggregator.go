package catalog

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/FTI-LMS/LMS/internal/domain"
	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"

	"golang.org/x/sync/errgroup"
)

// AggregatorOptions tunes the enrichment fan-out
type AggregatorOptions struct {
	Concurrency     int  // Maximum concurrent enrichment calls (minimum 1)
	ContinueOnError bool // Skip files whose enrichment fails instead of aborting
}

// Aggregator enriches flat file records and derives training records from them.
// It holds no state between calls and never touches persistence.
type Aggregator struct {
	client catalogSvc.EnrichmentClient
	opts   AggregatorOptions
	logger *slog.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(client catalogSvc.EnrichmentClient, opts AggregatorOptions, logger *slog.Logger) *Aggregator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Aggregator{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

// Aggregate enriches every file and groups the results by parent folder.
//
// One TrainingDetail is produced per enriched file, in input order. One
// TrainingMaster is produced per folder, in first-seen order; its category and
// topic are copied from the first enriched file of the folder and its duration
// is the sum of its modules' durations.
//
// By default the first enrichment failure aborts the call. With ContinueOnError
// the failing files are left out and listed in Failures.
func (a *Aggregator) Aggregate(ctx context.Context, files []models.VideoFile) (*catalogSvc.AggregateResult, error) {
	enriched, failed, err := a.enrichAll(ctx, files)
	if err != nil {
		return nil, err
	}

	result := &catalogSvc.AggregateResult{
		Masters:    make([]models.TrainingMaster, 0),
		Details:    make([]models.TrainingDetail, 0, len(files)),
		Categories: make([]models.CategoryDetails, 0, len(files)),
		Failures:   make([]catalogSvc.FileFailure, 0),
	}
	masterIndex := make(map[string]int)

	for i, file := range files {
		if failed[i] != nil {
			result.Failures = append(result.Failures, catalogSvc.FileFailure{
				ItemID:   file.ItemID,
				FolderID: file.FolderID,
				FileName: file.FileName,
				Reason:   failed[i].Error(),
			})
			continue
		}

		meta := enriched[i]
		detail := models.TrainingDetail{
			TrainingID:       file.FolderID,
			TrainingDetailID: file.ItemID,
			ModuleName:       file.FileName,
			ModuleTopic:      meta.TrainingTopic,
			Duration:         meta.Minutes(),
			ModulePath:       file.FilePath,
			InstructorName:   meta.InstructorName,
		}
		result.Details = append(result.Details, detail)
		result.Categories = append(result.Categories, models.CategoryDetails{
			FileName:       file.FileName,
			InstructorName: meta.InstructorName,
			Category:       meta.Category,
			Duration:       reportedDuration(meta),
		})

		idx, seen := masterIndex[file.FolderID]
		if !seen {
			result.Masters = append(result.Masters, models.TrainingMaster{
				TrainingID:          file.FolderID,
				TrainingName:        file.FolderName,
				Category:            meta.Category,
				TrainingTopic:       meta.TrainingTopic,
				TrainingContentPath: contentPath(file),
			})
			idx = len(result.Masters) - 1
			masterIndex[file.FolderID] = idx
		}
		result.Masters[idx].Duration += detail.Duration
	}

	a.logger.Info("catalog aggregated",
		"file_count", len(files),
		"enriched", len(result.Details),
		"failed", len(result.Failures),
		"training_count", len(result.Masters),
	)

	return result, nil
}

// enrichAll calls the enrichment client for every file with bounded concurrency.
// Results are stored by input position. failed[i] is set only with ContinueOnError.
func (a *Aggregator) enrichAll(ctx context.Context, files []models.VideoFile) ([]models.EnrichedMetadata, []error, error) {
	enriched := make([]models.EnrichedMetadata, len(files))
	failed := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)

	for i := range files {
		file := files[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			meta, err := a.client.Enrich(gctx, file.FileName, file.DriveID, file.ItemID)
			if err != nil {
				err = asEnrichmentError(err, file)
				if a.opts.ContinueOnError {
					a.logger.Warn("enrichment failed, skipping file",
						"item_id", file.ItemID,
						"folder_id", file.FolderID,
						"error", err,
					)
					failed[i] = err
					return nil
				}
				return err
			}

			enriched[i] = meta
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return enriched, failed, nil
}

func asEnrichmentError(err error, file models.VideoFile) error {
	if errors.Is(err, domain.ErrEnrichment) {
		return err
	}
	return &domain.EnrichmentError{
		DriveID:  file.DriveID,
		ItemID:   file.ItemID,
		FileName: file.FileName,
		Err:      err,
	}
}

// contentPath is the folder's web URL, or the file URL with its last segment removed
// when the folder URL is unknown (the traversal root).
// reportedDuration is the raw duration for the category row, nil when it is not a finite number
func reportedDuration(meta models.EnrichedMetadata) *float64 {
	if meta.Duration == nil || math.IsNaN(*meta.Duration) || math.IsInf(*meta.Duration, 0) {
		return nil
	}
	return meta.Duration
}

func contentPath(file models.VideoFile) string {
	if file.FolderPath != "" {
		return file.FolderPath
	}
	if i := strings.LastIndex(file.FilePath, "/"); i > 0 {
		return file.FilePath[:i]
	}
	return ""
}
