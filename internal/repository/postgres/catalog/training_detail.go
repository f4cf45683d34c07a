package catalog

import (
	"context"
	"fmt"

	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	catalogRepo "github.com/FTI-LMS/LMS/internal/domain/repositories/catalog"
	"github.com/FTI-LMS/LMS/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTrainingDetailRepository implements the TrainingDetailRepository interface
type PostgresTrainingDetailRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewTrainingDetailRepository creates a new training detail repository
func NewTrainingDetailRepository(config *postgres.RepositoryConfig) catalogRepo.TrainingDetailRepository {
	return &PostgresTrainingDetailRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const detailColumns = `id, run_id, training_id, training_detail_id, module_name, module_topic,
	module_duration, module_path, trainer_name, created_at`

// Save appends one module row
func (r *PostgresTrainingDetailRepository) Save(ctx context.Context, detail *models.TrainingDetail) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, training_id, training_detail_id, module_name, module_topic,
			module_duration, module_path, trainer_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, r.tables.TrainingDetails)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		detail.RunID,
		detail.TrainingID,
		detail.TrainingDetailID,
		detail.ModuleName,
		detail.ModuleTopic,
		detail.Duration,
		detail.ModulePath,
		detail.InstructorName,
		detail.CreatedAt,
	).Scan(&detail.ID)
	if err != nil {
		return postgres.WrapPgError("insert training detail", err)
	}

	return nil
}

// FindAll returns every module in insertion order
func (r *PostgresTrainingDetailRepository) FindAll(ctx context.Context) ([]models.TrainingDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, detailColumns, r.tables.TrainingDetails)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, postgres.WrapPgError("list training details", err)
	}
	return scanDetails(rows)
}

// FindByTrainingID returns the modules of one training, all runs included
func (r *PostgresTrainingDetailRepository) FindByTrainingID(ctx context.Context, trainingID string) ([]models.TrainingDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE training_id = $1 ORDER BY id`, detailColumns, r.tables.TrainingDetails)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, trainingID)
	if err != nil {
		return nil, postgres.WrapPgError("list training details", err)
	}
	return scanDetails(rows)
}

func scanDetails(rows pgx.Rows) ([]models.TrainingDetail, error) {
	defer rows.Close()

	details := make([]models.TrainingDetail, 0)
	for rows.Next() {
		var d models.TrainingDetail
		if err := rows.Scan(
			&d.ID,
			&d.RunID,
			&d.TrainingID,
			&d.TrainingDetailID,
			&d.ModuleName,
			&d.ModuleTopic,
			&d.Duration,
			&d.ModulePath,
			&d.InstructorName,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan training detail: %w", err)
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training details: %w", err)
	}

	return details, nil
}
