package catalog

import (
	"context"
	"fmt"

	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	catalogRepo "github.com/FTI-LMS/LMS/internal/domain/repositories/catalog"
	"github.com/FTI-LMS/LMS/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTrainingMasterRepository implements the TrainingMasterRepository interface
type PostgresTrainingMasterRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewTrainingMasterRepository creates a new training master repository
func NewTrainingMasterRepository(config *postgres.RepositoryConfig) catalogRepo.TrainingMasterRepository {
	return &PostgresTrainingMasterRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Save appends one master row
func (r *PostgresTrainingMasterRepository) Save(ctx context.Context, master *models.TrainingMaster) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, training_id, training_name, training_category, training_topic,
			training_duration, training_content_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, r.tables.TrainingMaster)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		master.RunID,
		master.TrainingID,
		master.TrainingName,
		master.Category,
		master.TrainingTopic,
		master.Duration,
		master.TrainingContentPath,
		master.CreatedAt,
	).Scan(&master.ID)
	if err != nil {
		return postgres.WrapPgError("insert training master", err)
	}

	return nil
}

// FindAll returns every master in insertion order
func (r *PostgresTrainingMasterRepository) FindAll(ctx context.Context) ([]models.TrainingMaster, error) {
	query := fmt.Sprintf(`
		SELECT id, run_id, training_id, training_name, training_category, training_topic,
			training_duration, training_content_path, created_at
		FROM %s
		ORDER BY id
	`, r.tables.TrainingMaster)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, postgres.WrapPgError("list training masters", err)
	}
	defer rows.Close()

	masters := make([]models.TrainingMaster, 0)
	for rows.Next() {
		var m models.TrainingMaster
		if err := rows.Scan(
			&m.ID,
			&m.RunID,
			&m.TrainingID,
			&m.TrainingName,
			&m.Category,
			&m.TrainingTopic,
			&m.Duration,
			&m.TrainingContentPath,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan training master: %w", err)
		}
		masters = append(masters, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training masters: %w", err)
	}

	return masters, nil
}
