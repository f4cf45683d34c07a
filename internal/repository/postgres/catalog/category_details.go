package catalog

import (
	"context"
	"fmt"

	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	catalogRepo "github.com/FTI-LMS/LMS/internal/domain/repositories/catalog"
	"github.com/FTI-LMS/LMS/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCategoryDetailsRepository implements the CategoryDetailsRepository interface
type PostgresCategoryDetailsRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewCategoryDetailsRepository creates a new category details repository
func NewCategoryDetailsRepository(config *postgres.RepositoryConfig) catalogRepo.CategoryDetailsRepository {
	return &PostgresCategoryDetailsRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Save appends one enrichment row. A nil duration is stored as NULL.
func (r *PostgresCategoryDetailsRepository) Save(ctx context.Context, details *models.CategoryDetails) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, file_name, instructor_name, category, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, r.tables.CategoryDetails)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		details.RunID,
		details.FileName,
		details.InstructorName,
		details.Category,
		details.Duration,
		details.CreatedAt,
	).Scan(&details.ID)
	if err != nil {
		return postgres.WrapPgError("insert category details", err)
	}

	return nil
}

// FindAll returns every enrichment row in insertion order
func (r *PostgresCategoryDetailsRepository) FindAll(ctx context.Context) ([]models.CategoryDetails, error) {
	query := fmt.Sprintf(`
		SELECT id, run_id, file_name, instructor_name, category, duration, created_at
		FROM %s
		ORDER BY id
	`, r.tables.CategoryDetails)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, postgres.WrapPgError("list category details", err)
	}
	defer rows.Close()

	out := make([]models.CategoryDetails, 0)
	for rows.Next() {
		var c models.CategoryDetails
		if err := rows.Scan(
			&c.ID,
			&c.RunID,
			&c.FileName,
			&c.InstructorName,
			&c.Category,
			&c.Duration,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category details: %w", err)
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category details: %w", err)
	}

	return out, nil
}
