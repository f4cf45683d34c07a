package catalog

import (
	"context"
	"fmt"

	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	catalogRepo "github.com/FTI-LMS/LMS/internal/domain/repositories/catalog"
	"github.com/FTI-LMS/LMS/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresVideoFileRepository implements the VideoFileRepository interface
type PostgresVideoFileRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewVideoFileRepository creates a new video file repository
func NewVideoFileRepository(config *postgres.RepositoryConfig) catalogRepo.VideoFileRepository {
	return &PostgresVideoFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Save appends one flat record
func (r *PostgresVideoFileRepository) Save(ctx context.Context, file *models.VideoFile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, file_name, file_path, item_id, drive_id, folder_id, folder_name, folder_path, file_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, r.tables.VideoFiles)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.RunID,
		file.FileName,
		file.FilePath,
		file.ItemID,
		file.DriveID,
		file.FolderID,
		file.FolderName,
		file.FolderPath,
		file.SiblingCount,
	).Scan(&file.ID)
	if err != nil {
		return postgres.WrapPgError("insert video file", err)
	}

	return nil
}

// FindAll returns every record in insertion order
func (r *PostgresVideoFileRepository) FindAll(ctx context.Context) ([]models.VideoFile, error) {
	query := fmt.Sprintf(`
		SELECT id, run_id, file_name, file_path, item_id, drive_id, folder_id, folder_name, folder_path, file_count
		FROM %s
		ORDER BY id
	`, r.tables.VideoFiles)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, postgres.WrapPgError("list video files", err)
	}
	defer rows.Close()

	files := make([]models.VideoFile, 0)
	for rows.Next() {
		var f models.VideoFile
		if err := rows.Scan(
			&f.ID,
			&f.RunID,
			&f.FileName,
			&f.FilePath,
			&f.ItemID,
			&f.DriveID,
			&f.FolderID,
			&f.FolderName,
			&f.FolderPath,
			&f.SiblingCount,
		); err != nil {
			return nil, fmt.Errorf("scan video file: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video files: %w", err)
	}

	return files, nil
}
