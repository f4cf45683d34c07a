package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the catalog tables if they do not exist. There are no unique
// constraints: every run appends rows, duplicates included.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				run_id TEXT NOT NULL,
				file_name TEXT NOT NULL,
				file_path TEXT NOT NULL DEFAULT '',
				item_id TEXT NOT NULL,
				drive_id TEXT NOT NULL,
				folder_id TEXT NOT NULL,
				folder_name TEXT NOT NULL DEFAULT '',
				folder_path TEXT NOT NULL DEFAULT '',
				file_count INTEGER NOT NULL DEFAULT 0
			)`, tables.VideoFiles),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				run_id TEXT NOT NULL,
				file_name TEXT NOT NULL,
				instructor_name TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT '',
				duration DOUBLE PRECISION,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.CategoryDetails),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				run_id TEXT NOT NULL,
				training_id TEXT NOT NULL,
				training_name TEXT NOT NULL DEFAULT '',
				training_category TEXT NOT NULL DEFAULT '',
				training_topic TEXT NOT NULL DEFAULT '',
				training_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
				training_content_path TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.TrainingMaster),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				run_id TEXT NOT NULL,
				training_id TEXT NOT NULL,
				training_detail_id TEXT NOT NULL,
				module_name TEXT NOT NULL DEFAULT '',
				module_topic TEXT NOT NULL DEFAULT '',
				module_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
				module_path TEXT NOT NULL DEFAULT '',
				trainer_name TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.TrainingDetails),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_training_id_idx ON %[1]s (training_id)`, tables.TrainingDetails),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return WrapPgError("ensure schema", err)
		}
	}
	return nil
}
