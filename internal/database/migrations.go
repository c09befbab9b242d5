package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/planner-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema and the listing indexes.
func Migrate(db *gorm.DB) error {
	slog.Info("running database migrations")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Note{},
		&models.Journal{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}

// AddIndexes adds the per-owner indexes that back the newest-first listings.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   any
		table   string
		name    string
		columns string
	}{
		{&models.Task{}, "tasks", "idx_tasks_user_created", "user_id, created_at"},
		{&models.Note{}, "notes", "idx_notes_user_updated", "user_id, updated_at"},
		{&models.Journal{}, "journals", "idx_journals_user_date", "user_id, date"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			slog.Debug("index already exists, skipping", slog.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", slog.String("index", idx.name), slog.String("table", idx.table))
	}

	return nil
}
