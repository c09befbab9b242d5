package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/planner-api/internal/database"
	"github.com/yukikurage/planner-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the relational implementation of Storage.
type GormStore struct {
	db  *gorm.DB
	now Clock
}

// NewGormStore wraps an already migrated connection. A nil clock uses the
// system time.
func NewGormStore(db *gorm.DB, clock Clock) *GormStore {
	if clock == nil {
		clock = systemClock
	}
	return &GormStore{db: db, now: clock}
}

// Users

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = s.now()
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	return first[models.User](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx).Where("username = ?", username))
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx).Where("email = ?", email))
}

// Tasks

func (s *GormStore) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := s.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID), database.NewestFirst("created_at")).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *GormStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	return first[models.Task](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *GormStore) CreateTask(ctx context.Context, task *models.Task) error {
	task.ID = uuid.NewString()
	task.CreatedAt = s.now()
	task.ApplyDefaults()
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	return update(ctx, s.db, id, "update task", func(*models.Task) map[string]any {
		columns := map[string]any{}
		if patch.Title != nil {
			columns["title"] = *patch.Title
		}
		if patch.ClearDescription {
			columns["description"] = nil
		} else if patch.Description != nil {
			columns["description"] = *patch.Description
		}
		if patch.ClearDueDate {
			columns["due_date"] = nil
		} else if patch.DueDate != nil {
			columns["due_date"] = *patch.DueDate
		}
		if patch.Priority != nil {
			columns["priority"] = string(*patch.Priority)
		}
		if patch.Completed != nil {
			columns["completed"] = *patch.Completed
		}
		return columns
	})
}

func (s *GormStore) DeleteTask(ctx context.Context, id string) (bool, error) {
	return s.delete(ctx, &models.Task{}, id)
}

// Notes

func (s *GormStore) GetNotes(ctx context.Context, userID string) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	if err := s.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID), database.NewestFirst("updated_at")).
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *GormStore) GetNote(ctx context.Context, id string) (*models.Note, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	return first[models.Note](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *GormStore) CreateNote(ctx context.Context, note *models.Note) error {
	now := s.now()
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now
	note.ApplyDefaults()
	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	return update(ctx, s.db, id, "update note", func(current *models.Note) map[string]any {
		columns := map[string]any{
			"updated_at": later(current.UpdatedAt, s.now()),
		}
		if patch.Title != nil {
			columns["title"] = *patch.Title
		}
		if patch.Content != nil {
			columns["content"] = *patch.Content
		}
		if patch.Category != nil {
			columns["category"] = *patch.Category
		}
		if patch.Summary != nil {
			columns["summary"] = *patch.Summary
		}
		return columns
	})
}

func (s *GormStore) DeleteNote(ctx context.Context, id string) (bool, error) {
	return s.delete(ctx, &models.Note{}, id)
}

// Journals

func (s *GormStore) GetJournals(ctx context.Context, userID string) ([]models.Journal, error) {
	journals := make([]models.Journal, 0)
	if err := s.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID), database.NewestFirst("date")).
		Find(&journals).Error; err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	return journals, nil
}

func (s *GormStore) GetJournal(ctx context.Context, id string) (*models.Journal, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	return first[models.Journal](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *GormStore) CreateJournal(ctx context.Context, journal *models.Journal) error {
	journal.ID = uuid.NewString()
	journal.CreatedAt = s.now()
	journal.ApplyDefaults()
	if err := s.db.WithContext(ctx).Create(journal).Error; err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateJournal(ctx context.Context, id string, patch models.JournalPatch) (*models.Journal, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	return update(ctx, s.db, id, "update journal", func(*models.Journal) map[string]any {
		columns := map[string]any{}
		if patch.Content != nil {
			columns["content"] = *patch.Content
		}
		if patch.Mood != nil {
			columns["mood"] = *patch.Mood
		}
		if patch.ClearActivities {
			columns["activities"] = nil
		} else if patch.Activities != nil {
			columns["activities"] = *patch.Activities
		}
		if patch.Date != nil {
			columns["date"] = *patch.Date
		}
		return columns
	})
}

func (s *GormStore) DeleteJournal(ctx context.Context, id string) (bool, error) {
	return s.delete(ctx, &models.Journal{}, id)
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) delete(ctx context.Context, model any, id string) (bool, error) {
	if !validUUID(id) {
		return false, nil
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return false, fmt.Errorf("delete: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// update writes only the patched columns of the row with id, inside a
// transaction that locks the row where the dialect supports it. A row that
// disappears before the write is ErrNotFound, never re-inserted.
func update[T any](ctx context.Context, db *gorm.DB, id, op string, columns func(current *T) map[string]any) (*T, error) {
	var updated *T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := first[T](tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).Where("id = ?", id))
		if err != nil {
			return err
		}

		changes := columns(current)
		if len(changes) == 0 {
			updated = current
			return nil
		}

		res := tx.Model(new(T)).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		updated, err = first[T](tx.Where("id = ?", id))
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func first[T any](query *gorm.DB) (*T, error) {
	var record T
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
