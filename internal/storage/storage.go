package storage

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/planner-api/internal/models"
)

var (
	// ErrNotFound is returned when an id does not resolve to a record,
	// including ids that are not well-formed for the backend.
	ErrNotFound = errors.New("storage: record not found")
	// ErrDuplicate is returned when a unique username or email already exists.
	ErrDuplicate = errors.New("storage: duplicate record")
)

// Storage is the persistence contract shared by every backend. All
// backends assign ids and server timestamps on create, list records
// newest-first and report deletes of unknown ids as false.
type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetTasks lists a user's tasks by createdAt descending.
	GetTasks(ctx context.Context, userID string) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) (bool, error)

	// GetNotes lists a user's notes by updatedAt descending.
	GetNotes(ctx context.Context, userID string) ([]models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	CreateNote(ctx context.Context, note *models.Note) error
	// UpdateNote always stamps a fresh updatedAt.
	UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) (bool, error)

	// GetJournals lists a user's journal entries by date descending.
	GetJournals(ctx context.Context, userID string) ([]models.Journal, error)
	GetJournal(ctx context.Context, id string) (*models.Journal, error)
	CreateJournal(ctx context.Context, journal *models.Journal) error
	UpdateJournal(ctx context.Context, id string, patch models.JournalPatch) (*models.Journal, error)
	DeleteJournal(ctx context.Context, id string) (bool, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Clock returns the current time. Stores take one so tests can control
// timestamps and ordering.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// later returns now, or prev when the clock has gone backwards, so that
// updatedAt never decreases.
func later(prev, now time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
