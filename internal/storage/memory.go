package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/planner-api/internal/models"
)

// MemoryStore keeps every record in process memory. Records are copied on
// the way in and on the way out so callers never share state with the store.
type MemoryStore struct {
	mu  sync.RWMutex
	now Clock

	users           map[string]models.User
	usersByUsername map[string]string
	usersByEmail    map[string]string
	tasks           map[string]models.Task
	notes           map[string]models.Note
	journals        map[string]models.Journal
}

// NewMemoryStore creates an empty MemoryStore. A nil clock uses the system time.
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = systemClock
	}
	return &MemoryStore{
		now:             clock,
		users:           make(map[string]models.User),
		usersByUsername: make(map[string]string),
		usersByEmail:    make(map[string]string),
		tasks:           make(map[string]models.Task),
		notes:           make(map[string]models.Note),
		journals:        make(map[string]models.Journal),
	}
}

// Users

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByUsername[user.Username]; ok {
		return ErrDuplicate
	}
	if _, ok := s.usersByEmail[user.Email]; ok {
		return ErrDuplicate
	}

	user.ID = uuid.NewString()
	user.CreatedAt = s.now()

	s.users[user.ID] = user.Clone()
	s.usersByUsername[user.Username] = user.ID
	s.usersByEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLocked(id)
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLocked(s.usersByUsername[username])
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLocked(s.usersByEmail[email])
}

func (s *MemoryStore) userLocked(id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := user.Clone()
	return &out, nil
}

// Tasks

func (s *MemoryStore) GetTasks(_ context.Context, userID string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t.Clone())
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return newerFirst(tasks[i].CreatedAt, tasks[j].CreatedAt, tasks[i].ID, tasks[j].ID)
	})
	return tasks, nil
}

func (s *MemoryStore) GetTask(_ context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := t.Clone()
	return &out, nil
}

func (s *MemoryStore) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = uuid.NewString()
	task.CreatedAt = s.now()
	task.ApplyDefaults()
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&t)
	s.tasks[id] = t.Clone()
	out := t.Clone()
	return &out, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

// Notes

func (s *MemoryStore) GetNotes(_ context.Context, userID string) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]models.Note, 0)
	for _, n := range s.notes {
		if n.UserID == userID {
			notes = append(notes, n.Clone())
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return newerFirst(notes[i].UpdatedAt, notes[j].UpdatedAt, notes[i].ID, notes[j].ID)
	})
	return notes, nil
}

func (s *MemoryStore) GetNote(_ context.Context, id string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := n.Clone()
	return &out, nil
}

func (s *MemoryStore) CreateNote(_ context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now
	note.ApplyDefaults()
	s.notes[note.ID] = note.Clone()
	return nil
}

func (s *MemoryStore) UpdateNote(_ context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&n)
	n.UpdatedAt = later(n.UpdatedAt, s.now())
	s.notes[id] = n.Clone()
	out := n.Clone()
	return &out, nil
}

func (s *MemoryStore) DeleteNote(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return false, nil
	}
	delete(s.notes, id)
	return true, nil
}

// Journals

func (s *MemoryStore) GetJournals(_ context.Context, userID string) ([]models.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	journals := make([]models.Journal, 0)
	for _, j := range s.journals {
		if j.UserID == userID {
			journals = append(journals, j.Clone())
		}
	}
	sort.Slice(journals, func(i, k int) bool {
		return newerFirst(journals[i].Date, journals[k].Date, journals[i].ID, journals[k].ID)
	})
	return journals, nil
}

func (s *MemoryStore) GetJournal(_ context.Context, id string) (*models.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.journals[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := j.Clone()
	return &out, nil
}

func (s *MemoryStore) CreateJournal(_ context.Context, journal *models.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	journal.ID = uuid.NewString()
	journal.CreatedAt = s.now()
	journal.ApplyDefaults()
	s.journals[journal.ID] = journal.Clone()
	return nil
}

func (s *MemoryStore) UpdateJournal(_ context.Context, id string, patch models.JournalPatch) (*models.Journal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.journals[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&j)
	s.journals[id] = j.Clone()
	out := j.Clone()
	return &out, nil
}

func (s *MemoryStore) DeleteJournal(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.journals[id]; !ok {
		return false, nil
	}
	delete(s.journals, id)
	return true, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

// newerFirst orders by timestamp descending, then id descending.
func newerFirst(a, b time.Time, aID, bID string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID > bID
}
