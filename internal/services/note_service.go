package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/planner-api/internal/models"
	"github.com/yukikurage/planner-api/internal/storage"
)

// NoteService manages notes and their AI summaries.
type NoteService struct {
	store      storage.Storage
	summarizer Summarizer
	timeout    time.Duration
}

// NewNoteService creates a NoteService. A nil summarizer disables
// Summarize; a non-positive timeout leaves the call bounded only by ctx.
func NewNoteService(store storage.Storage, summarizer Summarizer, timeout time.Duration) *NoteService {
	return &NoteService{
		store:      store,
		summarizer: summarizer,
		timeout:    timeout,
	}
}

// CreateNoteInput represents input for creating a note. An empty category
// files the note under models.DefaultNoteCategory.
type CreateNoteInput struct {
	Title    string
	Content  string
	Category string
}

func (s *NoteService) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	notes, err := s.store.GetNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) GetNote(ctx context.Context, userID, noteID string) (*models.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	if note.UserID != userID {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (s *NoteService) CreateNote(ctx context.Context, userID string, input CreateNoteInput) (*models.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, invalid("title and content are required")
	}

	note := &models.Note{
		UserID:   userID,
		Title:    title,
		Content:  input.Content,
		Category: strings.TrimSpace(input.Category),
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// UpdateNote applies a client edit. Summaries are only written by
// Summarize, so patch.Summary is ignored.
func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID string, patch models.NotePatch) (*models.Note, error) {
	patch.Summary = nil
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalid("title cannot be empty")
		}
		patch.Title = &title
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, invalid("content cannot be empty")
	}
	if patch.Category != nil {
		category := strings.TrimSpace(*patch.Category)
		if category == "" {
			category = models.DefaultNoteCategory
		}
		patch.Category = &category
	}

	if _, err := s.GetNote(ctx, userID, noteID); err != nil {
		return nil, err
	}
	return s.update(ctx, noteID, patch)
}

func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	if _, err := s.GetNote(ctx, userID, noteID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if !deleted {
		return ErrNoteNotFound
	}
	return nil
}

// Summarize asks the summarizer for a digest of the note's content and
// stores it on the note.
func (s *NoteService) Summarize(ctx context.Context, userID, noteID string) (*models.Note, error) {
	if strings.TrimSpace(noteID) == "" {
		return nil, invalid("noteId is required")
	}

	note, err := s.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(note.Content) == "" {
		return nil, invalid("note has no content to summarize")
	}
	if s.summarizer == nil {
		return nil, ErrSummarizerNotConfigured
	}

	summary, err := s.summarize(ctx, note.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}
	slog.DebugContext(ctx, "note summarized", slog.String("note_id", noteID))

	return s.update(ctx, noteID, models.NotePatch{Summary: &summary})
}

// summarize runs the summarizer under the configured timeout. It returns
// once the deadline passes even if the summarizer ignores cancellation.
func (s *NoteService) summarize(ctx context.Context, content string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type result struct {
		summary string
		err     error
	}
	done := make(chan result, 1)
	go func() {
		summary, err := s.summarizer.Summarize(ctx, content)
		done <- result{summary: summary, err: err}
	}()

	select {
	case r := <-done:
		return r.summary, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *NoteService) update(ctx context.Context, noteID string, patch models.NotePatch) (*models.Note, error) {
	note, err := s.store.UpdateNote(ctx, noteID, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}
