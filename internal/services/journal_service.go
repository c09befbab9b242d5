package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/planner-api/internal/models"
	"github.com/yukikurage/planner-api/internal/storage"
)

// JournalService manages journal entries.
type JournalService struct {
	store storage.Storage
}

func NewJournalService(store storage.Storage) *JournalService {
	return &JournalService{store: store}
}

// CreateJournalInput represents input for a new entry. A nil Date dates the
// entry at creation time.
type CreateJournalInput struct {
	Content    string
	Mood       string
	Activities *string
	Date       *time.Time
}

func (s *JournalService) ListJournals(ctx context.Context, userID string) ([]models.Journal, error) {
	journals, err := s.store.GetJournals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	return journals, nil
}

func (s *JournalService) GetJournal(ctx context.Context, userID, journalID string) (*models.Journal, error) {
	journal, err := s.store.GetJournal(ctx, journalID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrJournalNotFound
		}
		return nil, fmt.Errorf("failed to find journal: %w", err)
	}
	if journal.UserID != userID {
		return nil, ErrJournalNotFound
	}
	return journal, nil
}

func (s *JournalService) CreateJournal(ctx context.Context, userID string, input CreateJournalInput) (*models.Journal, error) {
	if strings.TrimSpace(input.Content) == "" || strings.TrimSpace(input.Mood) == "" {
		return nil, invalid("content and mood are required")
	}

	journal := &models.Journal{
		UserID:     userID,
		Content:    input.Content,
		Mood:       strings.TrimSpace(input.Mood),
		Activities: input.Activities,
	}
	if input.Date != nil {
		journal.Date = *input.Date
	}
	if err := s.store.CreateJournal(ctx, journal); err != nil {
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}
	return journal, nil
}

func (s *JournalService) UpdateJournal(ctx context.Context, userID, journalID string, patch models.JournalPatch) (*models.Journal, error) {
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, invalid("content cannot be empty")
	}
	if patch.Mood != nil {
		mood := strings.TrimSpace(*patch.Mood)
		if mood == "" {
			return nil, invalid("mood cannot be empty")
		}
		patch.Mood = &mood
	}

	if _, err := s.GetJournal(ctx, userID, journalID); err != nil {
		return nil, err
	}

	journal, err := s.store.UpdateJournal(ctx, journalID, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrJournalNotFound
		}
		return nil, fmt.Errorf("failed to update journal: %w", err)
	}
	return journal, nil
}

func (s *JournalService) DeleteJournal(ctx context.Context, userID, journalID string) error {
	if _, err := s.GetJournal(ctx, userID, journalID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteJournal(ctx, journalID)
	if err != nil {
		return fmt.Errorf("failed to delete journal: %w", err)
	}
	if !deleted {
		return ErrJournalNotFound
	}
	return nil
}
