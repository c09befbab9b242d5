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

// TaskService handles task business logic. Every call is scoped to the
// acting user; tasks owned by someone else are reported as missing.
type TaskService struct {
	store storage.Storage
}

// NewTaskService creates a new TaskService
func NewTaskService(store storage.Storage) *TaskService {
	return &TaskService{store: store}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    models.Priority
}

// ListTasks returns the user's tasks, newest first.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.store.GetTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task owned by userID.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.UserID != userID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// CreateTask creates an incomplete task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, invalid("priority must be one of low, medium, high")
	}

	task := &models.Task{
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Completed:   false,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask merges patch into a task owned by userID.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalid("title cannot be empty")
		}
		patch.Title = &title
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, invalid("priority must be one of low, medium, high")
	}

	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	task, err := s.store.UpdateTask(ctx, taskID, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask deletes a task owned by userID.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}
