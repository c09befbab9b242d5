package services

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameTaken       = errors.New("username already exists")
	ErrEmailTaken          = errors.New("email already exists")
	ErrAccountExists       = errors.New("username or email already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrMissingRefreshToken = errors.New("refresh token is required")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserNotFound        = errors.New("user not found")

	ErrTaskNotFound    = errors.New("task not found")
	ErrNoteNotFound    = errors.New("note not found")
	ErrJournalNotFound = errors.New("journal entry not found")

	ErrSummarizerNotConfigured = errors.New("summarization is not configured")
	ErrSummarizationFailed     = errors.New("failed to summarize note")
)

// ValidationError is returned for missing or malformed input. Its message
// is safe to show to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
