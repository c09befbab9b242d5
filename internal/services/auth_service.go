package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/planner-api/internal/auth"
	"github.com/yukikurage/planner-api/internal/models"
	"github.com/yukikurage/planner-api/internal/storage"
)

// AuthService handles registration, login and token refresh.
type AuthService struct {
	store      storage.Storage
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(store storage.Storage, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{
		store:      store,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// AuthResult is an authenticated user together with a fresh token pair.
type AuthResult struct {
	User   *models.User
	Tokens auth.TokenPair
}

// Register creates a new user and signs them in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	user, err := s.CreateUser(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.signIn(user)
}

// CreateUser validates input and stores a new user with a hashed password.
// It issues no tokens, so s may be built without a TokenManager.
func (s *AuthService) CreateUser(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, invalid("username, email and password are required")
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials. Unknown users and wrong passwords fail the
// same way.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, invalid("username and password are required")
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.signIn(user)
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", ErrMissingRefreshToken
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	return s.tokens.IssueAccessToken(userID)
}

// CurrentUser retrieves the authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ensureAvailable checks the username first, so a request clashing on both
// reports the username.
func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func (s *AuthService) signIn(user *models.User) (*AuthResult, error) {
	tokens, err := s.tokens.IssueTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}
