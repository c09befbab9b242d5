package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful login or registration hands out.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenManager issues and verifies HS256 access and refresh tokens. The two
// kinds are signed with separate secrets.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

func (m *TokenManager) IssueAccessToken(userID string) (string, error) {
	return m.issue(userID, m.accessSecret, m.accessTTL)
}

func (m *TokenManager) IssueRefreshToken(userID string) (string, error) {
	return m.issue(userID, m.refreshSecret, m.refreshTTL)
}

// IssueTokenPair mints a fresh access and refresh token for userID.
func (m *TokenManager) IssueTokenPair(userID string) (TokenPair, error) {
	access, err := m.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *TokenManager) VerifyAccessToken(token string) (string, error) {
	return m.VerifyToken(token, m.accessSecret)
}

func (m *TokenManager) VerifyRefreshToken(token string) (string, error) {
	return m.VerifyToken(token, m.refreshSecret)
}

// VerifyToken checks the signature and expiry of token against secret and
// returns the user id it carries.
func (m *TokenManager) VerifyToken(token string, secret []byte) (string, error) {
	if token == "" {
		return "", ErrMalformedToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpiredToken
		default:
			return "", ErrInvalidToken
		}
	}

	if !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

func (m *TokenManager) issue(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
