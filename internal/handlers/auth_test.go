package handlers

import (
	"net/http"

	"github.com/yukikurage/planner-api/internal/dto"
	apierrors "github.com/yukikurage/planner-api/internal/errors"
)

func (s *APITestSuite) TestRegister() {
	resp := s.signup("alice")

	s.NotEmpty(resp.User.ID)
	s.Equal("alice", resp.User.Username)
	s.Equal("alice@example.com", resp.User.Email)
	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)
}

func (s *APITestSuite) TestRegister_NeverReturnsPassword() {
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "supersecret",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var raw struct {
		User map[string]any `json:"user"`
	}
	s.decode(w, &raw)
	s.Require().NotEmpty(raw.User)
	s.NotContains(raw.User, "password")
	s.NotContains(raw.User, "passwordHash")
	s.NotContains(w.Body.String(), "supersecret")
}

func (s *APITestSuite) TestRegister_Validation() {
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice"})
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, "/api/auth/register", "", "{not json")
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (s *APITestSuite) TestRegister_Conflict() {
	s.signup("alice")

	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "different@example.com",
		"password": "supersecret",
	})
	s.requireError(w, http.StatusConflict, apierrors.ErrCodeConflict)

	w = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	s.requireError(w, http.StatusConflict, apierrors.ErrCodeConflict)
}

func (s *APITestSuite) TestLogin() {
	registered := s.signup("alice")

	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "supersecret",
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.AuthResponse
	s.decode(w, &resp)
	s.Equal(registered.User.ID, resp.User.ID)
	s.NotEmpty(resp.AccessToken)
}

func (s *APITestSuite) TestLogin_SameErrorForUnknownUserAndWrongPassword() {
	s.signup("alice")

	wrongPassword := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	unknownUser := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "supersecret",
	})

	s.Equal(http.StatusUnauthorized, wrongPassword.Code)
	s.Equal(http.StatusUnauthorized, unknownUser.Code)
	s.JSONEq(wrongPassword.Body.String(), unknownUser.Body.String())
}

func (s *APITestSuite) TestRefresh() {
	registered := s.signup("alice")

	w := s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": registered.RefreshToken,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.RefreshResponse
	s.decode(w, &resp)
	s.NotEmpty(resp.AccessToken)

	// the new access token works
	w = s.do(http.MethodGet, "/api/auth/me", resp.AccessToken, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestRefresh_Errors() {
	registered := s.signup("alice")

	w := s.do(http.MethodPost, "/api/auth/refresh", "", nil)
	s.requireError(w, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized)

	w = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{})
	s.requireError(w, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized)

	w = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": "garbage"})
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	// access tokens are signed with a different secret
	w = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": registered.AccessToken})
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)
}

func (s *APITestSuite) TestMe() {
	registered := s.signup("alice")

	w := s.do(http.MethodGet, "/api/auth/me", registered.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var user dto.UserDTO
	s.decode(w, &user)
	s.Equal(registered.User, user)
}
