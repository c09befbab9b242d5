package dto

import "github.com/yukikurage/planner-api/internal/models"

// UserDTO represents a user in API responses. The password hash is never
// part of it.
type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
}

// RefreshResponse carries a new access token. The refresh token is not
// rotated.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}
