package dto

import "github.com/nattawatc/study-planner-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Profile    string `json:"profile,omitempty"`
	LineLinked bool   `json:"line_linked"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Profile:    user.Profile,
		LineLinked: user.LineUserID != "",
	}
}
