package dto

import (
	"github.com/betodolist/betodolist-api/internal/models"
)

// UserDTO is the public shape of a user; the password digest never leaves
// the service layer.
type UserDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponseDTO is returned by register and login.
type AuthResponseDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// ToUserDTO converts a user to its public shape
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
