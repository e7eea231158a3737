package dto

import (
	"time"

	"github.com/aoyagi/tasktracker/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		JoinedAt: user.JoinedAt,
	}
}
