package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FullLocation string    `json:"full_location"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		FullLocation: u.FullLocation,
		CreatedAt:    u.CreatedAt,
	}
}

// UpdateRequest carries a self-service profile change. Nil fields are left alone.
type UpdateRequest struct {
	Username     *string `json:"username" validate:"omitempty,displayname"`
	Password     *string `json:"password" validate:"omitempty,max=128"`
	FullLocation *string `json:"full_location" validate:"omitempty,max=255"`
}
