package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

// StoreDTO is the public store profile.
type StoreDTO struct {
	ID           uuid.UUID `json:"id"`
	StoreName    string    `json:"store_name"`
	FullLocation string    `json:"full_location"`
	Bio          string    `json:"bio"`
	Img          *string   `json:"img,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromModel(s *models.Store) *StoreDTO {
	if s == nil {
		return nil
	}
	return &StoreDTO{
		ID:           s.ID,
		StoreName:    s.StoreName,
		FullLocation: s.FullLocation,
		Bio:          s.Bio,
		Img:          s.Img,
		CreatedAt:    s.CreatedAt,
	}
}

// ProfileDTO is a store profile with its follower count.
type ProfileDTO struct {
	StoreDTO
	Followers int64 `json:"followers"`
}

// UpdateInput carries a store's self-service profile change. Nil fields are left alone.
type UpdateInput struct {
	StoreName    *string
	Password     *string
	FullLocation *string
	Bio          *string
	Image        *storage.Upload
}
