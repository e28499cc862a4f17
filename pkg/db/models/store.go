package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the seller principal.
type Store struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	StoreName    string    `gorm:"column:store_name;not null;uniqueIndex:stores_store_name_key" json:"store_name"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	FullLocation string    `gorm:"column:full_location;not null;default:''" json:"full_location"`
	Bio          string    `gorm:"column:bio;not null;default:''" json:"bio"`
	Img          *string   `gorm:"column:img" json:"img,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (s *Store) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
