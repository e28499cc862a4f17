package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the buyer principal.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"column:username;not null;uniqueIndex:users_username_key" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	FullLocation string    `gorm:"column:full_location;not null;default:''" json:"full_location"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
