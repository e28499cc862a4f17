package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow records that a user follows a store. One row per pair.
type Follow struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:follows_user_store_key,priority:1" json:"user_id"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:follows_user_store_key,priority:2" json:"store_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (f *Follow) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
