package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shaheen-amjed/shodix-api/pkg/enums"
)

// Conversation is the single chat thread between a user and a store.
type Conversation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:conversations_user_store_key,priority:1" json:"user_id"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:conversations_user_store_key,priority:2" json:"store_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (c *Conversation) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Message is an immutable chat entry.
type Message struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID           `gorm:"column:conversation_id;type:uuid;not null;index:messages_conversation_created_idx,priority:1" json:"conversation_id"`
	SenderKind     enums.PrincipalKind `gorm:"column:sender_kind;type:text;not null" json:"sender_kind"`
	Body           string              `gorm:"column:body;not null" json:"msg"`
	CreatedAt      time.Time           `gorm:"column:created_at;not null;index:messages_conversation_created_idx,priority:2" json:"created_at"`
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}
