package conversations

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/pkg/enums"
)

type AppendRequest struct {
	Msg string `json:"msg" validate:"required,max=4000"`
}

// MessageDTO is one chat entry with the sender's current display name.
type MessageDTO struct {
	ID             uuid.UUID           `json:"id"`
	ConversationID uuid.UUID           `json:"conversation_id"`
	SenderKind     enums.PrincipalKind `json:"sender_kind"`
	SenderName     string              `json:"sender_name"`
	Msg            string              `json:"msg"`
	CreatedAt      time.Time           `json:"created_at"`
}

// InboxEntry summarises one conversation for either participant.
type InboxEntry struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	UserID         uuid.UUID `json:"user_id"`
	Username       string    `json:"username"`
	StoreID        uuid.UUID `json:"store_id"`
	StoreName      string    `json:"store_name"`
	LastMessage    *string   `json:"last_message,omitempty"`
}
