package conversations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
)

// Repository persists conversations and their messages.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOrCreate returns the single conversation of the pair, inserting it when
// absent. Concurrent callers converge on one row through the unique index.
func (r *Repository) FindOrCreate(ctx context.Context, userID, storeID uuid.UUID) (*models.Conversation, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoNothing: true,
		}).
		Create(&models.Conversation{UserID: userID, StoreID: storeID}).Error
	if err != nil {
		return nil, err
	}

	var conv models.Conversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListMessages returns every message of the conversation in send order.
func (r *Repository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	rows := []models.Message{}
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) AppendMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// InboxRow is one conversation joined with both participants' current names.
type InboxRow struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	Username       string
	StoreID        uuid.UUID
	StoreName      string
	LastMessage    *string
}

const inboxSelect = `conversations.id AS conversation_id,
conversations.user_id,
users.username,
conversations.store_id,
stores.store_name,
(SELECT m.body FROM messages m WHERE m.conversation_id = conversations.id ORDER BY m.created_at DESC, m.id DESC LIMIT 1) AS last_message`

// Inbox lists the conversations one participant takes part in. column is
// either user_id or store_id.
func (r *Repository) Inbox(ctx context.Context, column string, id uuid.UUID) ([]InboxRow, error) {
	rows := []InboxRow{}
	err := r.db.WithContext(ctx).
		Table("conversations").
		Select(inboxSelect).
		Joins("JOIN users ON users.id = conversations.user_id").
		Joins("JOIN stores ON stores.id = conversations.store_id").
		Where("conversations."+column+" = ?", id).
		Order("conversations.created_at DESC, conversations.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
