package conversations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/enums"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/metrics"
)

// Service resolves the conversation of a (store, user) pair and guards access to it.
type Service interface {
	Read(ctx context.Context, principal auth.Principal, storeName, username string) ([]MessageDTO, error)
	Append(ctx context.Context, principal auth.Principal, storeName, username, body string) (*MessageDTO, error)
	Inbox(ctx context.Context, principal auth.Principal) ([]InboxEntry, error)
}

type conversationRepository interface {
	FindOrCreate(ctx context.Context, userID, storeID uuid.UUID) (*models.Conversation, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
	AppendMessage(ctx context.Context, msg *models.Message) error
	Inbox(ctx context.Context, column string, id uuid.UUID) ([]InboxRow, error)
}

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type storeFinder interface {
	FindByName(ctx context.Context, name string) (*models.Store, error)
}

type ServiceParams struct {
	Repo      conversationRepository
	UserRepo  userFinder
	StoreRepo storeFinder
	Metrics   metrics.EventRecorder
	Now       func() time.Time
}

type service struct {
	repo    conversationRepository
	users   userFinder
	stores  storeFinder
	metrics metrics.EventRecorder
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("conversation repository is required")
	}
	if params.UserRepo == nil {
		return nil, errors.New("user repository is required")
	}
	if params.StoreRepo == nil {
		return nil, errors.New("store repository is required")
	}
	recorder := params.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		users:   params.UserRepo,
		stores:  params.StoreRepo,
		metrics: recorder,
		now:     now,
	}, nil
}

// participants is a resolved (user, store) pair.
type participants struct {
	user  *models.User
	store *models.Store
}

func (p participants) nameOf(kind enums.PrincipalKind) string {
	if kind == enums.PrincipalStore {
		return p.store.StoreName
	}
	return p.user.Username
}

func (s *service) Read(ctx context.Context, principal auth.Principal, storeName, username string) ([]MessageDTO, error) {
	pair, conv, err := s.open(ctx, principal, storeName, username)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list messages")
	}
	out := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i], pair))
	}
	return out, nil
}

func (s *service) Append(ctx context.Context, principal auth.Principal, storeName, username, body string) (*MessageDTO, error) {
	if strings.TrimSpace(body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content is required").
			WithDetails(map[string]string{"msg": "is required"})
	}
	pair, conv, err := s.open(ctx, principal, storeName, username)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderKind:     principal.Kind,
		Body:           body,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append message")
	}
	s.metrics.Record(metrics.EventMessageSent)
	dto := toDTO(msg, pair)
	return &dto, nil
}

func (s *service) Inbox(ctx context.Context, principal auth.Principal) ([]InboxEntry, error) {
	var column string
	switch principal.Kind {
	case enums.PrincipalUser:
		column = "user_id"
	case enums.PrincipalStore:
		column = "store_id"
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown principal")
	}
	rows, err := s.repo.Inbox(ctx, column, principal.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inbox")
	}
	out := make([]InboxEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, InboxEntry(row))
	}
	return out, nil
}

// open resolves both names, checks the caller is one of them and only then
// finds or creates the conversation. Third parties never cause a row to exist.
func (s *service) open(ctx context.Context, principal auth.Principal, storeName, username string) (participants, *models.Conversation, error) {
	pair, err := s.resolve(ctx, storeName, username)
	if err != nil {
		return participants{}, nil, err
	}
	if !canAccess(principal, pair) {
		return participants{}, nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this conversation")
	}
	conv, err := s.repo.FindOrCreate(ctx, pair.user.ID, pair.store.ID)
	if err != nil {
		return participants{}, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open conversation")
	}
	return pair, conv, nil
}

func (s *service) resolve(ctx context.Context, storeName, username string) (participants, error) {
	store, err := s.stores.FindByName(ctx, storeName)
	if err != nil {
		if db.IsNotFound(err) {
			return participants{}, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return participants{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return participants{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return participants{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return participants{user: user, store: store}, nil
}

func canAccess(principal auth.Principal, pair participants) bool {
	switch principal.Kind {
	case enums.PrincipalUser:
		return principal.ID == pair.user.ID
	case enums.PrincipalStore:
		return principal.ID == pair.store.ID
	default:
		return false
	}
}

func toDTO(m *models.Message, pair participants) MessageDTO {
	return MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderKind:     m.SenderKind,
		SenderName:     pair.nameOf(m.SenderKind),
		Msg:            m.Body,
		CreatedAt:      m.CreatedAt,
	}
}
