package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shaheen-amjed/shodix-api/internal/cart"
	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/enums"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/metrics"
)

// Service places orders from cart lines and lets stores complete them.
type Service interface {
	Place(ctx context.Context, principal auth.Principal, input PlaceOrderInput) (*OrderDTO, error)
	ListForUser(ctx context.Context, principal auth.Principal) ([]OrderDTO, error)
	ListForStore(ctx context.Context, principal auth.Principal) ([]OrderDTO, error)
	Complete(ctx context.Context, principal auth.Principal, orderID uuid.UUID) (*OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	DB        txRunner
	OrderRepo *Repository
	CartRepo  *cart.Repository
	Metrics   metrics.EventRecorder
	Now       func() time.Time
}

type service struct {
	db       txRunner
	orders   *Repository
	cartRepo *cart.Repository
	metrics  metrics.EventRecorder
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.OrderRepo == nil {
		return nil, errors.New("order repository is required")
	}
	if params.CartRepo == nil {
		return nil, errors.New("cart repository is required")
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
		db:       params.DB,
		orders:   params.OrderRepo,
		cartRepo: params.CartRepo,
		metrics:  recorder,
		now:      now,
	}, nil
}

func orderStore(o *models.Order) uuid.UUID { return o.StoreID }

// Place converts the caller's cart line into an order and removes the line in
// the same transaction.
func (s *service) Place(ctx context.Context, principal auth.Principal, input PlaceOrderInput) (*OrderDTO, error) {
	if !principal.IsUser() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only users can place orders")
	}

	var placed *models.Order
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		item, err := cart.Load(ctx, cartRepo, input.CartID)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(principal, item, cart.Owner, "cart item"); err != nil {
			return err
		}

		order := &models.Order{
			UserID:       item.UserID,
			StoreID:      item.StoreID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Country:      item.Country,
			FullLocation: item.FullLocation,
			Status:       enums.OrderStatusPlaced,
		}
		if input.Country != nil {
			order.Country = *input.Country
		}
		if input.FullLocation != nil {
			order.FullLocation = *input.FullLocation
		}

		if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		if err := cartRepo.Delete(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart item")
		}
		placed = order
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "place order")
		}
		return nil, err
	}

	s.metrics.Record(metrics.EventOrderPlaced)
	dto := FromModel(placed)
	return &dto, nil
}

func (s *service) ListForUser(ctx context.Context, principal auth.Principal) ([]OrderDTO, error) {
	if !principal.IsUser() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only users have placed orders")
	}
	rows, err := s.orders.ListByUser(ctx, principal.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return fromModels(rows), nil
}

func (s *service) ListForStore(ctx context.Context, principal auth.Principal) ([]OrderDTO, error) {
	if !principal.IsStore() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only stores receive orders")
	}
	rows, err := s.orders.ListByStore(ctx, principal.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list store orders")
	}
	return fromModels(rows), nil
}

// Complete marks an order fulfilled. Only the store the order was placed with
// may complete it, and only once.
func (s *service) Complete(ctx context.Context, principal auth.Principal, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(principal, order, orderStore, "order"); err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusCompleted {
		return nil, alreadyCompleted(order.ID)
	}

	completedAt := s.now().UTC()
	ok, err := s.orders.MarkCompleted(ctx, order.ID, map[string]any{
		"status":       enums.OrderStatusCompleted,
		"completed_at": completedAt,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete order")
	}
	if !ok {
		return nil, alreadyCompleted(order.ID)
	}

	s.metrics.Record(metrics.EventOrderCompleted)
	order.Status = enums.OrderStatusCompleted
	order.CompletedAt = &completedAt
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func alreadyCompleted(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "order already completed").
		WithDetails(map[string]any{"order_id": id})
}
