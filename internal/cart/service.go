package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

// Service manages a user's cart.
type Service interface {
	Add(ctx context.Context, principal auth.Principal, input AddItemInput) (*models.CartItem, error)
	List(ctx context.Context, principal auth.Principal) ([]models.CartItem, error)
	Update(ctx context.Context, principal auth.Principal, input UpdateItemInput) (*models.CartItem, error)
	Remove(ctx context.Context, principal auth.Principal, cartID uuid.UUID) error
}

type cartRepository interface {
	Create(ctx context.Context, item *models.CartItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Save(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type ServiceParams struct {
	Repo     cartRepository
	Products productReader
}

type service struct {
	repo     cartRepository
	products productReader
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("cart repository is required")
	}
	if params.Products == nil {
		return nil, errors.New("product repository is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

// Owner returns the user a cart line belongs to.
func Owner(item *models.CartItem) uuid.UUID { return item.UserID }

func (s *service) Add(ctx context.Context, principal auth.Principal, input AddItemInput) (*models.CartItem, error) {
	if !principal.IsUser() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only users have a cart")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	item := &models.CartItem{
		UserID:       principal.ID,
		ProductID:    product.ID,
		StoreID:      product.StoreID,
		ProductName:  product.Name,
		Quantity:     input.Quantity,
		UnitPrice:    product.Price,
		Country:      input.Country,
		FullLocation: input.FullLocation,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, principal auth.Principal) ([]models.CartItem, error) {
	rows, err := s.repo.ListByUser(ctx, principal.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	if rows == nil {
		rows = []models.CartItem{}
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, principal auth.Principal, input UpdateItemInput) (*models.CartItem, error) {
	item, err := s.loadOwned(ctx, principal, input.CartID)
	if err != nil {
		return nil, err
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		item.Quantity = *input.Quantity
	}
	if input.Country != nil {
		item.Country = *input.Country
	}
	if input.FullLocation != nil {
		item.FullLocation = *input.FullLocation
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	return item, nil
}

func (s *service) Remove(ctx context.Context, principal auth.Principal, cartID uuid.UUID) error {
	item, err := s.loadOwned(ctx, principal, cartID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, principal auth.Principal, cartID uuid.UUID) (*models.CartItem, error) {
	item, err := Load(ctx, s.repo, cartID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(principal, item, Owner, "cart item"); err != nil {
		return nil, err
	}
	return item, nil
}

// ItemFinder loads a single cart line.
type ItemFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
}

// Load fetches a cart line and maps storage errors onto API codes.
func Load(ctx context.Context, repo ItemFinder, cartID uuid.UUID) (*models.CartItem, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart_id is required")
	}
	item, err := repo.FindByID(ctx, cartID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	return item, nil
}
