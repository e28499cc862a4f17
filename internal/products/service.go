package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
	"github.com/shaheen-amjed/shodix-api/pkg/pagination"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

// Service exposes catalog reads and the owner-only write paths.
type Service interface {
	Create(ctx context.Context, principal auth.Principal, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, principal auth.Principal, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, principal auth.Principal, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit int, after *pagination.Cursor) ([]models.Product, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
}

type imageStore interface {
	Save(ctx context.Context, folder string, upload storage.Upload) (string, error)
	Delete(ctx context.Context, publicPath string) error
	Replace(ctx context.Context, folder string, upload storage.Upload, oldPath *string, commit func(newPath string) error) (string, error)
}

type ServiceParams struct {
	Repo    productRepository
	Storage imageStore
	Logger  *logger.Logger
}

type service struct {
	repo    productRepository
	storage imageStore
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("product repository is required")
	}
	if params.Storage == nil {
		return nil, errors.New("image storage is required")
	}
	return &service{repo: params.Repo, storage: params.Storage, logg: params.Logger}, nil
}

func productOwner(p *models.Product) uuid.UUID { return p.StoreID }

func (s *service) Create(ctx context.Context, principal auth.Principal, input CreateProductInput) (*models.Product, error) {
	if !principal.IsStore() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only stores can list products")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	product := &models.Product{
		StoreID:     principal.ID,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Country:     input.Country,
	}
	if input.Image != nil {
		img, err := s.storage.Save(ctx, storage.FolderProducts, *input.Image)
		if err != nil {
			return nil, err
		}
		product.Img = &img
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if product.Img != nil {
			_ = s.storage.Delete(ctx, *product.Img)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, principal auth.Principal, input UpdateProductInput) (*models.Product, error) {
	product, err := s.load(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(principal, product, productOwner, "product"); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.Country != nil {
		product.Country = *input.Country
	}

	save := func() error {
		if err := s.repo.Save(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}
		return nil
	}

	if input.Image != nil {
		oldImg := product.Img
		_, err := s.storage.Replace(ctx, storage.FolderProducts, *input.Image, oldImg, func(newPath string) error {
			product.Img = &newPath
			if err := save(); err != nil {
				product.Img = oldImg
				return err
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else if err := save(); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, principal auth.Principal, productID uuid.UUID) error {
	product, err := s.load(ctx, productID)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(principal, product, productOwner, "product"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if product.Img != nil {
		if err := s.storage.Delete(ctx, *product.Img); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "file", *product.Img), "product.image_not_removed")
		}
	}
	return nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return s.load(ctx, productID)
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	page, next := pagination.Page(rows, limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return &ListResult{Products: page, NextCursor: next}, nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list store products")
	}
	if rows == nil {
		rows = []models.Product{}
	}
	return rows, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return nil
}
