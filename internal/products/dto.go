package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

// CreateProductInput is the payload for a new listing.
type CreateProductInput struct {
	Name        string          `json:"name" form:"name" validate:"required,max=200"`
	Description string          `json:"description" form:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price" form:"price"`
	Stock       int             `json:"stock" form:"stock" validate:"gte=0"`
	Country     string          `json:"country" form:"country" validate:"max=100"`
	Image       *storage.Upload `json:"-" form:"-"`
}

// UpdateProductInput changes a listing. Nil fields are left alone.
type UpdateProductInput struct {
	ProductID   uuid.UUID        `json:"product_id" form:"product_id" validate:"required"`
	Name        *string          `json:"name" form:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" form:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price" form:"price"`
	Stock       *int             `json:"stock" form:"stock" validate:"omitempty,gte=0"`
	Country     *string          `json:"country" form:"country" validate:"omitempty,max=100"`
	Image       *storage.Upload  `json:"-" form:"-"`
}

// DeleteProductRequest names the listing to remove.
type DeleteProductRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// ListResult is one page of the catalog. NextCursor is empty on the last page.
type ListResult struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}
