package cart

import "github.com/google/uuid"

// AddItemInput puts a product in the caller's cart.
type AddItemInput struct {
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,gt=0"`
	Country      string    `json:"country" validate:"max=100"`
	FullLocation string    `json:"full_location" validate:"max=255"`
}

// UpdateItemInput changes one cart line. Nil fields are left alone.
type UpdateItemInput struct {
	CartID       uuid.UUID `json:"cart_id" validate:"required"`
	Quantity     *int      `json:"quantity" validate:"omitempty,gt=0"`
	Country      *string   `json:"country" validate:"omitempty,max=100"`
	FullLocation *string   `json:"full_location" validate:"omitempty,max=255"`
}

type RemoveItemRequest struct {
	CartID uuid.UUID `json:"cart_id" validate:"required"`
}
