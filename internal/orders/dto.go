package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/enums"
)

// PlaceOrderInput turns one cart line into an order. Location fields override
// the ones stored on the cart line when set.
type PlaceOrderInput struct {
	CartID       uuid.UUID `json:"cart_id" validate:"required"`
	Country      *string   `json:"country" validate:"omitempty,max=100"`
	FullLocation *string   `json:"full_location" validate:"omitempty,max=255"`
}

type CompleteOrderRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

// OrderDTO is the transport shape of an order.
type OrderDTO struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	StoreID      uuid.UUID         `json:"store_id"`
	ProductID    uuid.UUID         `json:"product_id"`
	ProductName  string            `json:"product_name"`
	Quantity     int               `json:"quantity"`
	UnitPrice    decimal.Decimal   `json:"unit_price"`
	Total        decimal.Decimal   `json:"total"`
	Country      string            `json:"country"`
	FullLocation string            `json:"full_location"`
	Status       enums.OrderStatus `json:"status"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func FromModel(o *models.Order) OrderDTO {
	return OrderDTO{
		ID:           o.ID,
		UserID:       o.UserID,
		StoreID:      o.StoreID,
		ProductID:    o.ProductID,
		ProductName:  o.ProductName,
		Quantity:     o.Quantity,
		UnitPrice:    o.UnitPrice,
		Total:        o.Total(),
		Country:      o.Country,
		FullLocation: o.FullLocation,
		Status:       o.Status,
		CompletedAt:  o.CompletedAt,
		CreatedAt:    o.CreatedAt,
	}
}

func fromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
