package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shaheen-amjed/shodix-api/pkg/enums"
)

// Order is a placed cart line. The buyer owns placement, the store owns completion.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	StoreID      uuid.UUID         `gorm:"column:store_id;type:uuid;not null;index" json:"store_id"`
	ProductID    uuid.UUID         `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	ProductName  string            `gorm:"column:product_name;not null" json:"product_name"`
	Quantity     int               `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice    decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	Country      string            `gorm:"column:country;not null;default:''" json:"country"`
	FullLocation string            `gorm:"column:full_location;not null;default:''" json:"full_location"`
	Status       enums.OrderStatus `gorm:"column:status;type:text;not null;default:'placed'" json:"status"`
	CompletedAt  *time.Time        `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Total is quantity times unit price.
func (o Order) Total() decimal.Decimal {
	return o.UnitPrice.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	if o.Status == "" {
		o.Status = enums.OrderStatusPlaced
	}
	return nil
}
