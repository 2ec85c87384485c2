package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/pkg/enums"
)

// CartRecord is keyed by a client-issued cart id so anonymous browsers can
// keep a cart before authenticating.
type CartRecord struct {
	ID        string     `gorm:"column:id;primaryKey"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartRecord) TableName() string { return "carts" }

// CartItem snapshots the product name and unit price at add time. The
// snapshot is what gets priced at checkout, not the live catalog row.
type CartItem struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CartID      string            `gorm:"column:cart_id;not null;index"`
	ProductID   uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	ProductName string            `gorm:"column:product_name;not null"`
	Unit        enums.ProductUnit `gorm:"column:unit;type:text;not null;default:'un'"`
	UnitPrice   decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Qty         decimal.Decimal   `gorm:"column:qty;type:numeric(12,3);not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}
