package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/pkg/enums"
)

// Order is the finalized pricing snapshot. Totals are persisted as computed
// at checkout time and never re-derived from the line items afterwards.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Status         enums.OrderStatus `gorm:"column:status;type:text;not null;index"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount       decimal.Decimal   `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	TotalBase      decimal.Decimal   `gorm:"column:total_base;type:numeric(12,2);not null"`
	Shipping       decimal.Decimal   `gorm:"column:shipping;type:numeric(12,2);not null;default:0"`
	Total          decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	CouponCode     *string           `gorm:"column:coupon_code"`
	CustomerTaxID  *string           `gorm:"column:customer_tax_id;index"`
	CustomerName   *string           `gorm:"column:customer_name"`
	CustomerEmail  *string           `gorm:"column:customer_email"`
	CustomerPhone  *string           `gorm:"column:customer_phone"`
	DeliveryNotes  *string           `gorm:"column:delivery_notes"`
	RewardCode     *string           `gorm:"column:reward_code"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment        *OrderPayment     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

type OrderItem struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	ProductName string            `gorm:"column:product_name;not null"`
	Unit        enums.ProductUnit `gorm:"column:unit;type:text;not null;default:'un'"`
	UnitPrice   decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Qty         decimal.Decimal   `gorm:"column:qty;type:numeric(12,3);not null"`
	LineTotal   decimal.Decimal   `gorm:"column:line_total;type:numeric(12,2);not null"`
}

// OrderPayment tracks the gateway side of an order. GatewayPaymentID is the
// processor's id, set once the first webhook or confirmation arrives.
type OrderPayment struct {
	OrderID          uuid.UUID           `gorm:"column:order_id;type:uuid;primaryKey"`
	Status           enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	GatewayPaymentID *string             `gorm:"column:gateway_payment_id;index"`
	PreferenceID     *string             `gorm:"column:preference_id"`
	Method           *string             `gorm:"column:method"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderPayment) TableName() string { return "order_payments" }
