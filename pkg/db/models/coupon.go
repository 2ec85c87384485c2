package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/pkg/enums"
)

// Coupon covers both operator-created promotions and loyalty rewards minted
// by the reward pipeline. A nil UsageCap means unlimited redemptions.
type Coupon struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Code        string            `gorm:"column:code;uniqueIndex;not null"`
	Type        enums.CouponType  `gorm:"column:type;type:text;not null"`
	Value       decimal.Decimal   `gorm:"column:value;type:numeric(12,2);not null"`
	MinSubtotal decimal.Decimal   `gorm:"column:min_subtotal;type:numeric(12,2);not null;default:0"`
	ExpiresAt   *time.Time        `gorm:"column:expires_at"`
	UsageCap    *int              `gorm:"column:usage_cap"`
	UsageCount  int               `gorm:"column:usage_count;not null;default:0"`
	Active      bool              `gorm:"column:active;not null;default:true"`
	Origin      enums.CouponOrigin `gorm:"column:origin;type:text;not null;default:'manual'"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
