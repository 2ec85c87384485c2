package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// LoyaltyAccount accumulates paid order totals per customer tax id.
// Progress is the remainder after reward thresholds were consumed, so a
// single large order can mint several rewards in one credit pass.
type LoyaltyAccount struct {
	TaxID         string          `gorm:"column:tax_id;primaryKey"`
	Name          string          `gorm:"column:name"`
	LifetimeTotal decimal.Decimal `gorm:"column:lifetime_total;type:numeric(12,2);not null;default:0"`
	Progress      decimal.Decimal `gorm:"column:progress;type:numeric(12,2);not null;default:0"`
	RewardsIssued int             `gorm:"column:rewards_issued;not null;default:0"`
	CouponCodes   pq.StringArray  `gorm:"column:coupon_codes;type:text[]"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (LoyaltyAccount) TableName() string { return "loyalty_accounts" }
