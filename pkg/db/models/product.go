package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/pkg/enums"
)

// Product is the canonical catalog listing. StockQty is decimal because
// weight-based produce is tracked in fractional kilograms.
type Product struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name             string            `gorm:"column:name;not null"`
	Sector           string            `gorm:"column:sector;not null"`
	Price            decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	Unit             enums.ProductUnit `gorm:"column:unit;type:text;not null;default:'un'"`
	StockQty         decimal.Decimal   `gorm:"column:stock_qty;type:numeric(12,2);not null;default:0"`
	BoxCount         int               `gorm:"column:box_count;not null;default:0"`
	BoxWeight        decimal.Decimal   `gorm:"column:box_weight;type:numeric(12,2);not null;default:0"`
	BoxWeightMin     decimal.Decimal   `gorm:"column:box_weight_min;type:numeric(12,2);not null;default:0"`
	BoxWeightMax     decimal.Decimal   `gorm:"column:box_weight_max;type:numeric(12,2);not null;default:0"`
	AvgUnitWeight    decimal.Decimal   `gorm:"column:avg_unit_weight;type:numeric(12,3);not null;default:0"`
	UnitsPerBox      int               `gorm:"column:units_per_box;not null;default:0"`
	ImageURL         string            `gorm:"column:image_url"`
	ShortDescription string            `gorm:"column:short_description"`
	Badge            string            `gorm:"column:badge"`
	OnPromotion      bool              `gorm:"column:on_promotion;not null;default:false"`
	Featured         bool              `gorm:"column:featured;not null;default:false"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// PackagingMeta is the box-level snapshot refreshed on each restock entry.
type PackagingMeta struct {
	BoxCount      int
	BoxWeight     decimal.Decimal
	BoxWeightMin  decimal.Decimal
	BoxWeightMax  decimal.Decimal
	AvgUnitWeight decimal.Decimal
	UnitsPerBox   int
}
