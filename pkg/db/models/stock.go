package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/pkg/enums"
)

// StockEntry is an append-only restock record. Qty is the resolved quantity
// after box math, not the raw box count.
type StockEntry struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ProductID     uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	ProductName   string            `gorm:"column:product_name;not null"`
	Unit          enums.ProductUnit `gorm:"column:unit;type:text;not null;default:'un'"`
	BoxCount      int               `gorm:"column:box_count;not null;default:0"`
	Qty           decimal.Decimal   `gorm:"column:qty;type:numeric(12,3);not null"`
	UnitCost      decimal.Decimal   `gorm:"column:unit_cost;type:numeric(12,2);not null;default:0"`
	BoxWeight     decimal.Decimal   `gorm:"column:box_weight;type:numeric(12,2);not null;default:0"`
	BoxWeightMin  decimal.Decimal   `gorm:"column:box_weight_min;type:numeric(12,2);not null;default:0"`
	BoxWeightMax  decimal.Decimal   `gorm:"column:box_weight_max;type:numeric(12,2);not null;default:0"`
	AvgUnitWeight decimal.Decimal   `gorm:"column:avg_unit_weight;type:numeric(12,3);not null;default:0"`
	UnitsPerBox   int               `gorm:"column:units_per_box;not null;default:0"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime;index"`
}

func (StockEntry) TableName() string { return "stock_entries" }

// StockLoss records shrinkage (spoilage, breakage) outside the sales flow.
type StockLoss struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ProductID   uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	ProductName string            `gorm:"column:product_name;not null"`
	Unit        enums.ProductUnit `gorm:"column:unit;type:text;not null;default:'un'"`
	Qty         decimal.Decimal   `gorm:"column:qty;type:numeric(12,3);not null"`
	Reason      string            `gorm:"column:reason"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime;index"`
}

func (StockLoss) TableName() string { return "stock_losses" }
