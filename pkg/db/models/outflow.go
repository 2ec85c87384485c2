package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outflow is an operator-recorded cash expense (supplier payment, rent,
// fuel). Revenue comes from orders, so outflows are the only manual side
// of the finance ledger.
type Outflow struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Description string          `gorm:"column:description;not null"`
	Category    string          `gorm:"column:category"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	OccurredAt  time.Time       `gorm:"column:occurred_at;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
