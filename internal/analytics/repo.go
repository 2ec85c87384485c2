package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
)

// Repository reads the order and outflow ledgers for revenue aggregates.
// Buckets are computed in the service so the queries stay portable between
// postgres and the sqlite test profile.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RevenueOrders returns the revenue-counting orders created in [from, to).
func (r *Repository) RevenueOrders(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("status IN ?", enums.RevenueOrderStatuses()).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// RevenueItems returns the line items of revenue-counting orders in [from, to).
func (r *Repository) RevenueItems(ctx context.Context, from, to time.Time) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", enums.RevenueOrderStatuses()).
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Outflows returns the outflow records occurring in [from, to).
func (r *Repository) Outflows(ctx context.Context, from, to time.Time) ([]models.Outflow, error) {
	var outflows []models.Outflow
	err := r.db.WithContext(ctx).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Find(&outflows).Error
	if err != nil {
		return nil, err
	}
	return outflows, nil
}
