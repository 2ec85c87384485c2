package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db/models"
)

// Repository exposes persistence operations for cart staging data.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads a cart with its items. Returns (nil, nil) when the cart
// does not exist yet.
func (r *Repository) FindByID(ctx context.Context, cartID string) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", cartID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Ensure creates the cart row when absent and returns it with items.
func (r *Repository) Ensure(ctx context.Context, cartID string) (*models.CartRecord, error) {
	record, err := r.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}
	record = &models.CartRecord{ID: cartID}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// UpsertItem adds quantity to an existing line or creates a new one.
func (r *Repository) UpsertItem(ctx context.Context, item *models.CartItem) error {
	var existing models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(item).Error
	}
	if err != nil {
		return err
	}

	existing.Qty = existing.Qty.Add(item.Qty)
	existing.UnitPrice = item.UnitPrice
	existing.ProductName = item.ProductName
	return r.db.WithContext(ctx).Save(&existing).Error
}

// RemoveItem deletes one product line from the cart.
func (r *Repository) RemoveItem(ctx context.Context, cartID string, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

// Clear removes every item from the cart, keeping the cart row.
func (r *Repository) Clear(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
