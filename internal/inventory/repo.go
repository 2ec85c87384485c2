package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/verduraria/backend/pkg/db/models"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

// Repository exposes persistence operations for stock movements.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repository bound to the provided DB.
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

// LockProduct loads a product row under FOR UPDATE so concurrent
// finalizations serialize on the same stock.
func (r *Repository) LockProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", productID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
			WithDetails(map[string]any{"product_id": productID.String()})
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SaveStock writes the stock quantity (and optionally packaging) back.
func (r *Repository) SaveStock(ctx context.Context, product *models.Product, columns ...string) error {
	if len(columns) == 0 {
		columns = []string{"stock_qty"}
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select(columns).
		Updates(product).Error
}

// CreateEntry appends a restock entry record.
func (r *Repository) CreateEntry(ctx context.Context, entry *models.StockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateLoss appends a stock loss record.
func (r *Repository) CreateLoss(ctx context.Context, loss *models.StockLoss) error {
	return r.db.WithContext(ctx).Create(loss).Error
}

// ListEntries returns restock entries, newest first.
func (r *Repository) ListEntries(ctx context.Context) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListLosses returns loss records, newest first.
func (r *Repository) ListLosses(ctx context.Context) ([]models.StockLoss, error) {
	var losses []models.StockLoss
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&losses).Error
	if err != nil {
		return nil, err
	}
	return losses, nil
}
