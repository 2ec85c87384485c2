package loyalty

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/verduraria/backend/pkg/db/models"
)

// Repository exposes persistence operations for loyalty accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a loyalty repository bound to the provided DB.
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

// LockByTaxID loads an account under FOR UPDATE. Concurrent credits to the
// same customer serialize here. Returns (nil, nil) when no account exists.
func (r *Repository) LockByTaxID(ctx context.Context, taxID string) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("tax_id = ?", taxID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByTaxID loads an account without locking.
func (r *Repository) FindByTaxID(ctx context.Context, taxID string) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := r.db.WithContext(ctx).
		Where("tax_id = ?", taxID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Save upserts the account row.
func (r *Repository) Save(ctx context.Context, account *models.LoyaltyAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// List returns all accounts ordered by lifetime spend, highest first.
func (r *Repository) List(ctx context.Context) ([]models.LoyaltyAccount, error) {
	var accounts []models.LoyaltyAccount
	err := r.db.WithContext(ctx).
		Order("lifetime_total DESC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
