package coupons

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db/models"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

// Repository exposes persistence operations for coupons.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coupon repository bound to the provided DB.
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

// Create inserts a new coupon. Codes are stored uppercase so the
// case-insensitive uniqueness rule reduces to an exact index match.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	coupon.Code = NormalizeCode(coupon.Code)
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// FindByCode loads a coupon by its normalized code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", NormalizeCode(code)).
		First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponNotFound, "coupon not found").
			WithDetails(map[string]any{"code": code})
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// List returns all coupons ordered by creation, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

// IncrementUsage bumps the usage counter by exactly one. The cap check rides
// on the update itself so two finalizations racing for the last redemption
// cannot both register.
func (r *Repository) IncrementUsage(ctx context.Context, code string) error {
	normalized := NormalizeCode(code)
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("code = ? AND (usage_cap IS NULL OR usage_count < usage_cap)", normalized).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Coupon{}).
			Where("code = ?", normalized).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return pkgerrors.New(pkgerrors.CodeCouponNotFound, "coupon not found").
				WithDetails(map[string]any{"code": code})
		}
		return pkgerrors.New(pkgerrors.CodeCouponExhausted, "coupon has no redemptions left").
			WithDetails(map[string]any{"code": code})
	}
	return nil
}

// SetActive toggles a coupon's active flag.
func (r *Repository) SetActive(ctx context.Context, code string, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("code = ?", NormalizeCode(code)).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeCouponNotFound, "coupon not found").
			WithDetails(map[string]any{"code": code})
	}
	return nil
}

// NormalizeCode canonicalizes a coupon code for lookup and storage.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
