package coupons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

// Reward coupon parameters, shared with the loyalty credit pipeline.
var (
	rewardValue       = decimal.NewFromInt(10)
	rewardMinSubtotal = decimal.NewFromInt(40)
	rewardExpiry      = time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC)
	rewardCodePrefix  = "FIDELIDADE"
)

// Service exposes coupon validation and management operations.
type Service interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*models.Coupon, error)
	DiscountFor(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal
	RegisterUse(ctx context.Context, tx *gorm.DB, code string) error
	MintLoyaltyReward(ctx context.Context, tx *gorm.DB) (*models.Coupon, error)
	Create(ctx context.Context, input CreateCouponInput) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	SetActive(ctx context.Context, code string, active bool) error
}

// CreateCouponInput holds the validated payload to create a coupon.
type CreateCouponInput struct {
	Code        string
	Type        enums.CouponType
	Value       decimal.Decimal
	MinSubtotal decimal.Decimal
	ExpiresAt   *time.Time
	UsageCap    *int
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	now      func() time.Time
}

// NewService constructs a coupon service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, now: time.Now}, nil
}

// Validate checks eligibility in a fixed order so callers get a stable
// failure kind: not found, then inactive or expired, then below minimum,
// then exhausted cap.
func (s *service) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*models.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !coupon.Active || s.expired(coupon) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInactive, "coupon inactive or expired").
			WithDetails(map[string]any{"code": coupon.Code})
	}

	if subtotal.LessThan(coupon.MinSubtotal) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponBelowMinimum, "subtotal below coupon minimum").
			WithDetails(map[string]any{
				"code":         coupon.Code,
				"min_subtotal": coupon.MinSubtotal.String(),
				"subtotal":     subtotal.String(),
			})
	}

	if coupon.UsageCap != nil && coupon.UsageCount >= *coupon.UsageCap {
		return nil, pkgerrors.New(pkgerrors.CodeCouponExhausted, "coupon usage cap reached").
			WithDetails(map[string]any{"code": coupon.Code})
	}

	return coupon, nil
}

// expired treats the end date as inclusive through end of day.
func (s *service) expired(coupon *models.Coupon) bool {
	if coupon.ExpiresAt == nil {
		return false
	}
	endOfDay := time.Date(
		coupon.ExpiresAt.Year(), coupon.ExpiresAt.Month(), coupon.ExpiresAt.Day(),
		23, 59, 59, int(time.Second-time.Nanosecond), coupon.ExpiresAt.Location(),
	)
	return s.now().After(endOfDay)
}

// DiscountFor returns the raw discount for the subtotal. Clamping against
// the subtotal is the caller's responsibility.
func (s *service) DiscountFor(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	if coupon.Type == enums.CouponTypePercent {
		return subtotal.Mul(coupon.Value).Div(decimal.NewFromInt(100)).Round(2)
	}
	return coupon.Value
}

// RegisterUse consumes one redemption inside the caller's transaction.
func (s *service) RegisterUse(ctx context.Context, tx *gorm.DB, code string) error {
	return s.repo.WithTx(tx).IncrementUsage(ctx, code)
}

// MintLoyaltyReward creates a single-use reward coupon with a fresh code.
func (s *service) MintLoyaltyReward(ctx context.Context, tx *gorm.DB) (*models.Coupon, error) {
	singleUse := 1
	expiry := rewardExpiry
	code := fmt.Sprintf("%s-%s", rewardCodePrefix, strings.ToUpper(uuid.NewString()[:8]))

	coupon := &models.Coupon{
		ID:          uuid.New(),
		Code:        code,
		Type:        enums.CouponTypePercent,
		Value:       rewardValue,
		MinSubtotal: rewardMinSubtotal,
		ExpiresAt:   &expiry,
		UsageCap:    &singleUse,
		Active:      true,
		Origin:      enums.CouponOriginLoyalty,
	}
	return s.repo.WithTx(tx).Create(ctx, coupon)
}

// Create registers an operator-defined coupon.
func (s *service) Create(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	if NormalizeCode(input.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid coupon type %q", input.Type))
	}
	if !input.Value.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon value must be positive")
	}
	if input.MinSubtotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum subtotal cannot be negative")
	}
	if input.UsageCap != nil && *input.UsageCap <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage cap must be positive when set")
	}

	coupon := &models.Coupon{
		ID:          uuid.New(),
		Code:        input.Code,
		Type:        input.Type,
		Value:       input.Value,
		MinSubtotal: input.MinSubtotal,
		ExpiresAt:   input.ExpiresAt,
		UsageCap:    input.UsageCap,
		Active:      true,
		Origin:      enums.CouponOriginManual,
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "coupon code already exists")
		}
		return nil, err
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *service) SetActive(ctx context.Context, code string, active bool) error {
	return s.repo.SetActive(ctx, code, active)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
