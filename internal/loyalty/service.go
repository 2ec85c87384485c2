package loyalty

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/types"
)

// RewardThreshold is the cumulative spend that mints one reward coupon.
var RewardThreshold = decimal.NewFromInt(200)

type rewardMinter interface {
	MintLoyaltyReward(ctx context.Context, tx *gorm.DB) (*models.Coupon, error)
}

// Service exposes the loyalty spend ledger.
type Service interface {
	// Credit attributes a paid order's total to the customer. Callers must
	// invoke this exactly once per order, inside the finalization
	// transaction. An empty tax id is a no-op returning (nil, nil).
	Credit(ctx context.Context, tx *gorm.DB, taxID, displayName string, amount decimal.Decimal) (*types.LoyaltySnapshot, error)
	GetByTaxID(ctx context.Context, taxID string) (*types.LoyaltySnapshot, error)
	List(ctx context.Context) ([]models.LoyaltyAccount, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	minter   rewardMinter
}

// NewService constructs a loyalty service instance.
func NewService(repo *Repository, dbClient *db.Client, minter rewardMinter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if minter == nil {
		return nil, fmt.Errorf("reward minter required")
	}
	return &service{repo: repo, dbClient: dbClient, minter: minter}, nil
}

func (s *service) Credit(ctx context.Context, tx *gorm.DB, taxID, displayName string, amount decimal.Decimal) (*types.LoyaltySnapshot, error) {
	normalized := NormalizeTaxID(taxID)
	if normalized == "" {
		return nil, nil
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction required")
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("credit amount cannot be negative")
	}

	repo := s.repo.WithTx(tx)

	account, err := repo.LockByTaxID(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &models.LoyaltyAccount{
			TaxID:         normalized,
			Name:          strings.TrimSpace(displayName),
			LifetimeTotal: decimal.Zero,
			Progress:      decimal.Zero,
			CouponCodes:   pq.StringArray{},
		}
	} else if name := strings.TrimSpace(displayName); name != "" {
		account.Name = name
	}

	account.LifetimeTotal = account.LifetimeTotal.Add(amount)
	account.Progress = account.Progress.Add(amount)

	// a single large purchase can cross the threshold several times
	var newCodes []string
	for account.Progress.GreaterThanOrEqual(RewardThreshold) {
		account.Progress = account.Progress.Sub(RewardThreshold)
		account.RewardsIssued++

		coupon, err := s.minter.MintLoyaltyReward(ctx, tx)
		if err != nil {
			return nil, err
		}
		account.CouponCodes = append(account.CouponCodes, coupon.Code)
		newCodes = append(newCodes, coupon.Code)
	}

	if err := repo.Save(ctx, account); err != nil {
		return nil, err
	}

	snapshot := snapshotOf(account)
	snapshot.NewCoupons = newCodes
	return snapshot, nil
}

func (s *service) GetByTaxID(ctx context.Context, taxID string) (*types.LoyaltySnapshot, error) {
	account, err := s.repo.FindByTaxID(ctx, NormalizeTaxID(taxID))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return snapshotOf(account), nil
}

func (s *service) List(ctx context.Context) ([]models.LoyaltyAccount, error) {
	return s.repo.List(ctx)
}

func snapshotOf(account *models.LoyaltyAccount) *types.LoyaltySnapshot {
	return &types.LoyaltySnapshot{
		TaxID:         account.TaxID,
		LifetimeTotal: account.LifetimeTotal,
		Progress:      account.Progress,
		RewardsIssued: account.RewardsIssued,
		CouponCodes:   append([]string(nil), account.CouponCodes...),
	}
}

// NormalizeTaxID strips everything but digits so "529.982.247-25" and
// "52998224725" address the same account.
func NormalizeTaxID(taxID string) string {
	var b strings.Builder
	for _, r := range taxID {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
