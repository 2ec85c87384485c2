package loyalty

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
)

type stubMinter struct {
	minted int
}

func (m *stubMinter) MintLoyaltyReward(ctx context.Context, tx *gorm.DB) (*models.Coupon, error) {
	m.minted++
	return &models.Coupon{
		Code:   fmt.Sprintf("FIDELIDADE-%04d", m.minted),
		Type:   enums.CouponTypePercent,
		Value:  decimal.NewFromInt(10),
		Origin: enums.CouponOriginLoyalty,
	}, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:loyalty_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.LoyaltyAccount{}); err != nil {
		t.Fatalf("migrate loyalty: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) (Service, *stubMinter) {
	t.Helper()
	minter := &stubMinter{}
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), minter)
	require.NoError(t, err)
	return svc, minter
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreditEmptyTaxIDIsNoop(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc, minter := newTestService(t, conn)

	snapshot, err := svc.Credit(context.Background(), conn, "  ", "Maria", dec("100"))
	require.NoError(t, err)
	require.Nil(t, snapshot)
	require.Zero(t, minter.minted)
}

func TestCreditCreatesAccountAndNormalizesTaxID(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc, _ := newTestService(t, conn)

	snapshot, err := svc.Credit(context.Background(), conn, "529.982.247-25", "Maria", dec("80"))
	require.NoError(t, err)
	require.Equal(t, "52998224725", snapshot.TaxID)
	require.True(t, snapshot.LifetimeTotal.Equal(dec("80")))
	require.True(t, snapshot.Progress.Equal(dec("80")))
	require.Zero(t, snapshot.RewardsIssued)

	// formatted and bare tax ids address the same account
	again, err := svc.Credit(context.Background(), conn, "52998224725", "", dec("20"))
	require.NoError(t, err)
	require.True(t, again.LifetimeTotal.Equal(dec("100")))
	require.Equal(t, "Maria", mustAccount(t, conn, "52998224725").Name)
}

func TestCreditMintsOnThresholdCross(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc, minter := newTestService(t, conn)

	snapshot, err := svc.Credit(context.Background(), conn, "11144477735", "Jo", dec("210"))
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.RewardsIssued)
	require.True(t, snapshot.Progress.Equal(dec("10")))
	require.Len(t, snapshot.NewCoupons, 1)
	require.Equal(t, 1, minter.minted)
}

func TestCreditMultipleCrossingsInOnePurchase(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc, minter := newTestService(t, conn)

	// progress 150 + purchase 260 = 410 -> two rewards, remainder 10
	_, err := svc.Credit(context.Background(), conn, "11144477735", "Jo", dec("150"))
	require.NoError(t, err)

	snapshot, err := svc.Credit(context.Background(), conn, "11144477735", "Jo", dec("260"))
	require.NoError(t, err)
	require.Equal(t, 2, snapshot.RewardsIssued)
	require.True(t, snapshot.Progress.Equal(dec("10")))
	require.Len(t, snapshot.NewCoupons, 2)
	require.Equal(t, 2, minter.minted)
	require.Len(t, snapshot.CouponCodes, 2)
}

func TestCreditBelowThresholdMintsNothing(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc, minter := newTestService(t, conn)

	snapshot, err := svc.Credit(context.Background(), conn, "11144477735", "Jo", dec("199.99"))
	require.NoError(t, err)
	require.Zero(t, snapshot.RewardsIssued)
	require.Empty(t, snapshot.NewCoupons)
	require.Zero(t, minter.minted)
}

func TestGetByTaxIDUnknownReturnsNil(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc, _ := newTestService(t, conn)

	snapshot, err := svc.GetByTaxID(context.Background(), "00000000000")
	require.NoError(t, err)
	require.Nil(t, snapshot)
}

func mustAccount(t *testing.T, conn *gorm.DB, taxID string) *models.LoyaltyAccount {
	t.Helper()
	var account models.LoyaltyAccount
	require.NoError(t, conn.Where("tax_id = ?", taxID).First(&account).Error)
	return &account
}
