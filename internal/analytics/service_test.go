package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:analytics_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.Outflow{}); err != nil {
		t.Fatalf("migrate analytics tables: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB, now time.Time) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return now }
	return svc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedOrder(t *testing.T, conn *gorm.DB, status enums.OrderStatus, total string, createdAt time.Time) *models.Order {
	t.Helper()
	subtotal := dec(total).Add(dec("10"))
	order := &models.Order{
		ID:        uuid.New(),
		Status:    status,
		Subtotal:  subtotal,
		Discount:  dec("10"),
		TotalBase: dec(total),
		Shipping:  decimal.Zero,
		Total:     dec(total),
		CreatedAt: createdAt,
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func seedItem(t *testing.T, conn *gorm.DB, orderID, productID uuid.UUID, name, qty, lineTotal string) {
	t.Helper()
	require.NoError(t, conn.Create(&models.OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   dec("1"),
		Qty:         dec(qty),
		LineTotal:   dec(lineTotal),
	}).Error)
}

func TestSummaryCountsOnlyRevenueStatuses(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	svc := newTestService(t, conn, now)

	seedOrder(t, conn, enums.OrderStatusPaid, "100", now.Add(-time.Hour))
	seedOrder(t, conn, enums.OrderStatusFinalized, "50", now.Add(-2*time.Hour))
	seedOrder(t, conn, enums.OrderStatusOutForDelivery, "30", now.Add(-3*time.Hour))
	// neither awaiting nor declined orders count
	seedOrder(t, conn, enums.OrderStatusAwaitingPayment, "999", now.Add(-time.Hour))
	seedOrder(t, conn, enums.OrderStatusPaymentDeclined, "999", now.Add(-time.Hour))

	summary, err := svc.Summary(context.Background(), enums.AnalyticsPeriodDay)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Orders)
	require.True(t, summary.NetRevenue.Equal(dec("180")))
	require.True(t, summary.Discounts.Equal(dec("30")))
	require.True(t, summary.AvgTicket.Equal(dec("60")))
}

func TestSummarySubtractsOutflows(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	svc := newTestService(t, conn, now)

	seedOrder(t, conn, enums.OrderStatusPaid, "200", now.Add(-time.Hour))
	require.NoError(t, conn.Create(&models.Outflow{
		ID:          uuid.New(),
		Description: "Fornecedor",
		Amount:      dec("80"),
		OccurredAt:  now.Add(-2 * time.Hour),
	}).Error)
	// outside the day bucket
	require.NoError(t, conn.Create(&models.Outflow{
		ID:          uuid.New(),
		Description: "Aluguel",
		Amount:      dec("500"),
		OccurredAt:  now.AddDate(0, 0, -3),
	}).Error)

	summary, err := svc.Summary(context.Background(), enums.AnalyticsPeriodDay)
	require.NoError(t, err)
	require.True(t, summary.OutflowTotal.Equal(dec("80")))
	require.True(t, summary.Profit.Equal(dec("120")))
}

func TestBucketBounds(t *testing.T) {
	t.Parallel()
	// a Thursday
	ref := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)

	from, to := bucketBounds(enums.AnalyticsPeriodDay, ref)
	require.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), to)

	from, to = bucketBounds(enums.AnalyticsPeriodWeek, ref)
	require.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), to)

	from, to = bucketBounds(enums.AnalyticsPeriodMonth, ref)
	require.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), to)

	from, to = bucketBounds(enums.AnalyticsPeriodYear, ref)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestBucketBoundsWeekStartsMondayOnSunday(t *testing.T) {
	t.Parallel()
	// a Sunday still belongs to the week that started the previous Monday
	ref := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	from, to := bucketBounds(enums.AnalyticsPeriodWeek, ref)
	require.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), to)
}

func TestDailySeriesFillsEmptyDays(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	svc := newTestService(t, conn, now)

	seedOrder(t, conn, enums.OrderStatusPaid, "100", now.Add(-time.Hour))
	seedOrder(t, conn, enums.OrderStatusPaid, "40", now.AddDate(0, 0, -2))
	seedOrder(t, conn, enums.OrderStatusPaid, "40", now.AddDate(0, 0, -2).Add(time.Hour))

	points, err := svc.DailySeries(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 7)
	require.Equal(t, "2026-08-14", points[0].Date)
	require.Equal(t, "2026-08-20", points[6].Date)

	require.Equal(t, 2, points[4].Orders)
	require.True(t, points[4].NetRevenue.Equal(dec("80")))
	require.Equal(t, 1, points[6].Orders)
	require.Zero(t, points[5].Orders)
	require.True(t, points[5].NetRevenue.IsZero())
}

func TestTopProductsRanksByRevenue(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	svc := newTestService(t, conn, now)

	paid := seedOrder(t, conn, enums.OrderStatusPaid, "100", now.Add(-time.Hour))
	ignored := seedOrder(t, conn, enums.OrderStatusAwaitingPayment, "100", now.Add(-time.Hour))

	banana := uuid.New()
	tomate := uuid.New()
	seedItem(t, conn, paid.ID, banana, "Banana Prata", "3", "24")
	seedItem(t, conn, paid.ID, banana, "Banana Prata", "2", "16")
	seedItem(t, conn, paid.ID, tomate, "Tomate Italiano", "1", "12")
	// items on a non-revenue order never rank
	seedItem(t, conn, ignored.ID, tomate, "Tomate Italiano", "50", "600")

	ranked, err := svc.TopProducts(context.Background(), enums.AnalyticsPeriodDay, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, banana, ranked[0].ProductID)
	require.True(t, ranked[0].QtySold.Equal(dec("5")))
	require.True(t, ranked[0].Revenue.Equal(dec("40")))
	require.Equal(t, tomate, ranked[1].ProductID)

	top1, err := svc.TopProducts(context.Background(), enums.AnalyticsPeriodDay, 1)
	require.NoError(t, err)
	require.Len(t, top1, 1)
	require.Equal(t, banana, top1[0].ProductID)
}
