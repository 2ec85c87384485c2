package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Product{}, &models.StockEntry{}, &models.StockLoss{},
		&models.Order{}, &models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn))
	require.NoError(t, err)
	return svc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, conn *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Tomate",
		Sector:   "hortifruti",
		Price:    dec("9.99"),
		Unit:     enums.ProductUnitKilogram,
		StockQty: dec("10"),
	}
	if mutate != nil {
		mutate(product)
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func stockOf(t *testing.T, conn *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var product models.Product
	require.NoError(t, conn.Where("id = ?", id).First(&product).Error)
	return product.StockQty
}

func TestDecrementIfSufficient(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, nil)
	svc := newTestService(t, conn)

	err := db.NewWithConn(conn).WithTx(context.Background(), func(tx *gorm.DB) error {
		return svc.DecrementIfSufficient(context.Background(), tx, []Demand{
			{ProductID: product.ID, Qty: dec("3.5")},
		})
	})
	require.NoError(t, err)
	require.True(t, stockOf(t, conn, product.ID).Equal(dec("6.5")))
}

func TestDecrementFailsClosed(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, func(p *models.Product) { p.StockQty = dec("2") })
	svc := newTestService(t, conn)

	err := db.NewWithConn(conn).WithTx(context.Background(), func(tx *gorm.DB) error {
		return svc.DecrementIfSufficient(context.Background(), tx, []Demand{
			{ProductID: product.ID, Qty: dec("2.01")},
		})
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock))
	require.True(t, stockOf(t, conn, product.ID).Equal(dec("2")))
}

func TestDecrementAllOrNothing(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	first := seedProduct(t, conn, nil)
	second := seedProduct(t, conn, func(p *models.Product) {
		p.ID = uuid.New()
		p.Name = "Alface"
		p.StockQty = dec("1")
	})
	svc := newTestService(t, conn)

	err := db.NewWithConn(conn).WithTx(context.Background(), func(tx *gorm.DB) error {
		return svc.DecrementIfSufficient(context.Background(), tx, []Demand{
			{ProductID: first.ID, Qty: dec("5")},
			{ProductID: second.ID, Qty: dec("2")},
		})
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock))

	// the first decrement rolled back with the failed transaction
	require.True(t, stockOf(t, conn, first.ID).Equal(dec("10")))
	require.True(t, stockOf(t, conn, second.ID).Equal(dec("1")))
}

func TestDecrementUnknownProduct(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := newTestService(t, conn)

	err := db.NewWithConn(conn).WithTx(context.Background(), func(tx *gorm.DB) error {
		return svc.DecrementIfSufficient(context.Background(), tx, []Demand{
			{ProductID: uuid.New(), Qty: dec("1")},
		})
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound))
}

func TestAddEntryWeightProductUsesMidpoint(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, nil)
	svc := newTestService(t, conn)

	entry, err := svc.AddEntry(context.Background(), AddEntryInput{
		ProductID:    product.ID,
		BoxCount:     4,
		BoxWeightMin: dec("18"),
		BoxWeightMax: dec("22"),
	})
	require.NoError(t, err)

	// 4 boxes x midpoint(18,22)=20 -> 80 kg
	require.True(t, entry.Qty.Equal(dec("80")))
	require.True(t, stockOf(t, conn, product.ID).Equal(dec("90")))

	var reread models.Product
	require.NoError(t, conn.Where("id = ?", product.ID).First(&reread).Error)
	require.Equal(t, 4, reread.BoxCount)
	require.True(t, reread.BoxWeightMin.Equal(dec("18")))
}

func TestAddEntryWeightProductPrefersDeclaredBoxWeight(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, nil)
	svc := newTestService(t, conn)

	entry, err := svc.AddEntry(context.Background(), AddEntryInput{
		ProductID: product.ID,
		BoxCount:  2,
		BoxWeight: dec("15.5"),
	})
	require.NoError(t, err)
	require.True(t, entry.Qty.Equal(dec("31")))
}

func TestAddEntryUnitProduct(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, func(p *models.Product) {
		p.Unit = enums.ProductUnitPiece
		p.StockQty = dec("0")
	})
	svc := newTestService(t, conn)

	entry, err := svc.AddEntry(context.Background(), AddEntryInput{
		ProductID:   product.ID,
		BoxCount:    3,
		UnitsPerBox: 12,
	})
	require.NoError(t, err)
	require.True(t, entry.Qty.Equal(dec("36")))
	require.True(t, stockOf(t, conn, product.ID).Equal(dec("36")))
}

func TestAddEntryUnitProductRequiresUnitsPerBox(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, func(p *models.Product) { p.Unit = enums.ProductUnitPiece })
	svc := newTestService(t, conn)

	_, err := svc.AddEntry(context.Background(), AddEntryInput{
		ProductID: product.ID,
		BoxCount:  3,
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestAddLossDecrementsStock(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, nil)
	svc := newTestService(t, conn)

	loss, err := svc.AddLoss(context.Background(), AddLossInput{
		ProductID: product.ID,
		Qty:       dec("1.5"),
		Reason:    "spoiled",
	})
	require.NoError(t, err)
	require.Equal(t, "spoiled", loss.Reason)
	require.True(t, stockOf(t, conn, product.ID).Equal(dec("8.5")))
}

func TestAddLossCannotExceedStock(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, func(p *models.Product) { p.StockQty = dec("1") })
	svc := newTestService(t, conn)

	_, err := svc.AddLoss(context.Background(), AddLossInput{
		ProductID: product.ID,
		Qty:       dec("2"),
		Reason:    "dropped",
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock))
	require.True(t, stockOf(t, conn, product.ID).Equal(dec("1")))
}

func TestTurnoverAggregates(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, nil)
	svc := newTestService(t, conn)

	_, err := svc.AddEntry(context.Background(), AddEntryInput{
		ProductID: product.ID,
		BoxCount:  1,
		BoxWeight: dec("20"),
	})
	require.NoError(t, err)

	_, err = svc.AddLoss(context.Background(), AddLossInput{
		ProductID: product.ID, Qty: dec("2"), Reason: "spoiled",
	})
	require.NoError(t, err)

	order := &models.Order{
		ID:        uuid.New(),
		Status:    enums.OrderStatusFinalized,
		Subtotal:  dec("29.97"),
		TotalBase: dec("29.97"),
		Shipping:  dec("30"),
		Total:     dec("59.97"),
	}
	require.NoError(t, conn.Create(order).Error)
	require.NoError(t, conn.Create(&models.OrderItem{
		ID:          uuid.New(),
		OrderID:     order.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Unit:        product.Unit,
		UnitPrice:   dec("9.99"),
		Qty:         dec("3"),
		LineTotal:   dec("29.97"),
	}).Error)

	// awaiting payment orders do not count as sold
	pending := &models.Order{
		ID:        uuid.New(),
		Status:    enums.OrderStatusAwaitingPayment,
		Subtotal:  dec("9.99"),
		TotalBase: dec("9.99"),
		Shipping:  dec("30"),
		Total:     dec("39.99"),
	}
	require.NoError(t, conn.Create(pending).Error)
	require.NoError(t, conn.Create(&models.OrderItem{
		ID:          uuid.New(),
		OrderID:     pending.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Unit:        product.Unit,
		UnitPrice:   dec("9.99"),
		Qty:         dec("1"),
		LineTotal:   dec("9.99"),
	}).Error)

	rows, err := svc.Turnover(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Stocked.Equal(dec("20")))
	require.True(t, rows[0].Lost.Equal(dec("2")))
	require.True(t, rows[0].Sold.Equal(dec("3")))
	require.True(t, rows[0].OnHand.Equal(dec("28")))
}

func TestListLowStock(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	seedProduct(t, conn, func(p *models.Product) { p.StockQty = dec("0.5") })
	seedProduct(t, conn, func(p *models.Product) {
		p.ID = uuid.New()
		p.Name = "Banana"
		p.StockQty = dec("50")
	})
	svc := newTestService(t, conn)

	low, err := svc.ListLowStock(context.Background(), dec("5"))
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "Tomate", low[0].Name)
}
