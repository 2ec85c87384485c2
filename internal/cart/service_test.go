package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/verduraria/backend/internal/catalog"
	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(&models.Product{}, &models.CartRecord{}, &models.CartItem{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), catalog.NewRepository(conn), db.NewWithConn(conn))
	require.NoError(t, err)
	return svc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, conn *gorm.DB, name string, price, stock string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Sector:   "hortifruti",
		Price:    dec(price),
		Unit:     enums.ProductUnitKilogram,
		StockQty: dec(stock),
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, "Tomate", "9.99", "10")
	svc := newTestService(t, conn)

	record, err := svc.AddItem(context.Background(), "cart-1", product.ID, dec("2"))
	require.NoError(t, err)
	require.Len(t, record.Items, 1)
	require.True(t, record.Items[0].UnitPrice.Equal(dec("9.99")))
	require.Equal(t, "Tomate", record.Items[0].ProductName)

	// a later price change does not affect the snapshot
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", dec("20")).Error)

	record, err = svc.Get(context.Background(), "cart-1")
	require.NoError(t, err)
	require.True(t, record.Items[0].UnitPrice.Equal(dec("9.99")))
}

func TestAddItemMergesSameProduct(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, "Tomate", "9.99", "10")
	svc := newTestService(t, conn)

	_, err := svc.AddItem(context.Background(), "cart-1", product.ID, dec("2"))
	require.NoError(t, err)
	record, err := svc.AddItem(context.Background(), "cart-1", product.ID, dec("3"))
	require.NoError(t, err)

	require.Len(t, record.Items, 1)
	require.True(t, record.Items[0].Qty.Equal(dec("5")))
}

func TestAddItemSoftStockCheck(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, "Alface", "3.50", "1")
	svc := newTestService(t, conn)

	_, err := svc.AddItem(context.Background(), "cart-1", product.ID, dec("2"))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock))
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	product := seedProduct(t, conn, "Alface", "3.50", "5")
	svc := newTestService(t, conn)

	_, err := svc.AddItem(context.Background(), "", product.ID, dec("1"))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.AddItem(context.Background(), "cart-1", product.ID, dec("0"))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.AddItem(context.Background(), "cart-1", uuid.New(), dec("1"))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound))
}

func TestGetUnknownCartReturnsEmpty(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newTestDB(t))

	record, err := svc.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	require.Empty(t, record.Items)
}

func TestRemoveItemAndClear(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	first := seedProduct(t, conn, "Tomate", "9.99", "10")
	second := seedProduct(t, conn, "Alface", "3.50", "10")
	svc := newTestService(t, conn)

	_, err := svc.AddItem(context.Background(), "cart-1", first.ID, dec("1"))
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), "cart-1", second.ID, dec("1"))
	require.NoError(t, err)

	record, err := svc.RemoveItem(context.Background(), "cart-1", first.ID)
	require.NoError(t, err)
	require.Len(t, record.Items, 1)
	require.Equal(t, "Alface", record.Items[0].ProductName)

	require.NoError(t, svc.Clear(context.Background(), conn, "cart-1"))
	record, err = svc.Get(context.Background(), "cart-1")
	require.NoError(t, err)
	require.Empty(t, record.Items)
}
