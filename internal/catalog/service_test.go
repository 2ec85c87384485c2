package catalog

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
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
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

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "limao", NormalizeName("Limão"))
	require.Equal(t, "maca verde", NormalizeName("  Maçã Verde "))
	require.Equal(t, "cafe", NormalizeName("CAFÉ"))
}

func TestCreateAndGetByName(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newTestDB(t))

	created, err := svc.Create(context.Background(), CreateProductInput{
		Name:     "Limão Taiti",
		Sector:   "hortifruti",
		Price:    dec("4.99"),
		Unit:     enums.ProductUnitKilogram,
		StockQty: dec("12"),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := svc.GetByName(context.Background(), "limao taiti")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = svc.GetByName(context.Background(), "laranja")
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound))
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newTestDB(t))

	_, err := svc.Create(context.Background(), CreateProductInput{Price: dec("1")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), CreateProductInput{Name: "Uva", Price: dec("0")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestUpdatePartial(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newTestDB(t))

	created, err := svc.Create(context.Background(), CreateProductInput{
		Name:  "Banana",
		Price: dec("3.50"),
	})
	require.NoError(t, err)

	promo := true
	newPrice := dec("2.99")
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductInput{
		Price:       &newPrice,
		OnPromotion: &promo,
	})
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(dec("2.99")))
	require.True(t, updated.OnPromotion)
	require.Equal(t, "Banana", updated.Name)
}

func TestDeleteUnknownProduct(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newTestDB(t))

	err := svc.Delete(context.Background(), uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound))
}

func TestListFilters(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{Name: "Maçã", Sector: "hortifruti", Price: dec("5"), OnPromotion: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProductInput{Name: "Leite", Sector: "laticínios", Price: dec("6"), Featured: true})
	require.NoError(t, err)

	bySector, err := svc.List(ctx, ListFilter{Sector: "hortifruti"})
	require.NoError(t, err)
	require.Len(t, bySector, 1)
	require.Equal(t, "Maçã", bySector[0].Name)

	promo := true
	byPromo, err := svc.List(ctx, ListFilter{OnPromotion: &promo})
	require.NoError(t, err)
	require.Len(t, byPromo, 1)

	bySearch, err := svc.List(ctx, ListFilter{Search: "maca"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	require.Equal(t, "Maçã", bySearch[0].Name)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}
