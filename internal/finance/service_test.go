package finance

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
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:finance_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Outflow{}); err != nil {
		t.Fatalf("migrate outflows: %v", err)
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

func TestCreateDefaultsOccurredAtToNow(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, conn, now)

	outflow, err := svc.Create(context.Background(), CreateOutflowInput{
		Description: "  Pagamento fornecedor  ",
		Category:    "fornecedores",
		Amount:      dec("350.499"),
	})
	require.NoError(t, err)
	require.Equal(t, "Pagamento fornecedor", outflow.Description)
	require.True(t, outflow.Amount.Equal(dec("350.50")))
	require.True(t, outflow.OccurredAt.Equal(now))
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := newTestService(t, conn, time.Now())

	_, err := svc.Create(context.Background(), CreateOutflowInput{Description: "  ", Amount: dec("10")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), CreateOutflowInput{Description: "Frete", Amount: dec("0")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), CreateOutflowInput{Description: "Frete", Amount: dec("-5")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestListFiltersByRange(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := newTestService(t, conn, time.Now())

	seed := func(desc string, day time.Time) {
		_, err := svc.Create(context.Background(), CreateOutflowInput{
			Description: desc,
			Amount:      dec("100"),
			OccurredAt:  &day,
		})
		require.NoError(t, err)
	}
	seed("julho", time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))
	seed("agosto", time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	seed("setembro", time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.List(context.Background(), &from, &to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "agosto", got[0].Description)

	all, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestDeleteUnknownReturnsNotFound(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := newTestService(t, conn, time.Now())

	err := svc.Delete(context.Background(), uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	outflow, err := svc.Create(context.Background(), CreateOutflowInput{Description: "Frete", Amount: dec("42")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), outflow.ID))

	remaining, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Empty(t, remaining)
}
