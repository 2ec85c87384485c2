package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	inventorysvc "github.com/verduraria/backend/internal/inventory"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
)

type stubInventoryService struct {
	losses   []models.StockLoss
	turnover []inventorysvc.TurnoverRow
	lowStock []models.Product

	lowStockThreshold decimal.Decimal
}

func (s *stubInventoryService) DecrementIfSufficient(ctx context.Context, tx *gorm.DB, demands []inventorysvc.Demand) error {
	return nil
}

func (s *stubInventoryService) AddEntry(ctx context.Context, input inventorysvc.AddEntryInput) (*models.StockEntry, error) {
	return nil, nil
}

func (s *stubInventoryService) AddLoss(ctx context.Context, input inventorysvc.AddLossInput) (*models.StockLoss, error) {
	return nil, nil
}

func (s *stubInventoryService) ListEntries(ctx context.Context) ([]models.StockEntry, error) {
	return nil, nil
}

func (s *stubInventoryService) ListLosses(ctx context.Context) ([]models.StockLoss, error) {
	return s.losses, nil
}

func (s *stubInventoryService) Turnover(ctx context.Context) ([]inventorysvc.TurnoverRow, error) {
	return s.turnover, nil
}

func (s *stubInventoryService) ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]models.Product, error) {
	s.lowStockThreshold = threshold
	return s.lowStock, nil
}

func TestExportStockLossesCSV(t *testing.T) {
	svc := &stubInventoryService{
		losses: []models.StockLoss{{
			ID:          uuid.New(),
			ProductName: "Tomate",
			Unit:        enums.ProductUnitKilogram,
			Qty:         decimal.RequireFromString("2.5"),
			Reason:      "avaria",
		}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/stock/losses/export", nil)
	resp := httptest.NewRecorder()
	ExportStockLossesCSV(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected csv content type, got %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "perdas.csv") {
		t.Fatalf("expected perdas.csv attachment, got %q", cd)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Tomate") || !strings.Contains(body, "2.500") {
		t.Fatalf("unexpected csv body: %q", body)
	}
}

func TestExportStockTurnoverCSV(t *testing.T) {
	svc := &stubInventoryService{
		turnover: []inventorysvc.TurnoverRow{{
			ProductID:   uuid.New(),
			ProductName: "Banana",
			Stocked:     decimal.RequireFromString("10"),
			Sold:        decimal.RequireFromString("6"),
			Lost:        decimal.RequireFromString("1"),
			OnHand:      decimal.RequireFromString("3"),
		}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/stock/turnover/export", nil)
	resp := httptest.NewRecorder()
	ExportStockTurnoverCSV(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "giro.csv") {
		t.Fatalf("expected giro.csv attachment, got %q", cd)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Banana") || !strings.Contains(body, "6.000") {
		t.Fatalf("unexpected csv body: %q", body)
	}
}

func TestExportLowStockCSVPassesThreshold(t *testing.T) {
	svc := &stubInventoryService{
		lowStock: []models.Product{{
			ID:       uuid.New(),
			Name:     "Alface",
			Sector:   "hortifruti",
			Unit:     enums.ProductUnitPiece,
			StockQty: decimal.RequireFromString("1"),
		}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/stock/low/export?threshold=2", nil)
	resp := httptest.NewRecorder()
	ExportLowStockCSV(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.lowStockThreshold.Equal(decimal.RequireFromString("2")) {
		t.Fatalf("expected threshold 2, got %s", svc.lowStockThreshold)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "estoque_baixo.csv") {
		t.Fatalf("expected estoque_baixo.csv attachment, got %q", cd)
	}
	if !strings.Contains(resp.Body.String(), "Alface") {
		t.Fatalf("unexpected csv body: %q", resp.Body.String())
	}
}

func TestExportLowStockCSVRejectsBadThreshold(t *testing.T) {
	svc := &stubInventoryService{}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/stock/low/export?threshold=-1", nil)
	resp := httptest.NewRecorder()
	ExportLowStockCSV(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
