package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/api/validators"
	inventorysvc "github.com/verduraria/backend/internal/inventory"
	"github.com/verduraria/backend/pkg/csvexport"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
)

type addStockEntryRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	BoxCount      int             `json:"box_count" validate:"required,min=1"`
	UnitCost      decimal.Decimal `json:"unit_cost,omitempty"`
	BoxWeight     decimal.Decimal `json:"box_weight,omitempty"`
	BoxWeightMin  decimal.Decimal `json:"box_weight_min,omitempty"`
	BoxWeightMax  decimal.Decimal `json:"box_weight_max,omitempty"`
	AvgUnitWeight decimal.Decimal `json:"avg_unit_weight,omitempty"`
	UnitsPerBox   int             `json:"units_per_box,omitempty"`
}

type addStockLossRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Qty       decimal.Decimal `json:"qty" validate:"required"`
	Reason    string          `json:"reason,omitempty"`
}

// AddStockEntry records a restock delivery. The stored quantity comes from
// the box math, not the raw box count.
func AddStockEntry(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addStockEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		entry, err := svc.AddEntry(r.Context(), inventorysvc.AddEntryInput{
			ProductID:     productID,
			BoxCount:      payload.BoxCount,
			UnitCost:      payload.UnitCost,
			BoxWeight:     payload.BoxWeight,
			BoxWeightMin:  payload.BoxWeightMin,
			BoxWeightMax:  payload.BoxWeightMax,
			AvgUnitWeight: payload.AvgUnitWeight,
			UnitsPerBox:   payload.UnitsPerBox,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// ListStockEntries serves the restock history.
func ListStockEntries(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListEntries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// AddStockLoss records shrinkage against a product.
func AddStockLoss(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addStockLossRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		loss, err := svc.AddLoss(r.Context(), inventorysvc.AddLossInput{
			ProductID: productID,
			Qty:       payload.Qty,
			Reason:    payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, loss)
	}
}

// ListStockLosses serves the shrinkage history.
func ListStockLosses(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		losses, err := svc.ListLosses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, losses)
	}
}

// ExportStockLossesCSV streams the shrinkage history as a CSV download.
func ExportStockLossesCSV(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		losses, err := svc.ListLosses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		header := []string{"id", "created_at", "product", "unit", "qty", "reason"}
		rows := make([][]string, 0, len(losses))
		for _, loss := range losses {
			rows = append(rows, []string{
				loss.ID.String(),
				loss.CreatedAt.Format("2006-01-02"),
				loss.ProductName,
				loss.Unit.String(),
				loss.Qty.StringFixed(3),
				loss.Reason,
			})
		}

		if err := csvexport.Write(w, "perdas.csv", header, rows); err != nil {
			logg.Error(r.Context(), "writing stock losses csv", err)
		}
	}
}

// ExportStockTurnoverCSV streams the per-product movement aggregate as CSV.
func ExportStockTurnoverCSV(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turnover, err := svc.Turnover(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		header := []string{"product_id", "product", "stocked", "sold", "lost", "on_hand"}
		rows := make([][]string, 0, len(turnover))
		for _, row := range turnover {
			rows = append(rows, []string{
				row.ProductID.String(),
				row.ProductName,
				row.Stocked.StringFixed(3),
				row.Sold.StringFixed(3),
				row.Lost.StringFixed(3),
				row.OnHand.StringFixed(3),
			})
		}

		if err := csvexport.Write(w, "giro.csv", header, rows); err != nil {
			logg.Error(r.Context(), "writing turnover csv", err)
		}
	}
}

// ExportLowStockCSV streams products at or below the threshold as CSV.
func ExportLowStockCSV(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold, err := lowStockThreshold(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListLowStock(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		header := []string{"id", "name", "sector", "unit", "stock_qty"}
		rows := make([][]string, 0, len(products))
		for _, product := range products {
			rows = append(rows, []string{
				product.ID.String(),
				product.Name,
				product.Sector,
				product.Unit.String(),
				product.StockQty.StringFixed(3),
			})
		}

		if err := csvexport.Write(w, "estoque_baixo.csv", header, rows); err != nil {
			logg.Error(r.Context(), "writing low stock csv", err)
		}
	}
}

// StockTurnover serves the per-product in/sold/lost aggregate.
func StockTurnover(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Turnover(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// LowStock lists products at or below the requested threshold.
func LowStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold, err := lowStockThreshold(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListLowStock(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func lowStockThreshold(r *http.Request) (decimal.Decimal, error) {
	threshold := decimal.NewFromInt(5)
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "threshold must be a non-negative number")
		}
		threshold = parsed
	}
	return threshold, nil
}
