package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verduraria/backend/internal/pricing"
	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

// Demand is one line of stock to commit.
type Demand struct {
	ProductID uuid.UUID
	Qty       decimal.Decimal
}

// AddEntryInput records a restock delivery in boxes. The resolved quantity
// is derived from the packaging numbers.
type AddEntryInput struct {
	ProductID     uuid.UUID
	BoxCount      int
	UnitCost      decimal.Decimal
	BoxWeight     decimal.Decimal
	BoxWeightMin  decimal.Decimal
	BoxWeightMax  decimal.Decimal
	AvgUnitWeight decimal.Decimal
	UnitsPerBox   int
}

// AddLossInput records shrinkage against a product.
type AddLossInput struct {
	ProductID uuid.UUID
	Qty       decimal.Decimal
	Reason    string
}

// TurnoverRow aggregates movement per product.
type TurnoverRow struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Stocked     decimal.Decimal `json:"stocked"`
	Sold        decimal.Decimal `json:"sold"`
	Lost        decimal.Decimal `json:"lost"`
	OnHand      decimal.Decimal `json:"on_hand"`
}

// Service exposes the stock ledger.
type Service interface {
	DecrementIfSufficient(ctx context.Context, tx *gorm.DB, demands []Demand) error
	AddEntry(ctx context.Context, input AddEntryInput) (*models.StockEntry, error)
	AddLoss(ctx context.Context, input AddLossInput) (*models.StockLoss, error)
	ListEntries(ctx context.Context) ([]models.StockEntry, error)
	ListLosses(ctx context.Context) ([]models.StockLoss, error)
	Turnover(ctx context.Context) ([]TurnoverRow, error)
	ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]models.Product, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// DecrementIfSufficient commits every demand or none. It must run inside the
// caller's transaction so a later failure in the same pipeline rolls the
// stock back too. Rows are locked in iteration order.
func (s *service) DecrementIfSufficient(ctx context.Context, tx *gorm.DB, demands []Demand) error {
	if tx == nil {
		return fmt.Errorf("transaction required")
	}
	repo := s.repo.WithTx(tx)

	for _, demand := range demands {
		if !demand.Qty.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "demand quantity must be positive").
				WithDetails(map[string]any{"product_id": demand.ProductID.String()})
		}

		product, err := repo.LockProduct(ctx, demand.ProductID)
		if err != nil {
			return err
		}

		remaining := product.StockQty.Sub(demand.Qty)
		if remaining.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{
					"product_id": product.ID.String(),
					"product":    product.Name,
					"available":  product.StockQty.String(),
					"requested":  demand.Qty.String(),
				})
		}

		product.StockQty = pricing.Round2(remaining)
		if err := repo.SaveStock(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// AddEntry resolves the box math, bumps product stock and refreshes the
// packaging snapshot, then appends the entry record.
func (s *service) AddEntry(ctx context.Context, input AddEntryInput) (*models.StockEntry, error) {
	if input.BoxCount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "box count must be positive")
	}

	var entry *models.StockEntry
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.LockProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}

		qty, err := resolveEntryQty(product.Unit, input)
		if err != nil {
			return err
		}

		product.StockQty = pricing.Round2(product.StockQty.Add(qty))
		product.BoxCount = input.BoxCount
		product.BoxWeight = input.BoxWeight
		product.BoxWeightMin = input.BoxWeightMin
		product.BoxWeightMax = input.BoxWeightMax
		product.AvgUnitWeight = input.AvgUnitWeight
		product.UnitsPerBox = input.UnitsPerBox
		columns := []string{
			"stock_qty", "box_count", "box_weight", "box_weight_min",
			"box_weight_max", "avg_unit_weight", "units_per_box",
		}
		if err := repo.SaveStock(ctx, product, columns...); err != nil {
			return err
		}

		entry = &models.StockEntry{
			ID:            uuid.New(),
			ProductID:     product.ID,
			ProductName:   product.Name,
			Unit:          product.Unit,
			BoxCount:      input.BoxCount,
			Qty:           qty,
			UnitCost:      input.UnitCost,
			BoxWeight:     input.BoxWeight,
			BoxWeightMin:  input.BoxWeightMin,
			BoxWeightMax:  input.BoxWeightMax,
			AvgUnitWeight: input.AvgUnitWeight,
			UnitsPerBox:   input.UnitsPerBox,
		}
		return repo.CreateEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// resolveEntryQty converts boxes into sellable quantity. Weight products use
// the declared box weight, falling back to the min/max midpoint; unit
// products multiply by units per box.
func resolveEntryQty(unit enums.ProductUnit, input AddEntryInput) (decimal.Decimal, error) {
	boxes := decimal.NewFromInt(int64(input.BoxCount))

	if unit == enums.ProductUnitKilogram {
		weight := input.BoxWeight
		if weight.IsZero() {
			weight = input.BoxWeightMin.Add(input.BoxWeightMax).Div(decimal.NewFromInt(2))
		}
		if !weight.IsPositive() {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "box weight is required for weight products")
		}
		return pricing.Round2(boxes.Mul(weight)), nil
	}

	if input.UnitsPerBox <= 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "units per box is required for unit products")
	}
	return boxes.Mul(decimal.NewFromInt(int64(input.UnitsPerBox))), nil
}

// AddLoss decrements stock and records the loss. Losses may not drive stock
// negative either.
func (s *service) AddLoss(ctx context.Context, input AddLossInput) (*models.StockLoss, error) {
	if !input.Qty.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "loss quantity must be positive")
	}

	var loss *models.StockLoss
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.DecrementIfSufficient(ctx, tx, []Demand{{ProductID: input.ProductID, Qty: input.Qty}}); err != nil {
			return err
		}

		product, err := s.repo.WithTx(tx).LockProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}

		loss = &models.StockLoss{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Unit:        product.Unit,
			Qty:         input.Qty,
			Reason:      input.Reason,
		}
		return s.repo.WithTx(tx).CreateLoss(ctx, loss)
	})
	if err != nil {
		return nil, err
	}
	return loss, nil
}

func (s *service) ListEntries(ctx context.Context) ([]models.StockEntry, error) {
	return s.repo.ListEntries(ctx)
}

func (s *service) ListLosses(ctx context.Context) ([]models.StockLoss, error) {
	return s.repo.ListLosses(ctx)
}

// Turnover aggregates stocked, sold and lost quantities per product. Sold
// quantities count only orders that represent confirmed revenue.
func (s *service) Turnover(ctx context.Context) ([]TurnoverRow, error) {
	var products []models.Product
	if err := s.repo.db.WithContext(ctx).Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}

	type sumRow struct {
		ProductID uuid.UUID
		Total     decimal.Decimal
	}

	sumsByProduct := func(rows []sumRow) map[uuid.UUID]decimal.Decimal {
		out := make(map[uuid.UUID]decimal.Decimal, len(rows))
		for _, row := range rows {
			out[row.ProductID] = row.Total
		}
		return out
	}

	var stocked []sumRow
	err := s.repo.db.WithContext(ctx).
		Model(&models.StockEntry{}).
		Select("product_id, SUM(qty) AS total").
		Group("product_id").
		Scan(&stocked).Error
	if err != nil {
		return nil, err
	}

	var lost []sumRow
	err = s.repo.db.WithContext(ctx).
		Model(&models.StockLoss{}).
		Select("product_id, SUM(qty) AS total").
		Group("product_id").
		Scan(&lost).Error
	if err != nil {
		return nil, err
	}

	var sold []sumRow
	err = s.repo.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_items.product_id, SUM(order_items.qty) AS total").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", enums.RevenueOrderStatuses()).
		Group("order_items.product_id").
		Scan(&sold).Error
	if err != nil {
		return nil, err
	}

	stockedBy := sumsByProduct(stocked)
	lostBy := sumsByProduct(lost)
	soldBy := sumsByProduct(sold)

	rows := make([]TurnoverRow, 0, len(products))
	for _, product := range products {
		rows = append(rows, TurnoverRow{
			ProductID:   product.ID,
			ProductName: product.Name,
			Stocked:     stockedBy[product.ID],
			Sold:        soldBy[product.ID],
			Lost:        lostBy[product.ID],
			OnHand:      product.StockQty,
		})
	}
	return rows, nil
}

// ListLowStock returns products at or below the given threshold.
func (s *service) ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]models.Product, error) {
	var products []models.Product
	err := s.repo.db.WithContext(ctx).
		Where("stock_qty <= ?", threshold).
		Order("stock_qty ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
