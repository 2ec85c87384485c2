package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart staging operations. Carts are keyed by a
// client-issued id and hold price snapshots, not live catalog references.
type Service interface {
	AddItem(ctx context.Context, cartID string, productID uuid.UUID, qty decimal.Decimal) (*models.CartRecord, error)
	Get(ctx context.Context, cartID string) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, cartID string, productID uuid.UUID) (*models.CartRecord, error)
	Clear(ctx context.Context, tx *gorm.DB, cartID string) error
}

type service struct {
	repo     *Repository
	products productReader
	dbClient *db.Client
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, products productReader, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, products: products, dbClient: dbClient}, nil
}

// AddItem snapshots the product's current name and price into the cart. The
// stock check here is advisory; the binding check happens at finalization.
func (s *service) AddItem(ctx context.Context, cartID string, productID uuid.UUID, qty decimal.Decimal) (*models.CartRecord, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	if !qty.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StockQty.LessThan(qty) {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{
				"product":   product.Name,
				"available": product.StockQty.String(),
				"requested": qty.String(),
			})
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Ensure(ctx, cartID); err != nil {
			return err
		}
		return repo.UpsertItem(ctx, &models.CartItem{
			ID:          uuid.New(),
			CartID:      cartID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Unit:        product.Unit,
			UnitPrice:   product.Price,
			Qty:         qty,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Ensure(ctx, cartID)
}

// Get returns the cart, materializing an empty one for unseen ids.
func (s *service) Get(ctx context.Context, cartID string) (*models.CartRecord, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	record, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &models.CartRecord{ID: cartID, Items: []models.CartItem{}}
	}
	return record, nil
}

func (s *service) RemoveItem(ctx context.Context, cartID string, productID uuid.UUID) (*models.CartRecord, error) {
	if err := s.repo.RemoveItem(ctx, cartID, productID); err != nil {
		return nil, err
	}
	return s.Get(ctx, cartID)
}

// Clear empties the cart inside the caller's transaction when one is given,
// so checkout can clear atomically with the order commit.
func (s *service) Clear(ctx context.Context, tx *gorm.DB, cartID string) error {
	return s.repo.WithTx(tx).Clear(ctx, cartID)
}
