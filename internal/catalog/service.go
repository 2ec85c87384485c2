package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

// Service exposes catalog management and lookup operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name             string
	Sector           string
	Price            decimal.Decimal
	Unit             enums.ProductUnit
	StockQty         decimal.Decimal
	ImageURL         string
	ShortDescription string
	Badge            string
	OnPromotion      bool
	Featured         bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name             *string
	Sector           *string
	Price            *decimal.Decimal
	Unit             *enums.ProductUnit
	ImageURL         *string
	ShortDescription *string
	Badge            *string
	OnPromotion      *bool
	Featured         *bool
}

// ListFilter narrows catalog listings. Search matches the accent-folded
// product name.
type ListFilter struct {
	Sector      string
	OnPromotion *bool
	Featured    *bool
	Search      string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
	}
	unit := input.Unit
	if unit == "" {
		unit = enums.ProductUnitPiece
	}
	if !unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product unit %q", unit))
	}
	if input.StockQty.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(input.Name),
		Sector:           strings.TrimSpace(input.Sector),
		Price:            input.Price,
		Unit:             unit,
		StockQty:         input.StockQty,
		ImageURL:         input.ImageURL,
		ShortDescription: input.ShortDescription,
		Badge:            input.Badge,
		OnPromotion:      input.OnPromotion,
		Featured:         input.Featured,
	}
	return s.repo.Create(ctx, product)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Sector != nil {
		product.Sector = strings.TrimSpace(*input.Sector)
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
		}
		product.Price = *input.Price
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product unit %q", *input.Unit))
		}
		product.Unit = *input.Unit
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.ShortDescription != nil {
		product.ShortDescription = *input.ShortDescription
	}
	if input.Badge != nil {
		product.Badge = *input.Badge
	}
	if input.OnPromotion != nil {
		product.OnPromotion = *input.OnPromotion
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}

	return s.repo.Update(ctx, product)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByName resolves a product by accent-folded name match. The fold happens
// in memory because neither backing database ships unaccent by default.
func (s *service) GetByName(ctx context.Context, name string) (*models.Product, error) {
	wanted := NormalizeName(name)
	if wanted == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	products, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if NormalizeName(products[i].Name) == wanted {
			return &products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
		WithDetails(map[string]any{"name": name})
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	products, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	sector := NormalizeName(filter.Sector)
	search := NormalizeName(filter.Search)

	out := make([]models.Product, 0, len(products))
	for _, product := range products {
		if sector != "" && NormalizeName(product.Sector) != sector {
			continue
		}
		if filter.OnPromotion != nil && product.OnPromotion != *filter.OnPromotion {
			continue
		}
		if filter.Featured != nil && product.Featured != *filter.Featured {
			continue
		}
		if search != "" && !strings.Contains(NormalizeName(product.Name), search) {
			continue
		}
		out = append(out, product)
	}
	return out, nil
}
