package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/verduraria/backend/internal/loyalty"
	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/pagination"
)

// Service exposes order lookup and back-office management. Order creation
// and paid transitions belong to the checkout orchestrator.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByTaxID(ctx context.Context, taxID string) ([]models.Order, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an order service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListByTaxID(ctx context.Context, taxID string) ([]models.Order, error) {
	normalized := loyalty.NormalizeTaxID(taxID)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax id is required")
	}
	return s.repo.ListByTaxID(ctx, normalized)
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error) {
	if filter.TaxID != "" {
		filter.TaxID = loyalty.NormalizeTaxID(filter.TaxID)
	}
	return s.repo.List(ctx, filter, params)
}

// UpdateStatus applies an operator status edit. Paid-terminal orders accept
// fulfillment statuses but cannot move back to awaiting payment, which would
// re-arm the webhook side effects.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	status = enums.OrderStatus(strings.TrimSpace(string(status)))
	if status == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status is required")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status.IsPaidTerminal() && status == enums.OrderStatusAwaitingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "paid orders cannot return to awaiting payment").
			WithDetails(map[string]any{"order_id": id.String(), "current": order.Status.String()})
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}
