package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/pkg/db/models"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

// CreateOutflowInput holds the validated payload for a new expense record.
type CreateOutflowInput struct {
	Description string
	Category    string
	Amount      decimal.Decimal
	OccurredAt  *time.Time
}

// Service manages the manual side of the cash ledger. Revenue is derived
// from orders; outflows are the only records operators type in by hand.
type Service interface {
	Create(ctx context.Context, input CreateOutflowInput) (*models.Outflow, error)
	List(ctx context.Context, from, to *time.Time) ([]models.Outflow, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a finance service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("outflow repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateOutflowInput) (*models.Outflow, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	occurredAt := s.now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	outflow := &models.Outflow{
		ID:          uuid.New(),
		Description: description,
		Category:    strings.TrimSpace(input.Category),
		Amount:      input.Amount.Round(2),
		OccurredAt:  occurredAt,
	}
	return s.repo.Create(ctx, outflow)
}

func (s *service) List(ctx context.Context, from, to *time.Time) ([]models.Outflow, error) {
	return s.repo.List(ctx, from, to)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
