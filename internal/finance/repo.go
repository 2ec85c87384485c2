package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verduraria/backend/pkg/db/models"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

// Repository persists manual cash outflow records.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an outflow repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an outflow record.
func (r *Repository) Create(ctx context.Context, outflow *models.Outflow) (*models.Outflow, error) {
	if err := r.db.WithContext(ctx).Create(outflow).Error; err != nil {
		return nil, err
	}
	return outflow, nil
}

// List returns outflows, newest first, optionally bounded by occurrence date.
func (r *Repository) List(ctx context.Context, from, to *time.Time) ([]models.Outflow, error) {
	query := r.db.WithContext(ctx).Model(&models.Outflow{})
	if from != nil {
		query = query.Where("occurred_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("occurred_at < ?", *to)
	}

	var outflows []models.Outflow
	if err := query.Order("occurred_at DESC").Find(&outflows).Error; err != nil {
		return nil, err
	}
	return outflows, nil
}

// Delete removes an outflow record by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Outflow{}, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "outflow not found")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "outflow not found")
	}
	return nil
}
