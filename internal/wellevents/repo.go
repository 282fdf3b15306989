package wellevents

import (
	"context"

	"gorm.io/gorm"

	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/pagination"
)

// Repository is the persistence boundary for well events.
type Repository interface {
	Create(ctx context.Context, event *models.WellEvent) error
	List(ctx context.Context, page pagination.Params) ([]models.WellEvent, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, event *models.WellEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *gormRepository) List(ctx context.Context, page pagination.Params) ([]models.WellEvent, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WellEvent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.WellEvent
	err := r.db.WithContext(ctx).
		Order("happened_at DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
