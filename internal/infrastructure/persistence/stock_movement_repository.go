package persistence

import (
	"context"

	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements production.StockMovementRepository
// using GORM. Movements are append-only.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append writes audit records
func (r *GormStockMovementRepository) Append(ctx context.Context, movements ...*production.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByProductSize finds movements for a product size, newest first
func (r *GormStockMovementRepository) FindByProductSize(ctx context.Context, productSizeID uuid.UUID, filter shared.Filter) ([]production.StockMovement, error) {
	var movements []production.StockMovement
	query := r.db.WithContext(ctx).
		Where("product_size_id = ?", productSizeID).
		Order("occurred_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByOrder finds movements recorded for an order
func (r *GormStockMovementRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]production.StockMovement, error) {
	var movements []production.StockMovement
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
