package persistence

import (
	"context"
	"errors"

	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements production.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its line items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Order, error) {
	var order production.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds orders matching the filter, items preloaded
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.Order, error) {
	var orders []production.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&production.Order{}),
		filter, orderFilterColumns, OrderSortFields,
	).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByWorkshop finds orders for a workshop
func (r *GormOrderRepository) FindByWorkshop(ctx context.Context, workshopID uuid.UUID, filter shared.Filter) ([]production.Order, error) {
	var orders []production.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&production.Order{}).
			Where("workshop_id = ?", workshopID),
		filter, orderFilterColumns, OrderSortFields,
	).Preload("Items")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order and its line items
func (r *GormOrderRepository) Save(ctx context.Context, order *production.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// Delete deletes an order and its line items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&production.LineItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&production.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&production.Order{}),
		filter, orderFilterColumns,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// orderFilterColumns maps filter keys to WHERE clauses for orders
func orderFilterColumns(query *gorm.DB, key string, value interface{}) *gorm.DB {
	switch key {
	case "workshop_id":
		return query.Where("workshop_id = ?", value)
	case "status":
		return query.Where("status = ?", value)
	}
	return query
}

// filterColumnFn applies one repository-specific filter key
type filterColumnFn func(query *gorm.DB, key string, value interface{}) *gorm.DB

// applyFilter applies custom filters, pagination and ordering. The
// sort field is validated against the repository's whitelist; unknown
// fields fall back to created_at.
func applyFilter(query *gorm.DB, filter shared.Filter, columns filterColumnFn, sortFields map[string]bool) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter, columns)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, sortFields, "created_at")
		query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies only the custom filter keys
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter, columns filterColumnFn) *gorm.DB {
	if columns == nil {
		return query
	}
	for key, value := range filter.Filters {
		query = columns(query, key, value)
	}
	return query
}
