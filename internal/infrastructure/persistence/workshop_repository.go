package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/atelier/backend/internal/domain/partner"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWorkshopRepository implements partner.WorkshopRepository using GORM
type GormWorkshopRepository struct {
	db *gorm.DB
}

// NewGormWorkshopRepository creates a new GormWorkshopRepository
func NewGormWorkshopRepository(db *gorm.DB) *GormWorkshopRepository {
	return &GormWorkshopRepository{db: db}
}

// FindByID finds a workshop by its ID
func (r *GormWorkshopRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Workshop, error) {
	var workshop partner.Workshop
	if err := r.db.WithContext(ctx).First(&workshop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &workshop, nil
}

// FindByName finds a workshop by its exact name
func (r *GormWorkshopRepository) FindByName(ctx context.Context, name string) (*partner.Workshop, error) {
	var workshop partner.Workshop
	if err := r.db.WithContext(ctx).First(&workshop, "name = ?", strings.TrimSpace(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &workshop, nil
}

// FindAll finds all workshops matching the filter
func (r *GormWorkshopRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Workshop, error) {
	var workshops []partner.Workshop
	query := applyFilter(
		r.db.WithContext(ctx).Model(&partner.Workshop{}),
		filter, workshopFilterColumns, WorkshopSortFields,
	)

	if filter.Search != "" {
		pattern := "%" + strings.ToUpper(filter.Search) + "%"
		query = query.Where("UPPER(name) LIKE ?", pattern)
	}

	if err := query.Find(&workshops).Error; err != nil {
		return nil, err
	}
	return workshops, nil
}

// Save creates or updates a workshop
func (r *GormWorkshopRepository) Save(ctx context.Context, workshop *partner.Workshop) error {
	return r.db.WithContext(ctx).Save(workshop).Error
}

// Delete deletes a workshop
func (r *GormWorkshopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Workshop{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts workshops matching the filter
func (r *GormWorkshopRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&partner.Workshop{}),
		filter, workshopFilterColumns,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if a workshop with the given name exists
func (r *GormWorkshopRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Workshop{}).
		Where("name = ?", strings.TrimSpace(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// workshopFilterColumns maps filter keys to WHERE clauses for workshops
func workshopFilterColumns(query *gorm.DB, key string, value interface{}) *gorm.DB {
	switch key {
	case "status":
		return query.Where("status = ?", value)
	}
	return query
}
