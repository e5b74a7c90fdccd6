package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSettlementRepository implements production.SettlementRepository using GORM
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a new GormSettlementRepository
func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// FindByID finds a settlement record
func (r *GormSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.SettlementRecord, error) {
	var record production.SettlementRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByOrder finds all settlement records for an order
func (r *GormSettlementRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]production.SettlementRecord, error) {
	var records []production.SettlementRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("entry_date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByPeriod finds settlement records with entry date in [from, to]
func (r *GormSettlementRepository) FindByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) ([]production.SettlementRecord, error) {
	var records []production.SettlementRecord
	query := applyFilter(
		r.db.WithContext(ctx).Model(&production.SettlementRecord{}).
			Where("entry_date >= ? AND entry_date <= ?", from, to),
		filter, settlementFilterColumns, SettlementSortFields,
	)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save persists a settlement record
func (r *GormSettlementRepository) Save(ctx context.Context, record *production.SettlementRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveBatch persists multiple settlement records
func (r *GormSettlementRepository) SaveBatch(ctx context.Context, records []*production.SettlementRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(records).Error
}

// DeleteByOrder removes all settlement records of an order
func (r *GormSettlementRepository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&production.SettlementRecord{}, "order_id = ?", orderID).Error
}

// CountByPeriod counts settlement records with entry date in [from, to]
func (r *GormSettlementRepository) CountByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&production.SettlementRecord{}).
			Where("entry_date >= ? AND entry_date <= ?", from, to),
		filter, settlementFilterColumns,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// settlementFilterColumns maps filter keys to WHERE clauses for settlements
func settlementFilterColumns(query *gorm.DB, key string, value interface{}) *gorm.DB {
	switch key {
	case "workshop_id":
		return query.Where("workshop_id = ?", value)
	case "order_id":
		return query.Where("order_id = ?", value)
	case "status":
		return query.Where("status = ?", value)
	}
	return query
}
