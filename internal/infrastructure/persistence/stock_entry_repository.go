package persistence

import (
	"context"
	"errors"
	"sort"

	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockEntryRepository implements production.StockEntryRepository using GORM
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// FindByProductSize finds the entry for a product size
func (r *GormStockEntryRepository) FindByProductSize(ctx context.Context, productSizeID uuid.UUID) (*production.StockEntry, error) {
	var entry production.StockEntry
	if err := r.db.WithContext(ctx).
		First(&entry, "product_size_id = ?", productSizeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetOrCreate returns the entry for a product size, lazily creating a
// zeroed one. The insert ignores conflicts so concurrent creators
// converge on the same row.
func (r *GormStockEntryRepository) GetOrCreate(ctx context.Context, productID, productSizeID uuid.UUID) (*production.StockEntry, error) {
	entry, err := r.FindByProductSize(ctx, productSizeID)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := production.NewStockEntry(productID, productSizeID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_size_id"}},
			DoNothing: true,
		}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	return r.FindByProductSize(ctx, productSizeID)
}

// FindForUpdate loads and row-locks the entries for the given product
// sizes. The ids are sorted before locking so concurrent commands on
// overlapping sets acquire locks in the same order.
func (r *GormStockEntryRepository) FindForUpdate(ctx context.Context, productSizeIDs []uuid.UUID) (map[uuid.UUID]*production.StockEntry, error) {
	if len(productSizeIDs) == 0 {
		return map[uuid.UUID]*production.StockEntry{}, nil
	}

	sorted := make([]uuid.UUID, len(productSizeIDs))
	copy(sorted, productSizeIDs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	out := make(map[uuid.UUID]*production.StockEntry, len(sorted))
	for _, id := range sorted {
		var entry production.StockEntry
		if err := r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entry, "product_size_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shared.ErrNotFound
			}
			return nil, err
		}
		e := entry
		out[id] = &e
	}
	return out, nil
}

// FindAll finds ledger entries matching the filter
func (r *GormStockEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.StockEntry, error) {
	var entries []production.StockEntry
	query := applyFilter(
		r.db.WithContext(ctx).Model(&production.StockEntry{}),
		filter, stockFilterColumns, StockEntrySortFields,
	)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save persists a ledger entry
func (r *GormStockEntryRepository) Save(ctx context.Context, entry *production.StockEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Count counts ledger entries matching the filter
func (r *GormStockEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&production.StockEntry{}),
		filter, stockFilterColumns,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Totals returns the summed open and finished quantities
func (r *GormStockEntryRepository) Totals(ctx context.Context) (production.StockTotals, error) {
	var result struct {
		Open     int64
		Finished int64
	}
	if err := r.db.WithContext(ctx).
		Model(&production.StockEntry{}).
		Select("COALESCE(SUM(open_quantity), 0) as open, COALESCE(SUM(finished_quantity), 0) as finished").
		Scan(&result).Error; err != nil {
		return production.StockTotals{}, err
	}
	return production.StockTotals{
		OpenQuantity:     result.Open,
		FinishedQuantity: result.Finished,
	}, nil
}

// stockFilterColumns maps filter keys to WHERE clauses for stock entries
func stockFilterColumns(query *gorm.DB, key string, value interface{}) *gorm.DB {
	switch key {
	case "product_id":
		return query.Where("product_id = ?", value)
	case "product_size_id":
		return query.Where("product_size_id = ?", value)
	case "has_open":
		if value == true {
			return query.Where("open_quantity > 0")
		}
	case "has_finished":
		if value == true {
			return query.Where("finished_quantity > 0")
		}
	}
	return query
}
