package production

import (
	"context"
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders matching the filter, items preloaded
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByWorkshop finds orders for a workshop
	FindByWorkshop(ctx context.Context, workshopID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order and its line items
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order and its line items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockTotals is the aggregate view of the whole ledger
type StockTotals struct {
	OpenQuantity     int64
	FinishedQuantity int64
}

// StockEntryRepository defines the interface for the stock ledger
type StockEntryRepository interface {
	// FindByProductSize finds the entry for a product size
	FindByProductSize(ctx context.Context, productSizeID uuid.UUID) (*StockEntry, error)

	// GetOrCreate returns the entry for a product size, lazily creating a
	// zeroed one
	GetOrCreate(ctx context.Context, productID, productSizeID uuid.UUID) (*StockEntry, error)

	// FindForUpdate loads and row-locks the entries for the given product
	// sizes. Implementations must acquire locks in deterministic order
	// (sorted by product-size id).
	FindForUpdate(ctx context.Context, productSizeIDs []uuid.UUID) (map[uuid.UUID]*StockEntry, error)

	// FindAll finds ledger entries matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockEntry, error)

	// Save persists a ledger entry
	Save(ctx context.Context, entry *StockEntry) error

	// Count counts ledger entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Totals returns the summed open and finished quantities
	Totals(ctx context.Context) (StockTotals, error)
}

// SettlementRepository defines the interface for settlement persistence
type SettlementRepository interface {
	// FindByID finds a settlement record
	FindByID(ctx context.Context, id uuid.UUID) (*SettlementRecord, error)

	// FindByOrder finds all settlement records for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]SettlementRecord, error)

	// FindByPeriod finds settlement records with entry date in [from, to]
	FindByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) ([]SettlementRecord, error)

	// Save persists a settlement record
	Save(ctx context.Context, record *SettlementRecord) error

	// SaveBatch persists multiple settlement records
	SaveBatch(ctx context.Context, records []*SettlementRecord) error

	// DeleteByOrder removes all settlement records of an order
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error

	// CountByPeriod counts settlement records with entry date in [from, to]
	CountByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (int64, error)
}

// StockMovementRepository defines the interface for the movement audit log
type StockMovementRepository interface {
	// Append writes audit records; movements are never updated or deleted
	Append(ctx context.Context, movements ...*StockMovement) error

	// FindByProductSize finds movements for a product size, newest first
	FindByProductSize(ctx context.Context, productSizeID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByOrder finds movements recorded for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]StockMovement, error)
}
