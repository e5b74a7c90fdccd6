package production

import (
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockEntry is the two-bucket stock ledger for one product size.
// OpenQuantity counts pieces dispatched and still at workshops;
// FinishedQuantity counts good pieces received back. Both buckets are
// clamped at zero and never report underflow to callers.
type StockEntry struct {
	shared.BaseAggregateRoot
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductSizeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OpenQuantity     int       `gorm:"not null;default:0"`
	FinishedQuantity int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// NewStockEntry creates a zeroed ledger entry for a product size
func NewStockEntry(productID, productSizeID uuid.UUID) (*StockEntry, error) {
	if productID == uuid.Nil || productSizeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product and size are required")
	}

	return &StockEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		ProductSizeID:     productSizeID,
	}, nil
}

// Reserve adds pieces to the open bucket when an order is dispatched
func (e *StockEntry) Reserve(pieces int) error {
	if pieces <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Reserved pieces must be positive")
	}

	e.OpenQuantity += pieces
	e.touch()
	return nil
}

// CommitDelivery settles a return against the ledger: consumedOpen pieces
// leave the open bucket (clamped) and goodPieces enter the finished bucket.
func (e *StockEntry) CommitDelivery(goodPieces, consumedOpen int) error {
	if goodPieces < 0 || consumedOpen < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Delivery quantities cannot be negative")
	}

	e.OpenQuantity = clampZero(e.OpenQuantity - consumedOpen)
	e.FinishedQuantity += goodPieces
	e.touch()
	return nil
}

// ReverseDelivery undoes a delivery when an order is reopened: goodPieces
// leave the finished bucket (clamped) and restoredOpen return to the open
// bucket.
func (e *StockEntry) ReverseDelivery(goodPieces, restoredOpen int) error {
	if goodPieces < 0 || restoredOpen < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Reversal quantities cannot be negative")
	}

	e.FinishedQuantity = clampZero(e.FinishedQuantity - goodPieces)
	e.OpenQuantity += restoredOpen
	e.touch()
	return nil
}

// Release removes pieces from the open bucket (clamped), used when an
// order is deleted with pieces still outstanding.
func (e *StockEntry) Release(pieces int) error {
	if pieces < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Released pieces cannot be negative")
	}

	e.OpenQuantity = clampZero(e.OpenQuantity - pieces)
	e.touch()
	return nil
}

// ReverseFinished removes pieces from the finished bucket (clamped), used
// when a delivered order is deleted.
func (e *StockEntry) ReverseFinished(pieces int) error {
	if pieces < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Reversed pieces cannot be negative")
	}

	e.FinishedQuantity = clampZero(e.FinishedQuantity - pieces)
	e.touch()
	return nil
}

// Total returns open + finished quantities
func (e *StockEntry) Total() int {
	return e.OpenQuantity + e.FinishedQuantity
}

func (e *StockEntry) touch() {
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
