package production

import (
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementType classifies a stock ledger mutation
type MovementType string

const (
	MovementTypeReserve  MovementType = "RESERVE"  // Order created: pieces enter the open bucket
	MovementTypeDelivery MovementType = "DELIVERY" // Return processed: open consumed, finished raised
	MovementTypeReversal MovementType = "REVERSAL" // Reopen: finished moved back to open
	MovementTypeRelease  MovementType = "RELEASE"  // Delete: buckets reduced without delivery
)

// StockMovement is an immutable audit record written alongside every
// ledger mutation. Deltas are signed per bucket; the ledger itself clamps
// at zero, so applied deltas may be smaller than requested.
type StockMovement struct {
	shared.BaseEntity
	ProductSizeID uuid.UUID    `gorm:"type:uuid;not null;index"`
	OrderID       uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type          MovementType `gorm:"type:varchar(20);not null"`
	OpenDelta     int          `gorm:"not null;default:0"`
	FinishedDelta int          `gorm:"not null;default:0"`
	OccurredAt    time.Time    `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates an audit record for a ledger mutation
func NewStockMovement(productSizeID, orderID uuid.UUID, movementType MovementType, openDelta, finishedDelta int) *StockMovement {
	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		ProductSizeID: productSizeID,
		OrderID:       orderID,
		Type:          movementType,
		OpenDelta:     openDelta,
		FinishedDelta: finishedDelta,
		OccurredAt:    time.Now(),
	}
}
