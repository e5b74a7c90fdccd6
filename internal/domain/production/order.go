package production

import (
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle status of a production order
type OrderStatus string

const (
	OrderStatusCreated      OrderStatus = "CREATED"       // Dispatched to the workshop, nothing returned yet
	OrderStatusInProduction OrderStatus = "IN_PRODUCTION" // At least one return processed, pieces still outstanding
	OrderStatusReturned     OrderStatus = "RETURNED"      // All pieces accounted for
)

// Order represents a production order dispatched to an external workshop.
// It is the aggregate root for the order lifecycle and owns its line items.
type Order struct {
	shared.BaseAggregateRoot
	WorkshopID uuid.UUID   `gorm:"type:uuid;not null;index"`
	StartDate  time.Time   `gorm:"not null"`
	ReturnDate *time.Time  `gorm:""`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'CREATED'"`

	// Denormalized totals, recomputed on every mutation.
	// ExpectedPieces is the outstanding total; DifferencePieces is
	// actual+defective+outstanding minus the originally expected total.
	ExpectedPieces   int `gorm:"not null;default:0"`
	ActualPieces     int `gorm:"not null;default:0"`
	DifferencePieces int `gorm:"not null;default:0"`

	Items []LineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "production_orders"
}

// LineItem is one product/size position of a production order.
// ExpectedPieces starts at Volumes×PiecesPerVolume and is decremented by
// each return; ActualGoodPieces and DefectivePieces accumulate across
// returns and are reset only by a reversal.
type LineItem struct {
	shared.BaseEntity
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductSizeID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SizeLabel       string    `gorm:"type:varchar(20);not null"`
	CutReference    string    `gorm:"type:varchar(50)"`
	Volumes         int       `gorm:"not null"`
	PiecesPerVolume int       `gorm:"not null"`
	ExpectedPieces  int       `gorm:"not null;default:0"`
	ActualGoodPieces int      `gorm:"not null;default:0"`
	DefectivePieces int       `gorm:"not null;default:0"`
	SortOrder       int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "production_order_items"
}

// OriginalExpected returns the piece count the item was dispatched with
func (i *LineItem) OriginalExpected() int {
	return i.Volumes * i.PiecesPerVolume
}

// NewOrder creates a new order in CREATED status with no items
func NewOrder(workshopID uuid.UUID, startDate time.Time) (*Order, error) {
	if workshopID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Workshop is required")
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WorkshopID:        workshopID,
		StartDate:         startDate,
		Status:            OrderStatusCreated,
	}, nil
}

// AddItem adds a line item to the order. Only valid before any return has
// been processed. Returns the created item.
func (o *Order) AddItem(productID, productSizeID uuid.UUID, sizeLabel, cutReference string, volumes, piecesPerVolume int) (*LineItem, error) {
	if o.Status != OrderStatusCreated {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items after production started")
	}
	if productID == uuid.Nil || productSizeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product and size are required")
	}
	if volumes <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Volumes must be positive")
	}
	if piecesPerVolume <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Pieces per volume must be positive")
	}

	item := LineItem{
		BaseEntity:      shared.NewBaseEntity(),
		OrderID:         o.ID,
		ProductID:       productID,
		ProductSizeID:   productSizeID,
		SizeLabel:       sizeLabel,
		CutReference:    cutReference,
		Volumes:         volumes,
		PiecesPerVolume: piecesPerVolume,
		ExpectedPieces:  volumes * piecesPerVolume,
		SortOrder:       len(o.Items),
	}
	o.Items = append(o.Items, item)
	o.RecomputeTotals()

	return &o.Items[len(o.Items)-1], nil
}

// HasItems returns true if the order has at least one line item
func (o *Order) HasItems() bool {
	return len(o.Items) > 0
}

// CanReturn returns true if a return can still be processed for the order
func (o *Order) CanReturn() bool {
	return o.Status != OrderStatusReturned
}

// RecomputeTotals refreshes the denormalized piece totals from the items
func (o *Order) RecomputeTotals() {
	expected, actual, accounted, original := 0, 0, 0, 0
	for i := range o.Items {
		it := &o.Items[i]
		expected += it.ExpectedPieces
		actual += it.ActualGoodPieces
		accounted += it.ActualGoodPieces + it.DefectivePieces + it.ExpectedPieces
		original += it.OriginalExpected()
	}
	o.ExpectedPieces = expected
	o.ActualPieces = actual
	o.DifferencePieces = accounted - original
}

// RefreshStatus moves the order to IN_PRODUCTION or RETURNED after a
// return has been processed, stamping the return date on completion.
func (o *Order) RefreshStatus(now time.Time) {
	o.RecomputeTotals()
	if o.ExpectedPieces > 0 {
		o.Status = OrderStatusInProduction
		o.ReturnDate = nil
	} else {
		o.Status = OrderStatusReturned
		if o.ReturnDate == nil {
			t := now
			o.ReturnDate = &t
		}
	}
	o.UpdatedAt = now
	o.IncrementVersion()
}

// ReopenAdjustment describes the ledger restoration for one line item
// when an order is reopened.
type ReopenAdjustment struct {
	ItemID         uuid.UUID
	ProductSizeID  uuid.UUID
	RestoredPieces int // good pieces moved finished → open
}

// Reopen reverts the order to CREATED, restoring each item's outstanding
// count from its good pieces and zeroing the accumulated results. It
// returns the per-item ledger adjustments the caller must apply.
// Legal only from RETURNED or IN_PRODUCTION.
func (o *Order) Reopen(now time.Time) ([]ReopenAdjustment, error) {
	if o.Status != OrderStatusReturned && o.Status != OrderStatusInProduction {
		return nil, shared.NewDomainError("INVALID_STATE", "Only returned or in-production orders can be reopened")
	}

	adjustments := make([]ReopenAdjustment, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		restored := it.ActualGoodPieces
		if restored > 0 {
			adjustments = append(adjustments, ReopenAdjustment{
				ItemID:         it.ID,
				ProductSizeID:  it.ProductSizeID,
				RestoredPieces: restored,
			})
		}
		it.ExpectedPieces += restored
		it.ActualGoodPieces = 0
		it.DefectivePieces = 0
		it.UpdatedAt = now
	}

	o.Status = OrderStatusCreated
	o.ReturnDate = nil
	o.RecomputeTotals()
	o.UpdatedAt = now
	o.IncrementVersion()

	return adjustments, nil
}

// DeleteAdjustment describes the ledger reversal for one line item when
// an order is deleted.
type DeleteAdjustment struct {
	ItemID         uuid.UUID
	ProductSizeID  uuid.UUID
	OpenReversal   int // outstanding pieces to remove from the open bucket
	FinishedReversal int // good pieces to remove from the finished bucket
}

// DeleteAdjustments returns the per-item ledger reversals required to
// delete the order in its current state.
func (o *Order) DeleteAdjustments() []DeleteAdjustment {
	adjustments := make([]DeleteAdjustment, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		if it.ExpectedPieces == 0 && it.ActualGoodPieces == 0 {
			continue
		}
		adjustments = append(adjustments, DeleteAdjustment{
			ItemID:           it.ID,
			ProductSizeID:    it.ProductSizeID,
			OpenReversal:     it.ExpectedPieces,
			FinishedReversal: it.ActualGoodPieces,
		})
	}
	return adjustments
}

// FindItem returns the line item with the given ID, or nil
func (o *Order) FindItem(itemID uuid.UUID) *LineItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// FindItemByProductSize returns the first line item matching product and
// size, or nil
func (o *Order) FindItemByProductSize(productID, productSizeID uuid.UUID) *LineItem {
	for i := range o.Items {
		if o.Items[i].ProductID == productID && o.Items[i].ProductSizeID == productSizeID {
			return &o.Items[i]
		}
	}
	return nil
}
