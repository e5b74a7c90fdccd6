package production

import (
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementStatus represents the payment status of a settlement record
type SettlementStatus string

const (
	SettlementStatusOpen SettlementStatus = "OPEN"
	SettlementStatusPaid SettlementStatus = "PAID"
)

// toleranceMargin is the fraction of expected pieces a workshop may fall
// short of and still be paid the full dozen rate on what it delivered.
var toleranceMargin = decimal.NewFromFloat(0.025)

var piecesPerDozen = decimal.NewFromInt(12)

// SettlementRecord is the labor amount owed to a workshop for one line
// item of one reconciliation event. Records are removed wholesale when
// the order is reopened or deleted.
type SettlementRecord struct {
	shared.BaseAggregateRoot
	OrderID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	LineItemID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	WorkshopID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	PiecesPaid      int              `gorm:"not null"`
	PieceDifference int              `gorm:"not null"` // delivered − expected before this event
	Amount          decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Status          SettlementStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	EntryDate       time.Time        `gorm:"not null;index"`
	PaidAt          *time.Time       `gorm:""`
}

// TableName returns the table name for GORM
func (SettlementRecord) TableName() string {
	return "settlement_records"
}

// NewSettlementRecord creates an open settlement record
func NewSettlementRecord(orderID, lineItemID, workshopID uuid.UUID, piecesPaid, pieceDifference int, amount decimal.Decimal) (*SettlementRecord, error) {
	if piecesPaid < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Paid pieces cannot be negative")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Settlement amount cannot be negative")
	}

	return &SettlementRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		LineItemID:        lineItemID,
		WorkshopID:        workshopID,
		PiecesPaid:        piecesPaid,
		PieceDifference:   pieceDifference,
		Amount:            amount,
		Status:            SettlementStatusOpen,
		EntryDate:         time.Now(),
	}, nil
}

// MarkPaid marks the record as paid, stamping the payment time
func (s *SettlementRecord) MarkPaid(now time.Time) error {
	if s.Status == SettlementStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Settlement is already paid")
	}

	s.Status = SettlementStatusPaid
	s.PaidAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// IsPaid returns true if the record has been paid
func (s *SettlementRecord) IsPaid() bool {
	return s.Status == SettlementStatusPaid
}

// CalculateLaborAmount computes the labor owed for one reconciliation
// event with the tolerance-margin rule.
//
// The floor is expectedBefore reduced by the tolerance margin. Pieces up
// to the floor are paid at the dozen rate (per piece: rate/12); pieces
// beyond the floor are paid at the loose-piece rate. Defective pieces
// count toward paidPieces. The result is unrounded; callers round
// half-up to 2 decimals at the output boundary.
func CalculateLaborAmount(expectedBefore, paidPieces int, dozenRate, pieceRate decimal.Decimal) decimal.Decimal {
	if paidPieces <= 0 {
		return decimal.Zero
	}

	expected := decimal.NewFromInt(int64(expectedBefore))
	paid := decimal.NewFromInt(int64(paidPieces))
	floor := expected.Mul(decimal.NewFromInt(1).Sub(toleranceMargin))

	within := decimal.Min(paid, floor)
	if within.IsNegative() {
		within = decimal.Zero
	}
	excess := paid.Sub(floor)
	if excess.IsNegative() {
		excess = decimal.Zero
	}

	amount := within.Mul(dozenRate.Div(piecesPerDozen)).Add(excess.Mul(pieceRate))
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
