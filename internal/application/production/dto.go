package production

import (
	"time"

	"github.com/atelier/backend/internal/domain/production"
	"github.com/google/uuid"
)

// CreateOrderRequest is the input for dispatching a new order to a workshop
type CreateOrderRequest struct {
	WorkshopID uuid.UUID
	StartDate  time.Time
	Items      []CreateOrderItemRequest
}

// CreateOrderItemRequest is one requested line of a new order. The product
// may be referenced by ID or by catalog code; the size by ID or label.
type CreateOrderItemRequest struct {
	ProductID       *uuid.UUID
	ProductCode     string
	ProductSizeID   *uuid.UUID
	SizeLabel       string
	CutReference    string
	Volumes         int
	PiecesPerVolume int
}

// ItemResultStatus classifies the outcome of one requested order item
type ItemResultStatus string

const (
	ItemResultAccepted ItemResultStatus = "ACCEPTED"
	ItemResultSkipped  ItemResultStatus = "SKIPPED"
)

// ItemResult reports what happened to one requested item during order
// creation. Skipped items carry the reason; accepted items carry the
// created line item id.
type ItemResult struct {
	Index      int              `json:"index"`
	Status     ItemResultStatus `json:"status"`
	LineItemID *uuid.UUID       `json:"line_item_id,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}

// CreateOrderResult is the outcome of an order creation call
type CreateOrderResult struct {
	Order       *OrderDTO    `json:"order"`
	ItemResults []ItemResult `json:"item_results"`
}

// ReturnOrderRequest is the input for reconciling a return
type ReturnOrderRequest struct {
	Mode           production.ReturnMode
	TotalDefective int
	Deliveries     []ReturnDeliveryRequest
}

// ReturnDeliveryRequest is one reported delivery line
type ReturnDeliveryRequest struct {
	LineItemID    *uuid.UUID
	ProductID     *uuid.UUID
	ProductSizeID *uuid.UUID
	Quantity      int
}

// OrderDTO is the read model of an order
type OrderDTO struct {
	ID               uuid.UUID      `json:"id"`
	WorkshopID       uuid.UUID      `json:"workshop_id"`
	StartDate        time.Time      `json:"start_date"`
	ReturnDate       *time.Time     `json:"return_date,omitempty"`
	Status           string         `json:"status"`
	ExpectedPieces   int            `json:"expected_pieces"`
	ActualPieces     int            `json:"actual_pieces"`
	DifferencePieces int            `json:"difference_pieces"`
	Items            []OrderItemDTO `json:"items"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// OrderItemDTO is the read model of a line item
type OrderItemDTO struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	ProductSizeID    uuid.UUID `json:"product_size_id"`
	SizeLabel        string    `json:"size_label"`
	CutReference     string    `json:"cut_reference,omitempty"`
	Volumes          int       `json:"volumes"`
	PiecesPerVolume  int       `json:"pieces_per_volume"`
	ExpectedPieces   int       `json:"expected_pieces"`
	ActualGoodPieces int       `json:"actual_good_pieces"`
	DefectivePieces  int       `json:"defective_pieces"`
}

// StockEntryDTO is the read model of one ledger entry
type StockEntryDTO struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	ProductSizeID    uuid.UUID `json:"product_size_id"`
	OpenQuantity     int       `json:"open_quantity"`
	FinishedQuantity int       `json:"finished_quantity"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StockSummaryDTO is the aggregate view of the whole ledger
type StockSummaryDTO struct {
	OpenQuantity     int64 `json:"open_quantity"`
	FinishedQuantity int64 `json:"finished_quantity"`
	TotalQuantity    int64 `json:"total_quantity"`
}

// SettlementDTO is the read model of a settlement record
type SettlementDTO struct {
	ID              uuid.UUID  `json:"id"`
	OrderID         uuid.UUID  `json:"order_id"`
	LineItemID      uuid.UUID  `json:"line_item_id"`
	WorkshopID      uuid.UUID  `json:"workshop_id"`
	PiecesPaid      int        `json:"pieces_paid"`
	PieceDifference int        `json:"piece_difference"`
	Amount          string     `json:"amount"`
	Status          string     `json:"status"`
	EntryDate       time.Time  `json:"entry_date"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
}

func toOrderDTO(order *production.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for i := range order.Items {
		it := &order.Items[i]
		items = append(items, OrderItemDTO{
			ID:               it.ID,
			ProductID:        it.ProductID,
			ProductSizeID:    it.ProductSizeID,
			SizeLabel:        it.SizeLabel,
			CutReference:     it.CutReference,
			Volumes:          it.Volumes,
			PiecesPerVolume:  it.PiecesPerVolume,
			ExpectedPieces:   it.ExpectedPieces,
			ActualGoodPieces: it.ActualGoodPieces,
			DefectivePieces:  it.DefectivePieces,
		})
	}
	return &OrderDTO{
		ID:               order.ID,
		WorkshopID:       order.WorkshopID,
		StartDate:        order.StartDate,
		ReturnDate:       order.ReturnDate,
		Status:           string(order.Status),
		ExpectedPieces:   order.ExpectedPieces,
		ActualPieces:     order.ActualPieces,
		DifferencePieces: order.DifferencePieces,
		Items:            items,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

func toStockEntryDTO(entry *production.StockEntry) StockEntryDTO {
	return StockEntryDTO{
		ID:               entry.ID,
		ProductID:        entry.ProductID,
		ProductSizeID:    entry.ProductSizeID,
		OpenQuantity:     entry.OpenQuantity,
		FinishedQuantity: entry.FinishedQuantity,
		UpdatedAt:        entry.UpdatedAt,
	}
}

func toSettlementDTO(record *production.SettlementRecord) SettlementDTO {
	return SettlementDTO{
		ID:              record.ID,
		OrderID:         record.OrderID,
		LineItemID:      record.LineItemID,
		WorkshopID:      record.WorkshopID,
		PiecesPaid:      record.PiecesPaid,
		PieceDifference: record.PieceDifference,
		Amount:          record.Amount.Round(2).StringFixed(2),
		Status:          string(record.Status),
		EntryDate:       record.EntryDate,
		PaidAt:          record.PaidAt,
	}
}
