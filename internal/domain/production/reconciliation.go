package production

import (
	"sort"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReturnMode selects how delivered quantities are determined for a return
type ReturnMode string

const (
	// ReturnModePartial settles the itemized quantities supplied by the caller
	ReturnModePartial ReturnMode = "PARTIAL"
	// ReturnModeTotal settles every remaining expected piece of the order
	ReturnModeTotal ReturnMode = "TOTAL"
	// ReturnModeCloseWithoutQuantity closes the order writing off all
	// outstanding pieces with no delivery
	ReturnModeCloseWithoutQuantity ReturnMode = "CLOSE_WITHOUT_QUANTITY"
)

// ValidReturnMode reports whether the mode is one of the supported values
func ValidReturnMode(mode ReturnMode) bool {
	switch mode {
	case ReturnModePartial, ReturnModeTotal, ReturnModeCloseWithoutQuantity:
		return true
	}
	return false
}

// Delivery is one reported delivery line of a return call. LineItemID is
// the primary reference; Product+ProductSize is the fallback when the
// caller only knows the product.
type Delivery struct {
	LineItemID    *uuid.UUID
	ProductID     *uuid.UUID
	ProductSizeID *uuid.UUID
	Quantity      int
}

// ReturnStep is the reconciliation outcome for one line item: the piece
// movements to apply to the item and the ledger, plus the inputs the
// settlement calculator needs.
type ReturnStep struct {
	Item           *LineItem
	ExpectedBefore int
	Delivered      int
	Defects        int
	GoodPieces     int
	ConsumedOpen   int
}

// ReturnPlan is the full reconciliation of one return call, with steps in
// line-item creation order.
type ReturnPlan struct {
	Mode  ReturnMode
	Steps []ReturnStep
}

// PlanReturn reconciles a return call against the order's line items
// without mutating anything. It resolves deliveries to items, allocates
// the order-level defect count greedily in item creation order, and
// produces one step per touched item.
//
// The whole call is rejected when the order cannot accept returns, a
// delivery cannot be resolved, or totalDefective exceeds what is being
// delivered.
func PlanReturn(order *Order, deliveries []Delivery, totalDefective int, mode ReturnMode) (*ReturnPlan, error) {
	if !ValidReturnMode(mode) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid return mode")
	}
	if !order.CanReturn() {
		return nil, shared.NewDomainError("INVALID_STATE", "Order has already been fully returned")
	}
	if totalDefective < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Defective count cannot be negative")
	}

	steps, err := resolveSteps(order, deliveries, mode)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Nothing to return")
	}

	deliverable := 0
	for i := range steps {
		deliverable += steps[i].Delivered
	}
	if totalDefective > deliverable {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Defective count exceeds delivered pieces")
	}

	// Greedy defect allocation in item creation order.
	remainingDefects := totalDefective
	for i := range steps {
		step := &steps[i]

		defects := step.Delivered
		if remainingDefects < defects {
			defects = remainingDefects
		}
		remainingDefects -= defects
		step.Defects = defects

		good := step.Delivered - defects
		if good > step.ExpectedBefore {
			good = step.ExpectedBefore
		}
		if good < 0 {
			good = 0
		}
		step.GoodPieces = good

		if mode == ReturnModeCloseWithoutQuantity {
			step.ConsumedOpen = step.ExpectedBefore
		} else {
			step.ConsumedOpen = step.Delivered
		}
	}

	return &ReturnPlan{Mode: mode, Steps: steps}, nil
}

// resolveSteps builds the ordered step list with delivered quantities per
// mode. TOTAL and CLOSE_WITHOUT_QUANTITY cover every item with pieces
// outstanding; PARTIAL covers exactly the resolved deliveries.
func resolveSteps(order *Order, deliveries []Delivery, mode ReturnMode) ([]ReturnStep, error) {
	if mode != ReturnModePartial {
		steps := make([]ReturnStep, 0, len(order.Items))
		for i := range order.Items {
			item := &order.Items[i]
			if item.ExpectedPieces <= 0 {
				continue
			}
			delivered := 0
			if mode == ReturnModeTotal {
				delivered = item.ExpectedPieces
			}
			steps = append(steps, ReturnStep{
				Item:           item,
				ExpectedBefore: item.ExpectedPieces,
				Delivered:      delivered,
			})
		}
		return steps, nil
	}

	if len(deliveries) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Partial return requires at least one delivery")
	}

	byItem := make(map[uuid.UUID]*ReturnStep)
	for _, d := range deliveries {
		if d.Quantity < 0 {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Delivered quantity cannot be negative")
		}

		item, err := resolveItem(order, d)
		if err != nil {
			return nil, err
		}

		step, ok := byItem[item.ID]
		if !ok {
			step = &ReturnStep{Item: item, ExpectedBefore: item.ExpectedPieces}
			byItem[item.ID] = step
		}
		step.Delivered += d.Quantity
	}

	steps := make([]ReturnStep, 0, len(byItem))
	for _, step := range byItem {
		// Deliveries beyond the outstanding count are capped: the ledger
		// never consumed more than it reserved.
		if step.Delivered > step.ExpectedBefore {
			step.Delivered = step.ExpectedBefore
		}
		steps = append(steps, *step)
	}
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].Item.SortOrder < steps[j].Item.SortOrder
	})
	return steps, nil
}

func resolveItem(order *Order, d Delivery) (*LineItem, error) {
	if d.LineItemID != nil && *d.LineItemID != uuid.Nil {
		if item := order.FindItem(*d.LineItemID); item != nil {
			return item, nil
		}
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Delivery references an unknown order item")
	}
	if d.ProductID != nil && d.ProductSizeID != nil {
		if item := order.FindItemByProductSize(*d.ProductID, *d.ProductSizeID); item != nil {
			return item, nil
		}
	}
	return nil, shared.NewDomainError("VALIDATION_ERROR", "Delivery could not be matched to an order item")
}
