package persistence

import "strings"

// ValidateSortOrder normalizes a sort direction to ASC or DESC.
// Anything that is not explicitly descending sorts ascending.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "desc") {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField returns the sort field when it is in the allowed
// set, the default field otherwise. Client-supplied sort fields must
// never reach the SQL string unvalidated.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OrderSortFields lists the sortable columns of production orders
var OrderSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"workshop_id":       true,
	"status":            true,
	"start_date":        true,
	"return_date":       true,
	"expected_pieces":   true,
	"actual_pieces":     true,
	"difference_pieces": true,
}

// ProductSortFields lists the sortable columns of products
var ProductSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"code":            true,
	"description":     true,
	"fabric":          true,
	"labor_rate":      true,
	"sale_price_doz":  true,
	"sale_price_unit": true,
	"status":          true,
}

// WorkshopSortFields lists the sortable columns of workshops
var WorkshopSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"city":       true,
	"status":     true,
}

// StockEntrySortFields lists the sortable columns of stock ledger entries
var StockEntrySortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"product_id":        true,
	"product_size_id":   true,
	"open_quantity":     true,
	"finished_quantity": true,
}

// SettlementSortFields lists the sortable columns of settlement records
var SettlementSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"order_id":         true,
	"workshop_id":      true,
	"pieces_paid":      true,
	"piece_difference": true,
	"amount":           true,
	"status":           true,
	"entry_date":       true,
	"paid_at":          true,
}
