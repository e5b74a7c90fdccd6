package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		orderDir string
		want     string
	}{
		{"desc lowercase", "desc", "DESC"},
		{"desc uppercase", "DESC", "DESC"},
		{"desc with whitespace", "  desc  ", "DESC"},
		{"asc", "asc", "ASC"},
		{"empty defaults to asc", "", "ASC"},
		{"garbage defaults to asc", "sideways", "ASC"},
		{"expression defaults to asc", "DESC; DROP TABLE products", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortOrder(tt.orderDir))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name      string
		sortField string
		allowed   map[string]bool
		want      string
	}{
		{"allowed field passes", "open_quantity", StockEntrySortFields, "open_quantity"},
		{"empty falls back", "", StockEntrySortFields, "created_at"},
		{"whitespace falls back", "   ", StockEntrySortFields, "created_at"},
		{"unknown column falls back", "secret_column", StockEntrySortFields, "created_at"},
		{"subquery falls back", "(SELECT amount FROM settlement_records)", SettlementSortFields, "created_at"},
		{"stacked statement falls back", "status; DELETE FROM workshops", WorkshopSortFields, "created_at"},
		{"field with direction suffix falls back", "created_at DESC", OrderSortFields, "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.sortField, tt.allowed, "created_at"))
		})
	}
}
