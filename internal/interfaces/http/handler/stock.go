package handler

import (
	appprod "github.com/atelier/backend/internal/application/production"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	stockService *appprod.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *appprod.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// List retrieves ledger entries with optional product and bucket filters
func (h *StockHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	if productID := c.Query("product_id"); productID != "" {
		id, err := uuid.Parse(productID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		filter.Filters["product_id"] = id
	}
	if sizeID := c.Query("product_size_id"); sizeID != "" {
		id, err := uuid.Parse(sizeID)
		if err != nil {
			h.BadRequest(c, "Invalid product size ID format")
			return
		}
		filter.Filters["product_size_id"] = id
	}
	if c.Query("has_open") == "true" {
		filter.Filters["has_open"] = true
	}
	if c.Query("has_finished") == "true" {
		filter.Filters["has_finished"] = true
	}

	page, err := h.stockService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Summary retrieves the ledger-wide open/finished totals
func (h *StockHandler) Summary(c *gin.Context) {
	summary, err := h.stockService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
