package handler

import (
	appprod "github.com/atelier/backend/internal/application/production"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettlementHandler handles settlement API endpoints
type SettlementHandler struct {
	BaseHandler
	settlementService *appprod.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *appprod.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// ListByPeriod retrieves settlement records within an entry-date range
func (h *SettlementHandler) ListByPeriod(c *gin.Context) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		h.BadRequest(c, "Query parameters 'from' and 'to' are required")
		return
	}

	from, err := parseDateTime(fromStr)
	if err != nil {
		h.BadRequest(c, "Invalid 'from' date format")
		return
	}
	to, err := parseDateTime(toStr)
	if err != nil {
		h.BadRequest(c, "Invalid 'to' date format")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	if workshopID := c.Query("workshop_id"); workshopID != "" {
		id, err := uuid.Parse(workshopID)
		if err != nil {
			h.BadRequest(c, "Invalid workshop ID format")
			return
		}
		filter.Filters["workshop_id"] = id
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.settlementService.ListByPeriod(c.Request.Context(), from, to, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByOrder retrieves all settlement records of an order
func (h *SettlementHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	records, err := h.settlementService.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// Pay marks a settlement record as paid
func (h *SettlementHandler) Pay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid settlement ID format")
		return
	}

	record, err := h.settlementService.Pay(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}
