package handler

import (
	appprod "github.com/atelier/backend/internal/application/production"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles production order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *appprod.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *appprod.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest is the request body for dispatching a new order
type CreateOrderRequest struct {
	WorkshopID string                   `json:"workshop_id" binding:"required,uuid"`
	StartDate  string                   `json:"start_date"`
	Items      []CreateOrderItemRequest `json:"items" binding:"required,min=1"`
}

// CreateOrderItemRequest is one requested order line. Per-line validation
// happens in the application layer so invalid lines are skipped with a
// reason instead of failing the whole request.
type CreateOrderItemRequest struct {
	ProductID       string `json:"product_id" binding:"omitempty,uuid"`
	ProductCode     string `json:"product_code"`
	ProductSizeID   string `json:"product_size_id" binding:"omitempty,uuid"`
	SizeLabel       string `json:"size_label"`
	CutReference    string `json:"cut_reference"`
	Volumes         int    `json:"volumes"`
	PiecesPerVolume int    `json:"pieces_per_volume"`
}

// ReturnOrderRequest is the request body for reconciling a return
type ReturnOrderRequest struct {
	Mode           string                  `json:"mode" binding:"required,returnmode"`
	TotalDefective int                     `json:"total_defective" binding:"gte=0"`
	Deliveries     []ReturnDeliveryRequest `json:"deliveries"`
}

// ReturnDeliveryRequest is one reported delivery line
type ReturnDeliveryRequest struct {
	LineItemID    string `json:"line_item_id" binding:"omitempty,uuid"`
	ProductID     string `json:"product_id" binding:"omitempty,uuid"`
	ProductSizeID string `json:"product_size_id" binding:"omitempty,uuid"`
	Quantity      int    `json:"quantity"`
}

// Create dispatches a new order to a workshop
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	workshopID, err := uuid.Parse(req.WorkshopID)
	if err != nil {
		h.BadRequest(c, "Invalid workshop ID format")
		return
	}

	appReq := appprod.CreateOrderRequest{WorkshopID: workshopID}

	if req.StartDate != "" {
		startDate, err := parseDateTime(req.StartDate)
		if err != nil {
			h.BadRequest(c, "Invalid start date format")
			return
		}
		appReq.StartDate = startDate
	}

	for _, item := range req.Items {
		productID, err := parseUUIDPtr(item.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		sizeID, err := parseUUIDPtr(item.ProductSizeID)
		if err != nil {
			h.BadRequest(c, "Invalid product size ID format")
			return
		}
		appReq.Items = append(appReq.Items, appprod.CreateOrderItemRequest{
			ProductID:       productID,
			ProductCode:     item.ProductCode,
			ProductSizeID:   sizeID,
			SizeLabel:       item.SizeLabel,
			CutReference:    item.CutReference,
			Volumes:         item.Volumes,
			PiecesPerVolume: item.PiecesPerVolume,
		})
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Return reconciles delivered and defective pieces against the order
func (h *OrderHandler) Return(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req ReturnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	appReq := appprod.ReturnOrderRequest{
		Mode:           production.ReturnMode(req.Mode),
		TotalDefective: req.TotalDefective,
	}
	for _, d := range req.Deliveries {
		lineItemID, err := parseUUIDPtr(d.LineItemID)
		if err != nil {
			h.BadRequest(c, "Invalid line item ID format")
			return
		}
		productID, err := parseUUIDPtr(d.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		sizeID, err := parseUUIDPtr(d.ProductSizeID)
		if err != nil {
			h.BadRequest(c, "Invalid product size ID format")
			return
		}
		appReq.Deliveries = append(appReq.Deliveries, appprod.ReturnDeliveryRequest{
			LineItemID:    lineItemID,
			ProductID:     productID,
			ProductSizeID: sizeID,
			Quantity:      d.Quantity,
		})
	}

	order, err := h.orderService.ReturnOrder(c.Request.Context(), orderID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Reopen reverses the last settled state back into production
func (h *OrderHandler) Reopen(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.ReopenOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes the order and reverses its ledger footprint
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID retrieves an order with its line items
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves orders with optional workshop and status filters
func (h *OrderHandler) List(c *gin.Context) {
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

	page, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
