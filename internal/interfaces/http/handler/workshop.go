package handler

import (
	"context"

	apppartner "github.com/atelier/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkshopHandler handles workshop API endpoints
type WorkshopHandler struct {
	BaseHandler
	workshopService *apppartner.WorkshopService
}

// NewWorkshopHandler creates a new WorkshopHandler
func NewWorkshopHandler(workshopService *apppartner.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{workshopService: workshopService}
}

// WorkshopRequest is the request body for creating or updating a workshop
type WorkshopRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=120"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address" binding:"max=200"`
	City        string `json:"city" binding:"max=100"`
	Notes       string `json:"notes"`
}

// Create registers a new workshop
func (h *WorkshopHandler) Create(c *gin.Context) {
	var req WorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	workshop, err := h.workshopService.Create(c.Request.Context(), apppartner.CreateWorkshopRequest{
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		City:        req.City,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, workshop)
}

// Update modifies an existing workshop
func (h *WorkshopHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid workshop ID format")
		return
	}

	var req WorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	workshop, err := h.workshopService.Update(c.Request.Context(), id, apppartner.UpdateWorkshopRequest{
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		City:        req.City,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, workshop)
}

// GetByID retrieves a workshop by its ID
func (h *WorkshopHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid workshop ID format")
		return
	}

	workshop, err := h.workshopService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, workshop)
}

// List retrieves workshops matching the filter
func (h *WorkshopHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.workshopService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Activate makes the workshop eligible for new orders
func (h *WorkshopHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.workshopService.Activate)
}

// Deactivate marks the workshop as inactive
func (h *WorkshopHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.workshopService.Deactivate)
}

// Block bars the workshop from receiving new orders
func (h *WorkshopHandler) Block(c *gin.Context) {
	h.changeStatus(c, h.workshopService.Block)
}

// Delete removes a workshop
func (h *WorkshopHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid workshop ID format")
		return
	}

	if err := h.workshopService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *WorkshopHandler) changeStatus(c *gin.Context, change func(ctx context.Context, id uuid.UUID) (*apppartner.WorkshopResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid workshop ID format")
		return
	}

	workshop, err := change(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, workshop)
}
