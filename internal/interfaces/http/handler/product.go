package handler

import (
	"context"

	appcatalog "github.com/atelier/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductHandler handles catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *appcatalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *appcatalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest is the request body for registering a garment model
type CreateProductRequest struct {
	Code          string   `json:"code" binding:"required,min=1,max=50"`
	Description   string   `json:"description" binding:"required,min=1,max=200"`
	Fabric        string   `json:"fabric" binding:"max=100"`
	Notes         string   `json:"notes"`
	LaborRate     *float64 `json:"labor_rate" binding:"omitempty,gte=0"`
	LaborRateUnit *float64 `json:"labor_rate_unit" binding:"omitempty,gte=0"`
	SalePriceDoz  *float64 `json:"sale_price_doz" binding:"omitempty,gte=0"`
	SalePriceUnit *float64 `json:"sale_price_unit" binding:"omitempty,gte=0"`
	Sizes         []string `json:"sizes"`
}

// UpdateProductRequest is the request body for updating a garment model
type UpdateProductRequest struct {
	Description   string   `json:"description" binding:"required,min=1,max=200"`
	Fabric        string   `json:"fabric" binding:"max=100"`
	Notes         string   `json:"notes"`
	LaborRate     *float64 `json:"labor_rate" binding:"omitempty,gte=0"`
	LaborRateUnit *float64 `json:"labor_rate_unit" binding:"omitempty,gte=0"`
	SalePriceDoz  *float64 `json:"sale_price_doz" binding:"omitempty,gte=0"`
	SalePriceUnit *float64 `json:"sale_price_unit" binding:"omitempty,gte=0"`
}

// AddSizeRequest is the request body for adding a size variant
type AddSizeRequest struct {
	Label    string `json:"label" binding:"required,min=1,max=20"`
	MinStock int    `json:"min_stock" binding:"omitempty,gte=0"`
}

// toDecimalPtr converts an optional float64 to an optional decimal
func toDecimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// Create registers a new garment model
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), appcatalog.CreateProductRequest{
		Code:          req.Code,
		Description:   req.Description,
		Fabric:        req.Fabric,
		Notes:         req.Notes,
		LaborRate:     toDecimalPtr(req.LaborRate),
		LaborRateUnit: toDecimalPtr(req.LaborRateUnit),
		SalePriceDoz:  toDecimalPtr(req.SalePriceDoz),
		SalePriceUnit: toDecimalPtr(req.SalePriceUnit),
		Sizes:         req.Sizes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update modifies an existing garment model
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, appcatalog.UpdateProductRequest{
		Description:   req.Description,
		Fabric:        req.Fabric,
		Notes:         req.Notes,
		LaborRate:     toDecimalPtr(req.LaborRate),
		LaborRateUnit: toDecimalPtr(req.LaborRateUnit),
		SalePriceDoz:  toDecimalPtr(req.SalePriceDoz),
		SalePriceUnit: toDecimalPtr(req.SalePriceUnit),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// AddSize adds a size variant to the product's grid
func (h *ProductHandler) AddSize(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req AddSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.AddSize(c.Request.Context(), id, req.Label, req.MinStock)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByID retrieves a product by its ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByCode retrieves a product by its catalog code
func (h *ProductHandler) GetByCode(c *gin.Context) {
	product, err := h.productService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List retrieves products matching the filter
func (h *ProductHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Activate makes the product available for new orders
func (h *ProductHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.productService.Activate)
}

// Deactivate retires the product from new orders
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.productService.Deactivate)
}

// Delete removes a product and its size grid
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ProductHandler) changeStatus(c *gin.Context, change func(ctx context.Context, id uuid.UUID) (*appcatalog.ProductResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := change(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
