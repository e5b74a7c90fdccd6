package catalog

import (
	"time"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the input for registering a new garment model
type CreateProductRequest struct {
	Code          string
	Description   string
	Fabric        string
	Notes         string
	LaborRate     *decimal.Decimal
	LaborRateUnit *decimal.Decimal
	SalePriceDoz  *decimal.Decimal
	SalePriceUnit *decimal.Decimal
	Sizes         []string
}

// UpdateProductRequest is the input for updating a garment model
type UpdateProductRequest struct {
	Description   string
	Fabric        string
	Notes         string
	LaborRate     *decimal.Decimal
	LaborRateUnit *decimal.Decimal
	SalePriceDoz  *decimal.Decimal
	SalePriceUnit *decimal.Decimal
}

// ProductSizeResponse is the read model of a size variant
type ProductSizeResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	SortOrder int       `json:"sort_order"`
	MinStock  int       `json:"min_stock"`
}

// ProductResponse is the read model of a product
type ProductResponse struct {
	ID            uuid.UUID             `json:"id"`
	Code          string                `json:"code"`
	Description   string                `json:"description"`
	Fabric        string                `json:"fabric,omitempty"`
	LaborRate     string                `json:"labor_rate"`
	LaborRateUnit string                `json:"labor_rate_unit"`
	SalePriceDoz  string                `json:"sale_price_doz"`
	SalePriceUnit string                `json:"sale_price_unit"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	Sizes         []ProductSizeResponse `json:"sizes"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toProductResponse(product *catalog.Product) *ProductResponse {
	sizes := make([]ProductSizeResponse, 0, len(product.Sizes))
	for i := range product.Sizes {
		size := &product.Sizes[i]
		sizes = append(sizes, ProductSizeResponse{
			ID:        size.ID,
			Label:     size.Label,
			SortOrder: size.SortOrder,
			MinStock:  size.MinStock,
		})
	}
	return &ProductResponse{
		ID:            product.ID,
		Code:          product.Code,
		Description:   product.Description,
		Fabric:        product.Fabric,
		LaborRate:     product.LaborRate.StringFixed(2),
		LaborRateUnit: product.LaborRateUnit.StringFixed(2),
		SalePriceDoz:  product.SalePriceDoz.StringFixed(2),
		SalePriceUnit: product.SalePriceUnit.StringFixed(2),
		Status:        string(product.Status),
		Notes:         product.Notes,
		Sizes:         sizes,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}
