package catalog

import (
	"strings"
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a garment model in the catalog.
// It is the aggregate root for product-related operations and owns its size grid.
type Product struct {
	shared.BaseAggregateRoot
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description   string          `gorm:"type:varchar(200);not null"`
	Fabric        string          `gorm:"type:varchar(100)"`
	LaborRate     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Labor cost per dozen
	LaborRateUnit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Labor cost per loose piece
	SalePriceDoz  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Sale price per dozen
	SalePriceUnit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Sale price per loose piece
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	Notes         string          `gorm:"type:text"`
	Sizes         []ProductSize   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductSize is a size variant of a product (e.g. P, M, G, GG).
// Stock and order lines always reference a specific size.
type ProductSize struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_size,priority:1"`
	Label     string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_size,priority:2"`
	SortOrder int       `gorm:"not null;default:0"`
	MinStock  int       `gorm:"not null;default:0"` // Alert threshold, not enforced by the ledger
}

// TableName returns the table name for GORM
func (ProductSize) TableName() string {
	return "product_sizes"
}

// NewProduct creates a new product
func NewProduct(code, description string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductDescription(description); err != nil {
		return nil, err
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Description:       description,
		LaborRate:         decimal.Zero,
		LaborRateUnit:     decimal.Zero,
		SalePriceDoz:      decimal.Zero,
		SalePriceUnit:     decimal.Zero,
		Status:            ProductStatusActive,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(description, fabric, notes string) error {
	if err := validateProductDescription(description); err != nil {
		return err
	}

	p.Description = description
	p.Fabric = fabric
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetLaborRates sets the labor rates paid to workshops (per dozen and per loose piece)
func (p *Product) SetLaborRates(perDozen, perPiece valueobject.Money) error {
	if perDozen.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Labor rate per dozen cannot be negative")
	}
	if perPiece.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Labor rate per piece cannot be negative")
	}

	p.LaborRate = perDozen.Amount()
	p.LaborRateUnit = perPiece.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetSalePrices sets the sale prices (per dozen and per loose piece)
func (p *Product) SetSalePrices(perDozen, perPiece valueobject.Money) error {
	if perDozen.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price per dozen cannot be negative")
	}
	if perPiece.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price per piece cannot be negative")
	}

	p.SalePriceDoz = perDozen.Amount()
	p.SalePriceUnit = perPiece.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AddSize adds a size variant to the product's size grid.
// Size labels are unique per product.
func (p *Product) AddSize(label string, minStock int) (*ProductSize, error) {
	if err := validateSizeLabel(label); err != nil {
		return nil, err
	}
	if minStock < 0 {
		return nil, shared.NewDomainError("INVALID_SIZE", "Minimum stock cannot be negative")
	}

	normalized := strings.ToUpper(strings.TrimSpace(label))
	for _, s := range p.Sizes {
		if s.Label == normalized {
			return nil, shared.NewDomainError("DUPLICATE_SIZE", "Product already has size "+normalized)
		}
	}

	size := ProductSize{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		Label:      normalized,
		SortOrder:  len(p.Sizes),
		MinStock:   minStock,
	}
	p.Sizes = append(p.Sizes, size)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return &p.Sizes[len(p.Sizes)-1], nil
}

// FindSize returns the size variant with the given label, or nil
func (p *Product) FindSize(label string) *ProductSize {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	for i := range p.Sizes {
		if p.Sizes[i].Label == normalized {
			return &p.Sizes[i]
		}
	}
	return nil
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// GetLaborRateMoney returns the per-dozen labor rate as Money
func (p *Product) GetLaborRateMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.LaborRate)
}

// GetLaborRateUnitMoney returns the per-piece labor rate as Money
func (p *Product) GetLaborRateUnitMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.LaborRateUnit)
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductDescription(description string) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot be empty")
	}
	if len(description) > 200 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot exceed 200 characters")
	}
	return nil
}

func validateSizeLabel(label string) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_SIZE", "Size label cannot be empty")
	}
	if len(trimmed) > 20 {
		return shared.NewDomainError("INVALID_SIZE", "Size label cannot exceed 20 characters")
	}
	return nil
}
