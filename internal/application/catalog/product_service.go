package catalog

import (
	"context"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create registers a new garment model with its size grid
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	product, err := catalog.NewProduct(req.Code, req.Description)
	if err != nil {
		return nil, err
	}

	if req.Fabric != "" || req.Notes != "" {
		if err := product.Update(req.Description, req.Fabric, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.applyRates(product, req.LaborRate, req.LaborRateUnit, req.SalePriceDoz, req.SalePriceUnit); err != nil {
		return nil, err
	}

	for _, label := range req.Sizes {
		if _, err := product.AddSize(label, 0); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update modifies an existing product's description, fabric, notes and rates
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Description, req.Fabric, req.Notes); err != nil {
		return nil, err
	}
	if err := s.applyRates(product, req.LaborRate, req.LaborRateUnit, req.SalePriceDoz, req.SalePriceUnit); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// AddSize adds a size variant to the product's grid
func (s *ProductService) AddSize(ctx context.Context, id uuid.UUID, label string, minStock int) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := product.AddSize(label, minStock); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Activate makes the product available for new orders
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Activate)
}

// Deactivate retires the product from new orders
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Deactivate)
}

// GetByID retrieves a product by its ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByCode retrieves a product by its catalog code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List retrieves products matching the filter
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *toProductResponse(&products[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Delete removes a product and its size grid
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) changeStatus(ctx context.Context, id uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *ProductService) applyRates(product *catalog.Product, laborDoz, laborUnit, saleDoz, saleUnit *decimal.Decimal) error {
	if laborDoz != nil || laborUnit != nil {
		perDozen := product.LaborRate
		perPiece := product.LaborRateUnit
		if laborDoz != nil {
			perDozen = *laborDoz
		}
		if laborUnit != nil {
			perPiece = *laborUnit
		}
		if err := product.SetLaborRates(valueobject.NewMoneyBRL(perDozen), valueobject.NewMoneyBRL(perPiece)); err != nil {
			return err
		}
	}
	if saleDoz != nil || saleUnit != nil {
		perDozen := product.SalePriceDoz
		perPiece := product.SalePriceUnit
		if saleDoz != nil {
			perDozen = *saleDoz
		}
		if saleUnit != nil {
			perPiece = *saleUnit
		}
		if err := product.SetSalePrices(valueobject.NewMoneyBRL(perDozen), valueobject.NewMoneyBRL(perPiece)); err != nil {
			return err
		}
	}
	return nil
}
