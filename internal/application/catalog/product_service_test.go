package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Code == strings.ToUpper(strings.TrimSpace(code)) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindSizeByID(_ context.Context, id uuid.UUID) (*catalog.ProductSize, error) {
	for _, p := range r.products {
		for i := range p.Sizes {
			if p.Sizes[i].ID == id {
				return &p.Sizes[i], nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, err := r.FindByCode(context.Background(), code)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with rates and sizes", func(t *testing.T) {
		service := NewProductService(newFakeProductRepo())
		rate := decimal.NewFromInt(120)
		unit := decimal.NewFromInt(11)

		resp, err := service.Create(ctx, CreateProductRequest{
			Code:          "cam-01",
			Description:   "Camiseta básica",
			Fabric:        "Algodão",
			LaborRate:     &rate,
			LaborRateUnit: &unit,
			Sizes:         []string{"P", "M", "G"},
		})
		require.NoError(t, err)

		assert.Equal(t, "CAM-01", resp.Code)
		assert.Equal(t, "120.00", resp.LaborRate)
		assert.Equal(t, "11.00", resp.LaborRateUnit)
		assert.Equal(t, "active", resp.Status)
		require.Len(t, resp.Sizes, 3)
		assert.Equal(t, "P", resp.Sizes[0].Label)
		assert.Equal(t, 2, resp.Sizes[2].SortOrder)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		service := NewProductService(newFakeProductRepo())
		_, err := service.Create(ctx, CreateProductRequest{Code: "CAM-01", Description: "Camiseta"})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateProductRequest{Code: "CAM-01", Description: "Outra"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestProductService_AddSize(t *testing.T) {
	ctx := context.Background()
	service := NewProductService(newFakeProductRepo())

	created, err := service.Create(ctx, CreateProductRequest{
		Code: "CAM-02", Description: "Camiseta polo", Sizes: []string{"M"},
	})
	require.NoError(t, err)

	resp, err := service.AddSize(ctx, created.ID, "G", 12)
	require.NoError(t, err)
	require.Len(t, resp.Sizes, 2)
	assert.Equal(t, 12, resp.Sizes[1].MinStock)

	_, err = service.AddSize(ctx, created.ID, "g", 0)
	assert.Error(t, err, "duplicate label should be rejected")
}

func TestProductService_StatusChanges(t *testing.T) {
	ctx := context.Background()
	service := NewProductService(newFakeProductRepo())

	created, err := service.Create(ctx, CreateProductRequest{Code: "CAM-03", Description: "Regata"})
	require.NoError(t, err)

	resp, err := service.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	resp, err = service.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)

	_, err = service.Activate(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
