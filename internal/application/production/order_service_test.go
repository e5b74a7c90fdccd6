package production

import (
	"context"
	"testing"
	"time"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/partner"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCatalog creates a product with one M size, labor rates 120/dozen and
// 11/piece, plus an active workshop.
func seedCatalog(t *testing.T, env *testEnv) (*catalog.Product, *catalog.ProductSize, *partner.Workshop) {
	t.Helper()
	ctx := context.Background()

	product, err := catalog.NewProduct("CAM-01", "Camiseta básica")
	require.NoError(t, err)
	require.NoError(t, product.SetLaborRates(
		valueobject.NewMoneyBRLFromFloat(120), valueobject.NewMoneyBRLFromFloat(11)))
	size, err := product.AddSize("M", 0)
	require.NoError(t, err)
	require.NoError(t, env.products.Save(ctx, product))

	workshop, err := partner.NewWorkshop("Confecção Santa Rita")
	require.NoError(t, err)
	require.NoError(t, env.workshops.Save(ctx, workshop))

	return product, size, workshop
}

func createOrder(t *testing.T, svc *OrderService, product *catalog.Product, size *catalog.ProductSize, workshop *partner.Workshop, volumes, piecesPerVolume int) *CreateOrderResult {
	t.Helper()
	result, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		WorkshopID: workshop.ID,
		StartDate:  time.Now(),
		Items: []CreateOrderItemRequest{{
			ProductID:       &product.ID,
			ProductSizeID:   &size.ID,
			CutReference:    "C-101",
			Volumes:         volumes,
			PiecesPerVolume: piecesPerVolume,
		}},
	})
	require.NoError(t, err)
	return result
}

func TestOrderServiceCreate(t *testing.T) {
	t.Run("reserves expected pieces in the open bucket", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)

		result := createOrder(t, svc, product, size, workshop, 10, 12)

		assert.Equal(t, "CREATED", result.Order.Status)
		assert.Equal(t, 120, result.Order.ExpectedPieces)
		require.Len(t, result.ItemResults, 1)
		assert.Equal(t, ItemResultAccepted, result.ItemResults[0].Status)

		entry := env.stock.entries[size.ID]
		require.NotNil(t, entry)
		assert.Equal(t, 120, entry.OpenQuantity)
		assert.Equal(t, 0, entry.FinishedQuantity)

		movements, err := env.movements.FindByOrder(context.Background(), result.Order.ID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, production.MovementTypeReserve, movements[0].Type)
		assert.Equal(t, 120, movements[0].OpenDelta)
	})

	t.Run("resolves product by code and size by label", func(t *testing.T) {
		env := newTestEnv()
		_, _, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)

		result, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
			WorkshopID: workshop.ID,
			Items: []CreateOrderItemRequest{{
				ProductCode:     "CAM-01",
				SizeLabel:       "m",
				Volumes:         2,
				PiecesPerVolume: 6,
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, 12, result.Order.ExpectedPieces)
	})

	t.Run("skips unresolvable items but keeps valid ones", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)
		unknown := uuid.New()

		result, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
			WorkshopID: workshop.ID,
			Items: []CreateOrderItemRequest{
				{ProductID: &unknown, ProductSizeID: &size.ID, Volumes: 1, PiecesPerVolume: 12},
				{ProductID: &product.ID, ProductSizeID: &size.ID, Volumes: 0, PiecesPerVolume: 12},
				{ProductID: &product.ID, ProductSizeID: &size.ID, Volumes: 5, PiecesPerVolume: 12},
			},
		})
		require.NoError(t, err)

		require.Len(t, result.ItemResults, 3)
		assert.Equal(t, ItemResultSkipped, result.ItemResults[0].Status)
		assert.Equal(t, ItemResultSkipped, result.ItemResults[1].Status)
		assert.Equal(t, ItemResultAccepted, result.ItemResults[2].Status)
		assert.Equal(t, 60, result.Order.ExpectedPieces)
	})

	t.Run("rejects order when no item survives", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)

		_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
			WorkshopID: workshop.ID,
			Items: []CreateOrderItemRequest{
				{ProductID: &product.ID, ProductSizeID: &size.ID, Volumes: -1, PiecesPerVolume: 12},
			},
		})
		assert.Error(t, err)
		assert.Empty(t, env.orders.orders)
	})

	t.Run("rejects unknown workshop", func(t *testing.T) {
		env := newTestEnv()
		product, size, _ := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)

		_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
			WorkshopID: uuid.New(),
			Items: []CreateOrderItemRequest{
				{ProductID: &product.ID, ProductSizeID: &size.ID, Volumes: 1, PiecesPerVolume: 12},
			},
		})
		assert.Error(t, err)
	})
}

func TestOrderServiceReturn(t *testing.T) {
	t.Run("total return pays with tolerance margin", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)
		created := createOrder(t, svc, product, size, workshop, 10, 12)

		dto, err := svc.ReturnOrder(context.Background(), created.Order.ID, ReturnOrderRequest{
			Mode: production.ReturnModeTotal,
		})
		require.NoError(t, err)

		assert.Equal(t, "RETURNED", dto.Status)
		require.NotNil(t, dto.ReturnDate)
		assert.Equal(t, 0, dto.ExpectedPieces)
		assert.Equal(t, 120, dto.ActualPieces)

		entry := env.stock.entries[size.ID]
		assert.Equal(t, 0, entry.OpenQuantity)
		assert.Equal(t, 120, entry.FinishedQuantity)

		records, err := env.settlements.FindByOrder(context.Background(), created.Order.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 120, records[0].PiecesPaid)
		assert.Equal(t, "1203.00", records[0].Amount.Round(2).StringFixed(2))
	})

	t.Run("partial return with defects", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)
		created := createOrder(t, svc, product, size, workshop, 10, 12)
		itemID := created.Order.Items[0].ID

		dto, err := svc.ReturnOrder(context.Background(), created.Order.ID, ReturnOrderRequest{
			Mode:           production.ReturnModePartial,
			TotalDefective: 6,
			Deliveries:     []ReturnDeliveryRequest{{LineItemID: &itemID, Quantity: 60}},
		})
		require.NoError(t, err)

		assert.Equal(t, "IN_PRODUCTION", dto.Status)
		assert.Equal(t, 60, dto.ExpectedPieces)
		assert.Equal(t, 54, dto.ActualPieces)
		assert.Equal(t, 6, dto.Items[0].DefectivePieces)

		entry := env.stock.entries[size.ID]
		assert.Equal(t, 60, entry.OpenQuantity)
		assert.Equal(t, 54, entry.FinishedQuantity)
	})

	t.Run("close without quantity writes off the remainder", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)
		created := createOrder(t, svc, product, size, workshop, 10, 12)
		itemID := created.Order.Items[0].ID

		_, err := svc.ReturnOrder(context.Background(), created.Order.ID, ReturnOrderRequest{
			Mode:       production.ReturnModePartial,
			Deliveries: []ReturnDeliveryRequest{{LineItemID: &itemID, Quantity: 80}},
		})
		require.NoError(t, err)

		dto, err := svc.ReturnOrder(context.Background(), created.Order.ID, ReturnOrderRequest{
			Mode: production.ReturnModeCloseWithoutQuantity,
		})
		require.NoError(t, err)

		assert.Equal(t, "RETURNED", dto.Status)
		assert.Equal(t, 0, dto.ExpectedPieces)
		assert.Equal(t, -40, dto.DifferencePieces)

		entry := env.stock.entries[size.ID]
		assert.Equal(t, 0, entry.OpenQuantity)
		assert.Equal(t, 80, entry.FinishedQuantity)

		records, err := env.settlements.FindByOrder(context.Background(), created.Order.ID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, rec := range records {
			if rec.PiecesPaid == 0 {
				assert.True(t, rec.Amount.IsZero())
			}
		}
	})

	t.Run("rejects returns on RETURNED orders", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)
		created := createOrder(t, svc, product, size, workshop, 10, 12)

		_, err := svc.ReturnOrder(context.Background(), created.Order.ID, ReturnOrderRequest{Mode: production.ReturnModeTotal})
		require.NoError(t, err)

		_, err = svc.ReturnOrder(context.Background(), created.Order.ID, ReturnOrderRequest{Mode: production.ReturnModeTotal})
		assert.Error(t, err)
	})
}

func TestOrderServiceReopen(t *testing.T) {
	t.Run("round-trip restores the original state", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)
		created := createOrder(t, svc, product, size, workshop, 10, 12)

		_, err := svc.ReturnOrder(context.Background(), created.Order.ID, ReturnOrderRequest{Mode: production.ReturnModeTotal})
		require.NoError(t, err)

		dto, err := svc.ReopenOrder(context.Background(), created.Order.ID)
		require.NoError(t, err)

		assert.Equal(t, "CREATED", dto.Status)
		assert.Nil(t, dto.ReturnDate)
		assert.Equal(t, 120, dto.ExpectedPieces)
		assert.Equal(t, 0, dto.ActualPieces)

		entry := env.stock.entries[size.ID]
		assert.Equal(t, 120, entry.OpenQuantity)
		assert.Equal(t, 0, entry.FinishedQuantity)

		records, err := env.settlements.FindByOrder(context.Background(), created.Order.ID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("rejects reopening a CREATED order", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)
		created := createOrder(t, svc, product, size, workshop, 10, 12)

		_, err := svc.ReopenOrder(context.Background(), created.Order.ID)
		assert.Error(t, err)
	})
}

func TestOrderServiceDelete(t *testing.T) {
	t.Run("reverses the ledger footprint of a partially returned order", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		svc := NewOrderService(env.scope, nil, nil)
		created := createOrder(t, svc, product, size, workshop, 10, 12)
		itemID := created.Order.Items[0].ID

		_, err := svc.ReturnOrder(context.Background(), created.Order.ID, ReturnOrderRequest{
			Mode:           production.ReturnModePartial,
			TotalDefective: 6,
			Deliveries:     []ReturnDeliveryRequest{{LineItemID: &itemID, Quantity: 60}},
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteOrder(context.Background(), created.Order.ID))

		entry := env.stock.entries[size.ID]
		assert.Equal(t, 0, entry.OpenQuantity)
		assert.Equal(t, 0, entry.FinishedQuantity)
		assert.Empty(t, env.orders.orders)

		records, err := env.settlements.FindByOrder(context.Background(), created.Order.ID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("unknown order yields not found", func(t *testing.T) {
		env := newTestEnv()
		svc := NewOrderService(env.scope, nil, nil)

		assert.Error(t, svc.DeleteOrder(context.Background(), uuid.New()))
	})
}

func TestStockServiceSummary(t *testing.T) {
	t.Run("sums buckets across entries", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		orderSvc := NewOrderService(env.scope, nil, nil)
		createOrder(t, orderSvc, product, size, workshop, 10, 12)

		stockSvc := NewStockService(env.scope, nil, nil)
		summary, err := stockSvc.Summary(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(120), summary.OpenQuantity)
		assert.Equal(t, int64(0), summary.FinishedQuantity)
		assert.Equal(t, int64(120), summary.TotalQuantity)
	})
}

func TestSettlementServicePay(t *testing.T) {
	t.Run("marks a record paid once", func(t *testing.T) {
		env := newTestEnv()
		product, size, workshop := seedCatalog(t, env)
		orderSvc := NewOrderService(env.scope, nil, nil)
		created := createOrder(t, orderSvc, product, size, workshop, 10, 12)

		_, err := orderSvc.ReturnOrder(context.Background(), created.Order.ID, ReturnOrderRequest{Mode: production.ReturnModeTotal})
		require.NoError(t, err)

		records, err := env.settlements.FindByOrder(context.Background(), created.Order.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)

		settlementSvc := NewSettlementService(env.scope, nil)
		dto, err := settlementSvc.Pay(context.Background(), records[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "PAID", dto.Status)
		require.NotNil(t, dto.PaidAt)

		_, err = settlementSvc.Pay(context.Background(), records[0].ID)
		assert.Error(t, err)
	})
}
