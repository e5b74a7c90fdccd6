package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&production.Order{},
		&production.LineItem{},
		&production.StockEntry{},
		&production.StockMovement{},
		&production.SettlementRecord{},
	)
	require.NoError(t, err)

	return db
}

func TestGormStockEntryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("GetOrCreate creates a zeroed entry once", func(t *testing.T) {
		repo := NewGormStockEntryRepository(setupProductionTestDB(t))
		productID, sizeID := uuid.New(), uuid.New()

		entry, err := repo.GetOrCreate(ctx, productID, sizeID)
		require.NoError(t, err)
		assert.Equal(t, 0, entry.OpenQuantity)
		assert.Equal(t, 0, entry.FinishedQuantity)

		again, err := repo.GetOrCreate(ctx, productID, sizeID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, again.ID)

		count, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Save persists bucket changes", func(t *testing.T) {
		repo := NewGormStockEntryRepository(setupProductionTestDB(t))
		entry, err := repo.GetOrCreate(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)

		require.NoError(t, entry.Reserve(120))
		require.NoError(t, entry.CommitDelivery(54, 60))
		require.NoError(t, repo.Save(ctx, entry))

		loaded, err := repo.FindByProductSize(ctx, entry.ProductSizeID)
		require.NoError(t, err)
		assert.Equal(t, 60, loaded.OpenQuantity)
		assert.Equal(t, 54, loaded.FinishedQuantity)
	})

	t.Run("Totals sums all entries", func(t *testing.T) {
		repo := NewGormStockEntryRepository(setupProductionTestDB(t))

		first, err := repo.GetOrCreate(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, first.Reserve(100))
		require.NoError(t, repo.Save(ctx, first))

		second, err := repo.GetOrCreate(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, second.Reserve(50))
		require.NoError(t, second.CommitDelivery(20, 20))
		require.NoError(t, repo.Save(ctx, second))

		totals, err := repo.Totals(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(130), totals.OpenQuantity)
		assert.Equal(t, int64(20), totals.FinishedQuantity)
	})

	t.Run("FindAll sorts by whitelisted column", func(t *testing.T) {
		repo := NewGormStockEntryRepository(setupProductionTestDB(t))

		low, err := repo.GetOrCreate(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, low.Reserve(10))
		require.NoError(t, repo.Save(ctx, low))

		high, err := repo.GetOrCreate(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, high.Reserve(900))
		require.NoError(t, repo.Save(ctx, high))

		filter := shared.DefaultFilter()
		filter.OrderBy = "open_quantity"
		filter.OrderDir = "desc"

		entries, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, high.ProductSizeID, entries[0].ProductSizeID)
	})

	t.Run("FindAll ignores sort expressions outside the whitelist", func(t *testing.T) {
		repo := NewGormStockEntryRepository(setupProductionTestDB(t))

		first, err := repo.GetOrCreate(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, first.Reserve(10))
		require.NoError(t, repo.Save(ctx, first))

		time.Sleep(5 * time.Millisecond)

		second, err := repo.GetOrCreate(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, second.Reserve(900))
		require.NoError(t, repo.Save(ctx, second))

		// Sorting by this expression verbatim would put the larger
		// entry first; the fallback to created_at ASC must win.
		filter := shared.DefaultFilter()
		filter.OrderBy = "(SELECT -open_quantity)"
		filter.OrderDir = ""

		entries, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, first.ProductSizeID, entries[0].ProductSizeID)
		assert.Equal(t, second.ProductSizeID, entries[1].ProductSizeID)
	})

	t.Run("FindByProductSize reports missing entries", func(t *testing.T) {
		repo := NewGormStockEntryRepository(setupProductionTestDB(t))

		_, err := repo.FindByProductSize(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Save and FindByID round-trip with items", func(t *testing.T) {
		repo := NewGormOrderRepository(setupProductionTestDB(t))

		order, err := production.NewOrder(uuid.New(), time.Now())
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), uuid.New(), "M", "C-101", 10, 12)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, order))

		loaded, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, production.OrderStatusCreated, loaded.Status)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, 120, loaded.Items[0].ExpectedPieces)
	})

	t.Run("Delete removes order and items", func(t *testing.T) {
		db := setupProductionTestDB(t)
		repo := NewGormOrderRepository(db)

		order, err := production.NewOrder(uuid.New(), time.Now())
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), uuid.New(), "M", "", 1, 12)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, order))

		require.NoError(t, repo.Delete(ctx, order.ID))

		_, err = repo.FindByID(ctx, order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var itemCount int64
		require.NoError(t, db.Model(&production.LineItem{}).Count(&itemCount).Error)
		assert.Equal(t, int64(0), itemCount)
	})

	t.Run("Delete of missing order reports not found", func(t *testing.T) {
		repo := NewGormOrderRepository(setupProductionTestDB(t))
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

func TestGormSettlementRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("FindByPeriod filters on entry date", func(t *testing.T) {
		repo := NewGormSettlementRepository(setupProductionTestDB(t))
		orderID := uuid.New()

		record, err := production.NewSettlementRecord(orderID, uuid.New(), uuid.New(), 120, 0, decimal.NewFromInt(1203))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, record))

		found, err := repo.FindByPeriod(ctx,
			time.Now().Add(-time.Hour), time.Now().Add(time.Hour), shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, found, 1)

		none, err := repo.FindByPeriod(ctx,
			time.Now().Add(time.Hour), time.Now().Add(2*time.Hour), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("DeleteByOrder removes all records of the order", func(t *testing.T) {
		repo := NewGormSettlementRepository(setupProductionTestDB(t))
		orderID := uuid.New()

		for i := 0; i < 2; i++ {
			record, err := production.NewSettlementRecord(orderID, uuid.New(), uuid.New(), 10, 0, decimal.NewFromInt(100))
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, record))
		}
		other, err := production.NewSettlementRecord(uuid.New(), uuid.New(), uuid.New(), 5, 0, decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, other))

		require.NoError(t, repo.DeleteByOrder(ctx, orderID))

		records, err := repo.FindByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Empty(t, records)

		remaining, err := repo.FindByOrder(ctx, other.OrderID)
		require.NoError(t, err)
		assert.Len(t, remaining, 1)
	})
}
