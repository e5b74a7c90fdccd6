package production

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(t *testing.T) *StockEntry {
	t.Helper()
	entry, err := NewStockEntry(uuid.New(), uuid.New())
	require.NoError(t, err)
	return entry
}

func TestStockEntryReserve(t *testing.T) {
	t.Run("adds to the open bucket", func(t *testing.T) {
		entry := newEntry(t)

		require.NoError(t, entry.Reserve(120))
		assert.Equal(t, 120, entry.OpenQuantity)
		assert.Equal(t, 0, entry.FinishedQuantity)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		entry := newEntry(t)
		assert.Error(t, entry.Reserve(0))
		assert.Error(t, entry.Reserve(-5))
	})
}

func TestStockEntryCommitDelivery(t *testing.T) {
	t.Run("moves pieces between buckets", func(t *testing.T) {
		entry := newEntry(t)
		require.NoError(t, entry.Reserve(120))

		require.NoError(t, entry.CommitDelivery(54, 60))
		assert.Equal(t, 60, entry.OpenQuantity)
		assert.Equal(t, 54, entry.FinishedQuantity)
	})

	t.Run("clamps open at zero on underflow", func(t *testing.T) {
		entry := newEntry(t)
		require.NoError(t, entry.Reserve(10))

		require.NoError(t, entry.CommitDelivery(30, 30))
		assert.Equal(t, 0, entry.OpenQuantity)
		assert.Equal(t, 30, entry.FinishedQuantity)
	})
}

func TestStockEntryReverseDelivery(t *testing.T) {
	t.Run("moves finished back to open", func(t *testing.T) {
		entry := newEntry(t)
		require.NoError(t, entry.Reserve(120))
		require.NoError(t, entry.CommitDelivery(120, 120))

		require.NoError(t, entry.ReverseDelivery(120, 120))
		assert.Equal(t, 120, entry.OpenQuantity)
		assert.Equal(t, 0, entry.FinishedQuantity)
	})

	t.Run("clamps finished at zero", func(t *testing.T) {
		entry := newEntry(t)
		require.NoError(t, entry.CommitDelivery(5, 0))

		require.NoError(t, entry.ReverseDelivery(10, 10))
		assert.Equal(t, 0, entry.FinishedQuantity)
		assert.Equal(t, 10, entry.OpenQuantity)
	})
}

func TestStockEntryRelease(t *testing.T) {
	t.Run("reduces open with clamp", func(t *testing.T) {
		entry := newEntry(t)
		require.NoError(t, entry.Reserve(40))

		require.NoError(t, entry.Release(60))
		assert.Equal(t, 0, entry.OpenQuantity)
	})
}

func TestStockEntryReverseFinished(t *testing.T) {
	t.Run("reduces finished with clamp", func(t *testing.T) {
		entry := newEntry(t)
		require.NoError(t, entry.CommitDelivery(20, 0))

		require.NoError(t, entry.ReverseFinished(25))
		assert.Equal(t, 0, entry.FinishedQuantity)
	})
}
