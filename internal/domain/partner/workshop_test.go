package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkshop(t *testing.T) {
	t.Run("creates workshop with trimmed name", func(t *testing.T) {
		workshop, err := NewWorkshop("  Confecção Santa Rita  ")
		require.NoError(t, err)

		assert.Equal(t, "Confecção Santa Rita", workshop.Name)
		assert.Equal(t, WorkshopStatusActive, workshop.Status)
		assert.True(t, workshop.CanReceiveOrders())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewWorkshop("   ")
		assert.Error(t, err)
	})
}

func TestWorkshopContact(t *testing.T) {
	t.Run("sets valid contact", func(t *testing.T) {
		workshop, err := NewWorkshop("Confecção Santa Rita")
		require.NoError(t, err)

		err = workshop.SetContact("Maria", "+55 (11) 98765-4321", "maria@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Maria", workshop.ContactName)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		workshop, err := NewWorkshop("Confecção Santa Rita")
		require.NoError(t, err)

		assert.Error(t, workshop.SetContact("Maria", "", "not-an-email"))
	})
}

func TestWorkshopStatus(t *testing.T) {
	t.Run("blocked workshop cannot receive orders", func(t *testing.T) {
		workshop, err := NewWorkshop("Confecção Santa Rita")
		require.NoError(t, err)

		require.NoError(t, workshop.Block())
		assert.False(t, workshop.CanReceiveOrders())

		require.NoError(t, workshop.Activate())
		assert.True(t, workshop.CanReceiveOrders())
	})
}
