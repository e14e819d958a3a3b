package fraud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankbuddy/internal/bank/models"
	"bankbuddy/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *InMemoryStore {
		t.Helper()
		store := NewInMemoryStore()
		require.NoError(t, store.Save(ctx, &models.AddressBinding{
			Address:      "bob@oksbi",
			OwnerAccount: "acc_bob",
		}))
		return store
	}

	t.Run("resolve returns binding", func(t *testing.T) {
		store := newStore(t)
		binding, err := store.Resolve(ctx, "bob@oksbi")
		require.NoError(t, err)
		assert.Equal(t, models.AddressBinding{Address: "bob@oksbi", OwnerAccount: "acc_bob"}, *binding)
	})

	t.Run("resolve unknown address", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Resolve(ctx, "nobody@oksbi")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("set fraud is monotonic and idempotent", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.SetFraud(ctx, "bob@oksbi"))
		require.NoError(t, store.SetFraud(ctx, "bob@oksbi"))

		binding, err := store.Resolve(ctx, "bob@oksbi")
		require.NoError(t, err)
		assert.True(t, binding.IsFraud)
	})

	t.Run("set fraud on unknown address", func(t *testing.T) {
		store := newStore(t)
		err := store.SetFraud(ctx, "nobody@oksbi")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
