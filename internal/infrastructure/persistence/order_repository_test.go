package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/procurement"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOrder(t *testing.T, supplier string) *procurement.Order {
	t.Helper()
	materialID := uuid.New()
	fragranceID := uuid.New()
	order, err := procurement.NewOrder(supplier, "EUR",
		decimal.NewFromInt(20), decimal.NewFromInt(20),
		[]procurement.OrderItem{
			{TargetType: procurement.TargetMaterial, MaterialID: &materialID,
				Qty: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(10)},
			{TargetType: procurement.TargetOilBatch, FragranceID: &fragranceID,
				Qty: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(3)},
		})
	require.NoError(t, err)
	return order
}

func TestGormOrderRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)

	t.Run("save persists the order with its items", func(t *testing.T) {
		order := mustOrder(t, "Essence Trading GmbH")
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, procurement.OrderStatusDraft, found.Status)
		require.Len(t, found.Items, 2)
	})

	t.Run("item mutations survive a save", func(t *testing.T) {
		order := mustOrder(t, "Parfumoel Kontor")
		require.NoError(t, repo.Save(ctx, order))

		require.NoError(t, procurement.AllocateLandedCosts(order.Items, order.ShippingCost, order.CustomsCost))
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		allocated := decimal.Zero
		for i := range found.Items {
			allocated = allocated.Add(found.Items[i].AllocatedTotal())
		}
		assert.True(t, allocated.Equal(decimal.NewFromInt(40)), "allocated %s", allocated)
	})

	t.Run("missing order reports not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("search matches the supplier name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "essence"
		orders, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, orders, 1)
		assert.Equal(t, "Essence Trading GmbH", orders[0].SupplierName)
		assert.Len(t, orders[0].Items, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		order := mustOrder(t, "Flacon Nord")
		require.NoError(t, order.Place())
		require.NoError(t, repo.Save(ctx, order))

		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(procurement.OrderStatusPlaced)
		orders, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)
	})
}
