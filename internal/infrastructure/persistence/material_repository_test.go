package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMaterial(t *testing.T, name string, category inventory.MaterialCategory) *inventory.Material {
	t.Helper()
	m, err := inventory.NewMaterial(name, category, inventory.MaterialUnitPCS)
	require.NoError(t, err)
	return m
}

func TestGormMaterialRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormMaterialRepository(db)

	t.Run("save and find roundtrip keeps the cost average", func(t *testing.T) {
		m := mustMaterial(t, "Bottle 50ml", inventory.MaterialCategoryBottle)
		require.NoError(t, m.Receive(decimal.NewFromInt(100), decimal.NewFromFloat(0.8)))
		require.NoError(t, repo.Save(ctx, m))

		found, err := repo.FindByID(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, found.StockQty.Equal(decimal.NewFromInt(100)))
		assert.True(t, found.CostPerUnit.Equal(decimal.NewFromFloat(0.8)))
	})

	t.Run("search matches names case insensitively", func(t *testing.T) {
		m := mustMaterial(t, "Alcohol 96%", inventory.MaterialCategoryAlcohol)
		require.NoError(t, repo.Save(ctx, m))

		filter := shared.DefaultFilter()
		filter.Search = "alcohol"
		materials, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, materials, 1)
		assert.Equal(t, "Alcohol 96%", materials[0].Name)
	})

	t.Run("below minimum only lists tracked shortfalls", func(t *testing.T) {
		low := mustMaterial(t, "Label sheet", inventory.MaterialCategoryLabel)
		low.MinQty = decimal.NewFromInt(50)
		low.StockQty = decimal.NewFromInt(10)

		healthy := mustMaterial(t, "Gift box", inventory.MaterialCategoryBox)
		healthy.MinQty = decimal.NewFromInt(5)
		healthy.StockQty = decimal.NewFromInt(20)

		untracked := mustMaterial(t, "Cleaning rag", inventory.MaterialCategoryOther)
		untracked.IsTracked = false
		untracked.MinQty = decimal.NewFromInt(50)
		untracked.StockQty = decimal.NewFromInt(1)

		require.NoError(t, repo.SaveAll(ctx, []*inventory.Material{low, healthy, untracked}))

		shortfalls, err := repo.FindBelowMinimum(ctx)
		require.NoError(t, err)
		require.Len(t, shortfalls, 1)
		assert.Equal(t, "Label sheet", shortfalls[0].Name)
	})
}

func TestGormToolCheckoutRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormToolCheckoutRepository(db)
	materialID := uuid.New()
	userID := uuid.New()

	t.Run("open checkout is found, returned one is not", func(t *testing.T) {
		checkout, err := inventory.NewToolCheckout(materialID, userID, "funnel for bench 2")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, checkout))

		open, err := repo.FindOpenByMaterial(ctx, materialID)
		require.NoError(t, err)
		assert.Equal(t, checkout.ID, open.ID)

		require.NoError(t, open.Return())
		require.NoError(t, repo.Save(ctx, open))

		_, err = repo.FindOpenByMaterial(ctx, materialID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("open filter excludes returned checkouts", func(t *testing.T) {
		second, err := inventory.NewToolCheckout(uuid.New(), userID, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, second))

		filter := shared.DefaultFilter()
		filter.Filters["open"] = true
		checkouts, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, checkouts, 1)
		assert.Equal(t, second.ID, checkouts[0].ID)
	})
}
