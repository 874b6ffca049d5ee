package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	appcatalog "github.com/lcree/backend/internal/application/catalog"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/catalog"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/lcree/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newCatalogService(t *testing.T) *appcatalog.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Fragrance{}, &catalog.Container{},
		&catalog.Recipe{}, &catalog.RecipeComponent{},
		&audit.Record{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return appcatalog.NewService(persistence.NewGormCatalogTransactionScope(db))
}

func createContainer(t *testing.T, service *appcatalog.Service, actorID uuid.UUID) *appcatalog.ContainerResponse {
	t.Helper()
	container, err := service.CreateContainer(context.Background(), appcatalog.CreateContainerRequest{
		Name:                 "Parfum 50ml",
		Type:                 "BOTTLE",
		FillVolumeML:         decimal.NewFromInt(50),
		Barcode:              "CT-PARFUM-50",
		PriceRetail:          decimal.NewFromInt(60),
		LossFactorOilPercent: decimal.NewFromInt(2),
	}, actorID)
	require.NoError(t, err)
	return container
}

func TestServiceFragrances(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("create and fetch", func(t *testing.T) {
		service := newCatalogService(t)
		created, err := service.CreateFragrance(ctx, appcatalog.CreateFragranceRequest{
			InternalCode: "M-001",
			Gender:       "M",
			Brand:        "Creed",
			Name:         "Aventus",
			TopNotes:     []string{"pineapple", "bergamot"},
		}, actorID)
		require.NoError(t, err)
		assert.Equal(t, "Creed - Aventus", created.OfficialName)

		fetched, err := service.GetFragrance(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "M-001", fetched.InternalCode)
		assert.Equal(t, []string{"pineapple", "bergamot"}, fetched.TopNotes)
	})

	t.Run("deleted fragrances disappear from reads", func(t *testing.T) {
		service := newCatalogService(t)
		created, err := service.CreateFragrance(ctx, appcatalog.CreateFragranceRequest{
			InternalCode: "U-003", Gender: "U", Brand: "Le Labo", Name: "Santal 33",
		}, actorID)
		require.NoError(t, err)

		require.NoError(t, service.DeleteFragrance(ctx, created.ID, actorID))
		_, err = service.GetFragrance(ctx, created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate internal code is rejected", func(t *testing.T) {
		service := newCatalogService(t)
		req := appcatalog.CreateFragranceRequest{
			InternalCode: "W-002", Gender: "W", Brand: "Chanel", Name: "No 5",
		}
		_, err := service.CreateFragrance(ctx, req, actorID)
		require.NoError(t, err)

		req.Name = "No 5 Clone"
		_, err = service.CreateFragrance(ctx, req, actorID)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestServiceContainers(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("update keeps fill volume and type fixed", func(t *testing.T) {
		service := newCatalogService(t)
		container := createContainer(t, service, actorID)

		updated, err := service.UpdateContainer(ctx, container.ID, appcatalog.UpdateContainerRequest{
			Name:                 "Parfum 50ml Deluxe",
			PriceRetail:          decimal.NewFromInt(75),
			LossFactorOilPercent: decimal.NewFromInt(3),
			Active:               true,
		}, actorID)
		require.NoError(t, err)
		assert.Equal(t, "Parfum 50ml Deluxe", updated.Name)
		assert.True(t, updated.PriceRetail.Equal(decimal.NewFromInt(75)))
		assert.True(t, updated.FillVolumeML.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, container.Type, updated.Type)
	})

	t.Run("duplicate barcode is rejected", func(t *testing.T) {
		service := newCatalogService(t)
		createContainer(t, service, actorID)

		_, err := service.CreateContainer(ctx, appcatalog.CreateContainerRequest{
			Name:         "Other 50ml",
			Type:         "BOTTLE",
			FillVolumeML: decimal.NewFromInt(50),
			Barcode:      "CT-PARFUM-50",
		}, actorID)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestServiceRecipes(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	recipeRequest := func(containerID uuid.UUID, oilML int64) appcatalog.CreateRecipeRequest {
		return appcatalog.CreateRecipeRequest{
			ContainerID: containerID,
			Components: []appcatalog.RecipeComponentRequest{
				{Kind: string(catalog.ComponentKindPlaceholderOil),
					QtyRequired: decimal.NewFromInt(oilML), Unit: "ML"},
				{Kind: string(catalog.ComponentKindAlcohol), MaterialID: ptrUUID(uuid.New()),
					QtyRequired: decimal.NewFromInt(35), Unit: "ML"},
			},
		}
	}

	t.Run("no active recipe before the first one is created", func(t *testing.T) {
		service := newCatalogService(t)
		container := createContainer(t, service, actorID)
		_, err := service.GetActiveRecipe(ctx, container.ID)
		assert.ErrorIs(t, err, shared.ErrRecipeNotFound)
	})

	t.Run("a new recipe replaces the active one", func(t *testing.T) {
		service := newCatalogService(t)
		container := createContainer(t, service, actorID)

		first, err := service.CreateRecipe(ctx, recipeRequest(container.ID, 10), actorID)
		require.NoError(t, err)
		assert.True(t, first.Active)

		second, err := service.CreateRecipe(ctx, recipeRequest(container.ID, 12), actorID)
		require.NoError(t, err)

		active, err := service.GetActiveRecipe(ctx, container.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)

		old, err := service.GetRecipe(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, old.Active)
	})

	t.Run("recipes need an existing container", func(t *testing.T) {
		service := newCatalogService(t)
		_, err := service.CreateRecipe(ctx, recipeRequest(uuid.New(), 10), actorID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}
