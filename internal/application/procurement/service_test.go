package procurement_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	approcurement "github.com/lcree/backend/internal/application/procurement"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/procurement"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/lcree/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type receiveFixture struct {
	db       *gorm.DB
	service  *approcurement.Service
	material *inventory.Material
}

func newReceiveFixture(t *testing.T) *receiveFixture {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&inventory.OilBatch{}, &inventory.Material{},
		&procurement.Order{}, &procurement.OrderItem{},
		&audit.Record{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	// 100 bottles on hand at 0.50 each.
	material, err := inventory.NewMaterial("Bottle 50ml", inventory.MaterialCategoryBottle, inventory.MaterialUnitPCS)
	require.NoError(t, err)
	require.NoError(t, material.Receive(decimal.NewFromInt(100), decimal.NewFromFloat(0.5)))
	require.NoError(t, persistence.NewGormMaterialRepository(db).Save(ctx, material))

	service := approcurement.NewService(persistence.NewGormProcurementTransactionScope(db))
	return &receiveFixture{db: db, service: service, material: material}
}

func (f *receiveFixture) placedOrder(t *testing.T, fragranceID uuid.UUID) *approcurement.OrderResponse {
	t.Helper()
	ctx := context.Background()
	actorID := uuid.New()

	// Item values 100 and 300; 20 shipping + 20 customs to allocate.
	order, err := f.service.Create(ctx, approcurement.CreateOrderRequest{
		SupplierName: "Essence Trading GmbH",
		Currency:     "EUR",
		ShippingCost: decimal.NewFromInt(20),
		CustomsCost:  decimal.NewFromInt(20),
		Items: []approcurement.OrderItemRequest{
			{TargetType: "MATERIAL", MaterialID: &f.material.ID,
				Qty: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(10)},
			{TargetType: "OILBATCH", FragranceID: &fragranceID,
				Qty: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(3)},
		},
	}, actorID)
	require.NoError(t, err)

	placed, err := f.service.Place(ctx, order.ID, actorID)
	require.NoError(t, err)
	return placed
}

func TestServiceReceive(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("landed costs split proportionally into stock", func(t *testing.T) {
		f := newReceiveFixture(t)
		fragranceID := uuid.New()
		order := f.placedOrder(t, fragranceID)

		resp, err := f.service.Receive(ctx, order.ID, actorID)
		require.NoError(t, err)
		require.Len(t, resp.CreatedBatchIDs, 1)
		require.Len(t, resp.UpdatedMaterials, 1)

		// Material line: value 100 of 400 total gets 10 of the 40 landed
		// costs. Landed unit cost 11; average over 110 units:
		// (100*0.5 + 10*11) / 110 = 1.4545.
		material, err := persistence.NewGormMaterialRepository(f.db).FindByID(ctx, f.material.ID)
		require.NoError(t, err)
		assert.True(t, material.StockQty.Equal(decimal.NewFromInt(110)))
		assert.True(t, material.CostPerUnit.Equal(decimal.NewFromFloat(1.4545)),
			"cost per unit %s", material.CostPerUnit)

		// Oil line: value 300 gets 30, landed total 330 over 100ml.
		batch, err := persistence.NewGormOilBatchRepository(f.db).FindByID(ctx, resp.CreatedBatchIDs[0])
		require.NoError(t, err)
		assert.Equal(t, fragranceID, batch.FragranceID)
		assert.True(t, batch.QtyML.Equal(decimal.NewFromInt(100)))
		assert.True(t, batch.CostTotal.Equal(decimal.NewFromInt(330)))
		assert.True(t, batch.CostPerML.Equal(decimal.NewFromFloat(3.3)))
		assert.Contains(t, batch.Barcode, "OB")

		received, err := f.service.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, string(procurement.OrderStatusReceived), received.Status)
		require.NotNil(t, received.ReceivedAt)
	})

	t.Run("second receive fails without double crediting stock", func(t *testing.T) {
		f := newReceiveFixture(t)
		order := f.placedOrder(t, uuid.New())

		_, err := f.service.Receive(ctx, order.ID, actorID)
		require.NoError(t, err)

		_, err = f.service.Receive(ctx, order.ID, actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidOrderState)

		material, err := persistence.NewGormMaterialRepository(f.db).FindByID(ctx, f.material.ID)
		require.NoError(t, err)
		assert.True(t, material.StockQty.Equal(decimal.NewFromInt(110)), "stock %s", material.StockQty)
	})

	t.Run("zero-value orders cannot be received", func(t *testing.T) {
		f := newReceiveFixture(t)
		order, err := f.service.Create(ctx, approcurement.CreateOrderRequest{
			SupplierName: "Musterlieferant",
			ShippingCost: decimal.NewFromInt(40),
			Items: []approcurement.OrderItemRequest{
				{TargetType: "MATERIAL", MaterialID: &f.material.ID,
					Qty: decimal.NewFromInt(2), UnitPrice: decimal.Zero},
				{TargetType: "MATERIAL", MaterialID: &f.material.ID,
					Qty: decimal.NewFromInt(3), UnitPrice: decimal.Zero},
			},
		}, actorID)
		require.NoError(t, err)
		_, err = f.service.Place(ctx, order.ID, actorID)
		require.NoError(t, err)

		_, err = f.service.Receive(ctx, order.ID, actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidOrderState)

		// No stock credit happened.
		material, err := persistence.NewGormMaterialRepository(f.db).FindByID(ctx, f.material.ID)
		require.NoError(t, err)
		assert.True(t, material.StockQty.Equal(decimal.NewFromInt(100)), "stock %s", material.StockQty)
	})

	t.Run("draft orders cannot be received", func(t *testing.T) {
		f := newReceiveFixture(t)
		draft, err := f.service.Create(ctx, approcurement.CreateOrderRequest{
			SupplierName: "Flacon Nord",
			Items: []approcurement.OrderItemRequest{
				{TargetType: "MATERIAL", MaterialID: &f.material.ID,
					Qty: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
			},
		}, actorID)
		require.NoError(t, err)

		_, err = f.service.Receive(ctx, draft.ID, actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidOrderState)
	})

	t.Run("cancelled orders cannot be received", func(t *testing.T) {
		f := newReceiveFixture(t)
		order := f.placedOrder(t, uuid.New())
		require.NoError(t, f.service.Cancel(ctx, order.ID, actorID))

		_, err := f.service.Receive(ctx, order.ID, actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidOrderState)
	})

	t.Run("receiving an unknown order reports not found", func(t *testing.T) {
		f := newReceiveFixture(t)
		_, err := f.service.Receive(ctx, uuid.New(), actorID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
