package inventory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	appinventory "github.com/lcree/backend/internal/application/inventory"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/lcree/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stockFixture struct {
	db      *gorm.DB
	service *appinventory.Service
	tool    *inventory.Material
	bottle  *inventory.Material
	batch   *inventory.OilBatch
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&inventory.Material{}, &inventory.OilBatch{}, &inventory.ToolCheckout{},
		&audit.Record{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	materials := persistence.NewGormMaterialRepository(db)

	tool, err := inventory.NewMaterial("Funnel 20mm", inventory.MaterialCategoryTool, inventory.MaterialUnitPCS)
	require.NoError(t, err)
	require.NoError(t, materials.Save(ctx, tool))

	bottle, err := inventory.NewMaterial("Bottle 50ml", inventory.MaterialCategoryBottle, inventory.MaterialUnitPCS)
	require.NoError(t, err)
	bottle.MinQty = decimal.NewFromInt(10)
	require.NoError(t, bottle.Receive(decimal.NewFromInt(4), decimal.NewFromFloat(0.5)))
	require.NoError(t, materials.Save(ctx, bottle))

	batch, err := inventory.NewOilBatch(uuid.New(), "OB-CAL-1",
		decimal.NewFromInt(100), decimal.NewFromInt(200), nil)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormOilBatchRepository(db).Save(ctx, batch))

	service := appinventory.NewService(persistence.NewGormInventoryTransactionScope(db))
	return &stockFixture{db: db, service: service, tool: tool, bottle: bottle, batch: batch}
}

func (f *stockFixture) auditRecords(t *testing.T, entityType string, entityID uuid.UUID) []audit.Record {
	t.Helper()
	records, err := persistence.NewGormAuditRepository(f.db).FindByEntity(
		context.Background(), entityType, entityID)
	require.NoError(t, err)
	return records
}

func TestServiceAdjustMaterial(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("counted quantity replaces stock and is audited with the delta", func(t *testing.T) {
		f := newStockFixture(t)
		resp, err := f.service.AdjustMaterial(ctx, f.bottle.ID, appinventory.AdjustMaterialRequest{
			NewQty: decimal.NewFromInt(7),
			Reason: "yearly stocktake",
		}, actorID)
		require.NoError(t, err)
		assert.True(t, resp.StockQty.Equal(decimal.NewFromInt(7)))

		records := f.auditRecords(t, "material", f.bottle.ID)
		require.Len(t, records, 1)
		assert.Equal(t, audit.ActionMaterialAdjust, records[0].Action)
		assert.Equal(t, "3", records[0].PayloadAfter["delta"])
		assert.Equal(t, "yearly stocktake", records[0].PayloadAfter["reason"])
		assert.Equal(t, "4", records[0].PayloadBefore["stock_qty"])
	})

	t.Run("negative counts are rejected", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.service.AdjustMaterial(ctx, f.bottle.ID, appinventory.AdjustMaterialRequest{
			NewQty: decimal.NewFromInt(-1),
			Reason: "oops",
		}, actorID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("deleted materials disappear from reads", func(t *testing.T) {
		f := newStockFixture(t)
		require.NoError(t, f.service.DeleteMaterial(ctx, f.bottle.ID, actorID))
		_, err := f.service.GetMaterial(ctx, f.bottle.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown material reports not found", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.service.AdjustMaterial(ctx, uuid.New(), appinventory.AdjustMaterialRequest{
			NewQty: decimal.NewFromInt(1),
			Reason: "count",
		}, actorID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestServiceLowStockReport(t *testing.T) {
	f := newStockFixture(t)
	report, err := f.service.LowStockReport(context.Background())
	require.NoError(t, err)

	// The bottle sits at 4 of minimum 10; the tool has no minimum.
	require.Len(t, report, 1)
	assert.Equal(t, "Bottle 50ml", report[0].Name)
	assert.True(t, report[0].IsBelowMinimum)
}

func TestServiceCalibrateBatch(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("small deviation stays within tolerance", func(t *testing.T) {
		f := newStockFixture(t)
		resp, err := f.service.CalibrateBatch(ctx, f.batch.ID, appinventory.CalibrateBatchRequest{
			MeasuredVolumeML: decimal.NewFromInt(102),
		}, actorID)
		require.NoError(t, err)
		require.NotNil(t, resp.Deviation)
		assert.True(t, resp.Deviation.DeviationPercent.Equal(decimal.NewFromInt(2)),
			"deviation %s", resp.Deviation.DeviationPercent)
		assert.True(t, resp.Deviation.WithinTolerance)
		require.NotNil(t, resp.LastVerifiedAt)

		records := f.auditRecords(t, "oil_batch", f.batch.ID)
		require.Len(t, records, 1)
		assert.Equal(t, audit.ActionBatchAdjustment, records[0].Action)
		assert.Equal(t, true, records[0].PayloadAfter["within_tolerance"])
		assert.Equal(t, "100", records[0].PayloadBefore["qty_ml"])
	})

	t.Run("large deviation is flagged", func(t *testing.T) {
		f := newStockFixture(t)
		resp, err := f.service.CalibrateBatch(ctx, f.batch.ID, appinventory.CalibrateBatchRequest{
			MeasuredVolumeML: decimal.NewFromInt(110),
		}, actorID)
		require.NoError(t, err)
		require.NotNil(t, resp.Deviation)
		assert.False(t, resp.Deviation.WithinTolerance)
	})

	t.Run("non positive measurement is rejected", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.service.CalibrateBatch(ctx, f.batch.ID, appinventory.CalibrateBatchRequest{
			MeasuredVolumeML: decimal.Zero,
		}, actorID)
		assert.Error(t, err)
	})
}

func TestServiceSetBatchLock(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	f := newStockFixture(t)

	locked, err := f.service.SetBatchLock(ctx, f.batch.ID, true, actorID)
	require.NoError(t, err)
	assert.Equal(t, string(inventory.OilBatchStatusLocked), locked.Status)

	released, err := f.service.SetBatchLock(ctx, f.batch.ID, false, actorID)
	require.NoError(t, err)
	assert.Equal(t, string(inventory.OilBatchStatusAvailable), released.Status)
}

func TestServiceToolCheckout(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("checkout and return lifecycle", func(t *testing.T) {
		f := newStockFixture(t)
		checkout, err := f.service.CheckoutTool(ctx, appinventory.CheckoutToolRequest{
			MaterialID: f.tool.ID,
			Note:       "filling station 2",
		}, actorID)
		require.NoError(t, err)
		assert.Equal(t, f.tool.ID, checkout.MaterialID)
		assert.Nil(t, checkout.ReturnedAt)

		returned, err := f.service.ReturnTool(ctx, f.tool.ID, actorID)
		require.NoError(t, err)
		require.NotNil(t, returned.ReturnedAt)

		// After the return the tool can be taken again.
		_, err = f.service.CheckoutTool(ctx, appinventory.CheckoutToolRequest{
			MaterialID: f.tool.ID,
		}, actorID)
		require.NoError(t, err)
	})

	t.Run("double checkout is rejected", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.service.CheckoutTool(ctx, appinventory.CheckoutToolRequest{MaterialID: f.tool.ID}, actorID)
		require.NoError(t, err)

		_, err = f.service.CheckoutTool(ctx, appinventory.CheckoutToolRequest{MaterialID: f.tool.ID}, actorID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOOL_CHECKED_OUT", domainErr.Code)
	})

	t.Run("non tools cannot be checked out", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.service.CheckoutTool(ctx, appinventory.CheckoutToolRequest{MaterialID: f.bottle.ID}, actorID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_A_TOOL", domainErr.Code)
	})

	t.Run("returning a tool that is not out reports not found", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.service.ReturnTool(ctx, f.tool.ID, actorID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
