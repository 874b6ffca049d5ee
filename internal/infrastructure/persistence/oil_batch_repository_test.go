package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBatch(t *testing.T, fragranceID uuid.UUID, barcode string, qtyML, costTotal float64, receivedAt time.Time) *inventory.OilBatch {
	t.Helper()
	b, err := inventory.NewOilBatch(fragranceID, barcode,
		decimal.NewFromFloat(qtyML), decimal.NewFromFloat(costTotal), nil)
	require.NoError(t, err)
	b.ReceivedAt = receivedAt
	return b
}

func TestGormOilBatchRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormOilBatchRepository(db)
	fragranceID := uuid.New()

	t.Run("save and find by id and barcode", func(t *testing.T) {
		batch := mustBatch(t, fragranceID, "OB-ROUNDTRIP", 500, 1000, time.Now())
		require.NoError(t, repo.Save(ctx, batch))

		byID, err := repo.FindByID(ctx, batch.ID)
		require.NoError(t, err)
		assert.Equal(t, "OB-ROUNDTRIP", byID.Barcode)
		assert.True(t, byID.CostPerML.Equal(decimal.NewFromInt(2)))

		byBarcode, err := repo.FindByBarcode(ctx, "OB-ROUNDTRIP")
		require.NoError(t, err)
		assert.Equal(t, batch.ID, byBarcode.ID)
	})

	t.Run("missing batch returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByBarcode(ctx, "NOPE")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate barcode is rejected", func(t *testing.T) {
		first := mustBatch(t, fragranceID, "OB-DUP", 100, 100, time.Now())
		require.NoError(t, repo.Save(ctx, first))

		second := mustBatch(t, fragranceID, "OB-DUP", 100, 100, time.Now())
		err := repo.Save(ctx, second)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("available batches come back oldest first", func(t *testing.T) {
		fid := uuid.New()
		now := time.Now()
		newer := mustBatch(t, fid, "OB-NEWER", 200, 400, now)
		older := mustBatch(t, fid, "OB-OLDER", 300, 600, now.Add(-48*time.Hour))
		exhausted := mustBatch(t, fid, "OB-EMPTY", 100, 100, now.Add(-96*time.Hour))
		require.NoError(t, exhausted.Consume(decimal.NewFromInt(100)))
		require.NoError(t, repo.SaveAll(ctx, []*inventory.OilBatch{newer, older, exhausted}))

		batches, err := repo.FindAvailableByFragrance(ctx, fid)
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Equal(t, "OB-OLDER", batches[0].Barcode)
		assert.Equal(t, "OB-NEWER", batches[1].Barcode)
	})

	t.Run("locked batches are excluded from availability", func(t *testing.T) {
		fid := uuid.New()
		batch := mustBatch(t, fid, "OB-LOCKED", 100, 100, time.Now())
		batch.Lock()
		require.NoError(t, repo.Save(ctx, batch))

		batches, err := repo.FindAvailableByFragrance(ctx, fid)
		require.NoError(t, err)
		assert.Empty(t, batches)
	})

	t.Run("candidate lock set is filtered and FIFO ordered", func(t *testing.T) {
		fid := uuid.New()
		now := time.Now()
		older := mustBatch(t, fid, "OB-CAND-OLD", 300, 600, now.Add(-48*time.Hour))
		newer := mustBatch(t, fid, "OB-CAND-NEW", 200, 400, now)
		quarantined := mustBatch(t, fid, "OB-CAND-LOCK", 100, 100, now.Add(-96*time.Hour))
		quarantined.Lock()
		foreign := mustBatch(t, uuid.New(), "OB-CAND-OTHER", 100, 100, now)
		require.NoError(t, repo.SaveAll(ctx, []*inventory.OilBatch{older, newer, quarantined, foreign}))

		batches, err := repo.FindForUpdateByIDs(ctx, fid,
			[]uuid.UUID{newer.ID, older.ID, quarantined.ID, foreign.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, batches, 2, "only available lots of the fragrance qualify")
		assert.Equal(t, "OB-CAND-OLD", batches[0].Barcode)
		assert.Equal(t, "OB-CAND-NEW", batches[1].Barcode)
	})

	t.Run("find all filters by fragrance and status", func(t *testing.T) {
		fid := uuid.New()
		require.NoError(t, repo.Save(ctx, mustBatch(t, fid, "OB-FILTER", 100, 100, time.Now())))

		filter := shared.DefaultFilter()
		filter.Filters["fragrance_id"] = fid
		filter.Filters["status"] = string(inventory.OilBatchStatusAvailable)
		batches, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, batches, 1)
		assert.Equal(t, "OB-FILTER", batches[0].Barcode)
	})
}

func TestSortBatchesFIFO(t *testing.T) {
	now := time.Now()
	a := inventory.OilBatch{ReceivedAt: now.Add(-time.Hour)}
	b := inventory.OilBatch{ReceivedAt: now.Add(-3 * time.Hour)}
	c := inventory.OilBatch{ReceivedAt: now.Add(-2 * time.Hour)}

	batches := []inventory.OilBatch{a, b, c}
	sortBatchesFIFO(batches)

	assert.Equal(t, b.ReceivedAt, batches[0].ReceivedAt)
	assert.Equal(t, c.ReceivedAt, batches[1].ReceivedAt)
	assert.Equal(t, a.ReceivedAt, batches[2].ReceivedAt)
}
