package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUser(t *testing.T, username string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username, "workshop-pass-1", identity.RoleOperator)
	require.NoError(t, err)
	return u
}

func TestGormAuditRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormAuditRepository(db)

	actorID := uuid.New()
	orderID := uuid.New()

	metaCtx := audit.WithRequestMeta(ctx, audit.RequestMeta{
		IP:        "10.0.0.7",
		UserAgent: "lcree-workshop/1.4",
	})
	require.NoError(t, repo.Insert(metaCtx, audit.NewRecord(
		audit.ActionOrderReceive, &actorID, "order", &orderID,
		audit.Payload{"supplier": "Essence Trading GmbH", "created_batches": 2}).
		WithBefore(audit.Payload{"status": "PLACED"})))
	require.NoError(t, repo.Insert(ctx, audit.NewRecord(
		audit.ActionUserLogin, &actorID, "user", &actorID, nil)))

	t.Run("payloads roundtrip through the json serializer", func(t *testing.T) {
		records, err := repo.FindByEntity(ctx, "order", orderID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, audit.ActionOrderReceive, records[0].Action)
		assert.Equal(t, "PLACED", records[0].PayloadBefore["status"])
		assert.Equal(t, "Essence Trading GmbH", records[0].PayloadAfter["supplier"])
	})

	t.Run("request metadata is stamped from the context", func(t *testing.T) {
		records, err := repo.FindByEntity(ctx, "order", orderID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "10.0.0.7", records[0].IP)
		assert.Equal(t, "lcree-workshop/1.4", records[0].UserAgent)
	})

	t.Run("records without request metadata stay blank", func(t *testing.T) {
		records, err := repo.FindByEntity(ctx, "user", actorID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Empty(t, records[0].IP)
		assert.Empty(t, records[0].UserAgent)
	})

	t.Run("action filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["action"] = string(audit.ActionUserLogin)
		records, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, records, 1)
		assert.Equal(t, audit.ActionUserLogin, records[0].Action)
	})

	t.Run("actor filter matches both records", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["actor_id"] = actorID
		_, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})
}

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormUserRepository(db)

	t.Run("username lookup is case insensitive", func(t *testing.T) {
		user := mustUser(t, "maria.lopez")
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByUsername(ctx, "  MARIA.LOPEZ ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		dup := mustUser(t, "maria.lopez")
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("unknown username reports not found", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
