package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	retrieved := FromContext(ctx)
	assert.Equal(t, logger, retrieved)
}

func TestFromContext_NotFound(t *testing.T) {
	retrieved := FromContext(context.Background())
	assert.NotNil(t, retrieved, "must return a no-op logger, never nil")
}

func TestWithRequestID(t *testing.T) {
	logger := zap.NewNop()
	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.NotNil(t, enriched)
	assert.Equal(t, enriched, FromContext(ctx))
}

func TestWithUserID(t *testing.T) {
	logger := zap.NewNop()
	ctx, _ := WithUserID(context.Background(), logger, "user-456")
	assert.Equal(t, "user-456", GetUserID(ctx))
}

func TestGetRequestID_Empty(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
	assert.Equal(t, "", GetUserID(context.Background()))
}

func TestContextLogger(t *testing.T) {
	t.Run("injects request and user fields into entries", func(t *testing.T) {
		core, recorded := observer.New(zap.InfoLevel)
		base := zap.New(core)

		ctx := WithContext(context.Background(), base)
		ctx, _ = WithRequestID(ctx, base, "req-789")
		ctx = context.WithValue(ctx, UserIDKey, "user-1")

		L(ctx).Info("hello")

		entries := recorded.All()
		assert.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-789", fields["request_id"])
		assert.Equal(t, "user-1", fields["user_id"])
	})

	t.Run("works with empty context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			L(context.Background()).Info("no fields")
		})
	})

	t.Run("WithLogger uses the provided logger", func(t *testing.T) {
		core, recorded := observer.New(zap.InfoLevel)
		base := zap.New(core)

		WithLogger(context.Background(), base).Warn("warned")
		assert.Len(t, recorded.All(), 1)
		assert.Equal(t, "warned", recorded.All()[0].Message)
	})

	t.Run("With adds fields to child logger", func(t *testing.T) {
		core, recorded := observer.New(zap.InfoLevel)
		base := zap.New(core)

		WithLogger(context.Background(), base).
			With(zap.String("component", "production")).
			Info("tagged")

		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "production", fields["component"])
	})
}
