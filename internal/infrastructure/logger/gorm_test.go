package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func traceQuery(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLoggerTrace(t *testing.T) {
	ctx := context.Background()

	t.Run("failed query logs at error with the statement", func(t *testing.T) {
		log, logs := newObservedLogger(zapcore.DebugLevel)
		gl := NewGormLogger(log, gormlogger.Warn)

		gl.Trace(ctx, time.Now(), traceQuery("INSERT INTO produced_items", 0), errors.New("duplicate key"))

		entries := logs.FilterMessage("query failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "INSERT INTO produced_items", fields["sql"])
		assert.Equal(t, "duplicate key", fields["error"])
	})

	t.Run("record not found stays silent", func(t *testing.T) {
		log, logs := newObservedLogger(zapcore.DebugLevel)
		gl := NewGormLogger(log, gormlogger.Warn)

		gl.Trace(ctx, time.Now(), traceQuery("SELECT * FROM materials", 0), gorm.ErrRecordNotFound)

		assert.Empty(t, logs.All())
	})

	t.Run("slow query logs at warn", func(t *testing.T) {
		log, logs := newObservedLogger(zapcore.DebugLevel)
		gl := NewGormLogger(log, gormlogger.Warn)

		gl.Trace(ctx, time.Now().Add(-time.Second), traceQuery("SELECT * FROM oil_batches", 12), nil)

		entries := logs.FilterMessage("slow query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, int64(12), entries[0].ContextMap()["rows"])
	})

	t.Run("fast query logs at debug when tracing", func(t *testing.T) {
		log, logs := newObservedLogger(zapcore.DebugLevel)
		gl := NewGormLogger(log, gormlogger.Info)

		gl.Trace(ctx, time.Now(), traceQuery("SELECT 1", 1), nil)

		entries := logs.FilterMessage("query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("silent level logs nothing", func(t *testing.T) {
		log, logs := newObservedLogger(zapcore.DebugLevel)
		gl := NewGormLogger(log, gormlogger.Silent)

		gl.Trace(ctx, time.Now(), traceQuery("SELECT 1", 1), errors.New("ignored"))

		assert.Empty(t, logs.All())
	})

	t.Run("request id from the context is attached", func(t *testing.T) {
		log, logs := newObservedLogger(zapcore.DebugLevel)
		gl := NewGormLogger(log, gormlogger.Info)

		reqCtx := context.WithValue(context.Background(), RequestIDKey, "req-42")
		gl.Trace(reqCtx, time.Now(), traceQuery("SELECT 1", 1), nil)

		entries := logs.FilterMessage("query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	})
}

func TestGormLoggerLogMode(t *testing.T) {
	log, logs := newObservedLogger(zapcore.DebugLevel)
	gl := NewGormLogger(log, gormlogger.Warn)

	quiet := gl.LogMode(gormlogger.Silent)
	quiet.(*GormLogger).Trace(context.Background(), time.Now(), traceQuery("SELECT 1", 1), errors.New("boom"))
	assert.Empty(t, logs.All())

	// The original keeps its level.
	gl.Trace(context.Background(), time.Now(), traceQuery("SELECT 1", 1), errors.New("boom"))
	assert.Len(t, logs.FilterMessage("query failed").All(), 1)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"debug", gormlogger.Info},
		{"info", gormlogger.Warn},
		{"warn", gormlogger.Warn},
		{"error", gormlogger.Error},
		{"ERROR", gormlogger.Error},
		{"", gormlogger.Warn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, MapGormLogLevel(tt.input), "level %q", tt.input)
	}
}
