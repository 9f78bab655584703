package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stockItem struct {
	ID        uint   `gorm:"primaryKey"`
	SKU       string `gorm:"size:64"`
	CreatedAt time.Time
}

func newTracedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&stockItem{}))
	return db
}

func newSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

// recordedSpan runs fn inside a live span and returns the ended span.
func recordedSpan(t *testing.T, fn func(ctx context.Context)) sdktrace.ReadOnlySpan {
	t.Helper()
	tp, recorder := newSpanRecorder(t)

	ctx, span := tp.Tracer("db-test").Start(context.Background(), "stock-lookup")
	fn(ctx)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	return spans[0]
}

// stubDB builds a minimal gorm.DB carrying the given context, the way
// callbacks see it mid-operation.
func stubDB(ctx context.Context) *gorm.DB {
	db := &gorm.DB{}
	db.Statement = &gorm.Statement{DB: db, Context: ctx}
	return db
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, attr := range span.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.Emit(), true
		}
	}
	return "", false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.True(t, cfg.WithoutVariables)
}

func TestDBTracingPlugin_DisabledIsInert(t *testing.T) {
	db := newTracedDB(t)

	cfg := DefaultDBTracingConfig() // Enabled: false
	require.NoError(t, db.Use(NewDBTracingPlugin(cfg, zap.NewNop())))

	// Queries still work, no spans involved
	require.NoError(t, db.Create(&stockItem{SKU: "RING-22K-001"}).Error)
}

func TestDBTracingPlugin_Install(t *testing.T) {
	db := newTracedDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	assert.Equal(t, "jewelerp:db_tracing", plugin.Name())
	require.NoError(t, db.Use(plugin))

	require.NoError(t, db.Create(&stockItem{SKU: "CHAIN-18K-002"}).Error)

	var item stockItem
	require.NoError(t, db.Where("sku = ?", "CHAIN-18K-002").First(&item).Error)
	assert.Equal(t, "CHAIN-18K-002", item.SKU)
}

func TestDBTracingPlugin_DoubleInstall(t *testing.T) {
	db := newTracedDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	require.NoError(t, db.Use(NewDBTracingPlugin(cfg, zap.NewNop())))

	// Callback names collide on the second install
	assert.Error(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))
}

func TestStampQuerySpan_RowsAndTable(t *testing.T) {
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	span := recordedSpan(t, func(ctx context.Context) {
		db := stubDB(ctx)
		db.Statement.Table = "stock_items"
		db.RowsAffected = 3
		plugin.stampQuerySpan(db)
	})

	rows, ok := spanAttr(span, "db.rows_affected")
	require.True(t, ok)
	assert.Equal(t, "3", rows)

	table, ok := spanAttr(span, "db.sql.table")
	require.True(t, ok)
	assert.Equal(t, "stock_items", table)
}

func TestStampQuerySpan_SlowQuery(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	cfg.SlowQueryThresh = time.Nanosecond
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	span := recordedSpan(t, func(ctx context.Context) {
		ctx = WithQueryStartTime(ctx)
		time.Sleep(time.Millisecond)
		plugin.stampQuerySpan(stubDB(ctx))
	})

	slow, ok := spanAttr(span, "db.slow_query")
	require.True(t, ok)
	assert.Equal(t, "true", slow)

	_, ok = spanAttr(span, "db.query_duration_ms")
	assert.True(t, ok)

	var sawEvent bool
	for _, event := range span.Events() {
		if event.Name == "slow_query_warning" {
			sawEvent = true
		}
	}
	assert.True(t, sawEvent)
}

func TestStampQuerySpan_FastQueryNotFlagged(t *testing.T) {
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	span := recordedSpan(t, func(ctx context.Context) {
		ctx = WithQueryStartTime(ctx)
		plugin.stampQuerySpan(stubDB(ctx))
	})

	_, ok := spanAttr(span, "db.slow_query")
	assert.False(t, ok)
}

func TestStampQuerySpan_Errors(t *testing.T) {
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	t.Run("real errors mark the span", func(t *testing.T) {
		span := recordedSpan(t, func(ctx context.Context) {
			db := stubDB(ctx)
			db.Error = gorm.ErrInvalidTransaction
			plugin.stampQuerySpan(db)
		})
		assert.Equal(t, codes.Error, span.Status().Code)
	})

	t.Run("a lookup miss is not an error", func(t *testing.T) {
		span := recordedSpan(t, func(ctx context.Context) {
			db := stubDB(ctx)
			db.Error = gorm.ErrRecordNotFound
			plugin.stampQuerySpan(db)
		})
		assert.NotEqual(t, codes.Error, span.Status().Code)
	})
}

func TestStampQuerySpan_NoContext(t *testing.T) {
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	// Must not panic without a context or span
	plugin.stampQuerySpan(stubDB(nil))
	plugin.stampQuerySpan(stubDB(context.Background()))
}

func TestWithQueryStartTime(t *testing.T) {
	before := time.Now()
	ctx := WithQueryStartTime(context.Background())

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.False(t, start.Before(before))
}

func TestMarkQueryStart(t *testing.T) {
	db := stubDB(context.Background())
	markQueryStart(db)

	_, ok := db.Statement.Context.Value(queryStartTimeKey).(time.Time)
	assert.True(t, ok)
}
