package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds database tracing settings. LogFullSQL puts
// query parameters into spans, which leaks customer PANs and GSTINs,
// so production config validation forces it off.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool
	SlowQueryThresh  time.Duration // default 200ms
	DBSystem         string        // default "postgresql"
	WithoutVariables bool
}

// DefaultDBTracingConfig returns the secure defaults.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin is a GORM plugin that layers slow-query detection
// and error marking on top of otelgorm's spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates the tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// Name implements gorm.Plugin.
func (p *DBTracingPlugin) Name() string {
	return "jewelerp:db_tracing"
}

// Initialize implements gorm.Plugin. It installs otelgorm and then the
// timing callbacks around every operation type.
func (p *DBTracingPlugin) Initialize(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// RegisterOtelGorm installs the plugin on an existing DB handle.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	return p.Initialize(db)
}

func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	return firstError(
		cb.Create().Before("gorm:create").Register("jewelerp_trace:before_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("jewelerp_trace:before_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("jewelerp_trace:before_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("jewelerp_trace:before_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("jewelerp_trace:before_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("jewelerp_trace:before_raw", markQueryStart),

		cb.Create().After("gorm:create").Register("jewelerp_trace:after_create", p.stampQuerySpan),
		cb.Query().After("gorm:query").Register("jewelerp_trace:after_query", p.stampQuerySpan),
		cb.Update().After("gorm:update").Register("jewelerp_trace:after_update", p.stampQuerySpan),
		cb.Delete().After("gorm:delete").Register("jewelerp_trace:after_delete", p.stampQuerySpan),
		cb.Row().After("gorm:row").Register("jewelerp_trace:after_row", p.stampQuerySpan),
		cb.Raw().After("gorm:raw").Register("jewelerp_trace:after_raw", p.stampQuerySpan),
	)
}

func firstError(errs ...error) error {
	return errors.Join(errs...)
}

// markQueryStart records when the operation entered GORM so the after
// callback can measure real elapsed time, queue waits included.
func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = WithQueryStartTime(db.Statement.Context)
	}
}

// stampQuerySpan annotates the active span with row counts, table name
// and slow-query markers, and flags real errors. ErrRecordNotFound is
// an expected lookup miss, not a failure.
func (p *DBTracingPlugin) stampQuerySpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(startTime)
	if elapsed <= p.config.SlowQueryThresh {
		return
	}
	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
	)
	span.AddEvent("slow_query_warning", trace.WithAttributes(
		attribute.Int64("duration_ms", elapsed.Milliseconds()),
		attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
	))
}

type contextKey string

const queryStartTimeKey contextKey = "query_start_time"

// WithQueryStartTime stamps the query start time into the context.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}
