// Package database owns the connection pool and the gateway through which
// every SQL statement in the service is issued.
package database

import (
	"context"
	"strings"
	"time"

	"github.com/Aidin1998/usertodos/common/dbutil"
	"github.com/Aidin1998/usertodos/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const instrumentationName = "github.com/Aidin1998/usertodos/internal/database"

// Gateway executes one parameterized statement per call. Rows produced by the
// statement are scanned into dest and their count is returned. Failures come
// back as errors of kind Database; they are never retried.
type Gateway interface {
	Query(ctx context.Context, dest any, query string, args ...any) (int64, error)
	Ping(ctx context.Context) error
}

type queryMetrics struct {
	count    metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// GormGateway is the Gateway backed by a gorm connection pool.
type GormGateway struct {
	db            *gorm.DB
	logger        *zap.Logger
	tracer        trace.Tracer
	metrics       *queryMetrics
	system        string
	slowThreshold time.Duration
}

var _ Gateway = (*GormGateway)(nil)

// Option configures a GormGateway
type Option func(*GormGateway)

// WithLogger sets the logger used for failed and slow statements.
func WithLogger(logger *zap.Logger) Option {
	return func(g *GormGateway) {
		g.logger = logger.Named("db")
	}
}

// WithSlowQueryThreshold sets the duration above which statements are logged as slow.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(g *GormGateway) {
		g.slowThreshold = d
	}
}

// WithTracer overrides the globally registered tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *GormGateway) {
		g.tracer = tracer
	}
}

// WithMeter overrides the globally registered meter.
func WithMeter(meter metric.Meter) Option {
	return func(g *GormGateway) {
		g.metrics = newQueryMetrics(meter)
	}
}

// NewGateway wraps an open pool.
func NewGateway(db *gorm.DB, opts ...Option) *GormGateway {
	g := &GormGateway{
		db:            db,
		logger:        zap.NewNop(),
		tracer:        otel.Tracer(instrumentationName),
		metrics:       newQueryMetrics(otel.Meter(instrumentationName)),
		system:        db.Dialector.Name(),
		slowThreshold: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func newQueryMetrics(meter metric.Meter) *queryMetrics {
	count, _ := meter.Int64Counter("db.query.count",
		metric.WithDescription("Total number of SQL statements executed"),
		metric.WithUnit("{query}"),
	)
	duration, _ := meter.Float64Histogram("db.query.duration",
		metric.WithDescription("Statement execution duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	errs, _ := meter.Int64Counter("db.query.errors",
		metric.WithDescription("Total number of failed SQL statements"),
		metric.WithUnit("{error}"),
	)
	return &queryMetrics{count: count, duration: duration, errors: errs}
}

// Query implements Gateway.
func (g *GormGateway) Query(ctx context.Context, dest any, query string, args ...any) (int64, error) {
	op := operation(query)
	ctx, span := g.tracer.Start(ctx, "db.query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", g.system),
			attribute.String("db.operation", op),
			attribute.String("db.statement", query),
		),
	)
	defer span.End()

	start := time.Now()
	result := g.db.WithContext(ctx).Raw(query, args...).Scan(dest)
	elapsed := time.Since(start)

	err := dbutil.WrapError(result.Error)
	g.observe(ctx, op, query, elapsed, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, dbutil.Classify(result.Error))
		return 0, err
	}

	span.SetAttributes(attribute.Int64("db.rows", result.RowsAffected))
	return result.RowsAffected, nil
}

// Ping checks that the pool can reach the database.
func (g *GormGateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return dbutil.WrapError(err)
	}
	return dbutil.WrapError(sqlDB.PingContext(ctx))
}

func (g *GormGateway) observe(ctx context.Context, op, query string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = dbutil.Classify(err)
	}
	metrics.DBQueryDuration.WithLabelValues(op, outcome).Observe(elapsed.Seconds())

	attrs := metric.WithAttributes(
		attribute.String("db.operation", op),
		attribute.String("db.system", g.system),
	)
	g.metrics.count.Add(ctx, 1, attrs)
	g.metrics.duration.Record(ctx, float64(elapsed.Milliseconds()), attrs)

	switch {
	case err != nil:
		g.metrics.errors.Add(ctx, 1, attrs)
		g.logger.Error("query failed",
			zap.String("operation", op),
			zap.String("outcome", outcome),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
	case elapsed > g.slowThreshold:
		g.logger.Warn("slow query",
			zap.String("operation", op),
			zap.String("query", query),
			zap.Duration("duration", elapsed),
		)
	}
}

// operation returns the lower-cased leading SQL keyword.
func operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
