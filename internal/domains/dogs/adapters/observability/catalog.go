package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/dog-finder/internal/domains/dogs/ports"
)

const tracerName = "github.com/Apurer/dog-finder/internal/domains/dogs/adapters/observability/catalog"

// Catalog decorates a catalog port with tracing, logging, and metrics.
type Catalog struct {
	inner   ports.Catalog
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics catalogMetrics
}

type Option func(*Catalog)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(c *Catalog) {
		c.tracer = tr
	}
}

// WithMeter injects the meter used to create catalog instruments.
func WithMeter(m metric.Meter) Option {
	return func(c *Catalog) {
		c.metrics = newCatalogMetrics(m)
	}
}

// New wires a decorator around the catalog adapter.
func New(inner ports.Catalog, opts ...Option) ports.Catalog {
	c := &Catalog{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newCatalogMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.tracer == nil {
		c.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	return c
}

// Breeds lists the breed names.
func (c *Catalog) Breeds(ctx context.Context) ([]string, error) {
	ctx, span := c.startSpan(ctx, "Catalog.Breeds")
	defer span.End()

	result, err := c.inner.Breeds(ctx)
	if err != nil {
		return nil, c.handleError(ctx, span, "breeds", err, "failed to fetch breeds")
	}
	c.metrics.recordCall(ctx, "breeds", "ok")
	span.SetAttributes(attribute.Int("dogs.breeds.count", len(result)))
	return result, nil
}

// Search fetches a first page.
func (c *Catalog) Search(ctx context.Context, query domain.SearchQuery) (*domain.PageResult, error) {
	ctx, span := c.startSpan(ctx, "Catalog.Search",
		attribute.StringSlice("dogs.filter.breeds", query.Filters.Breeds),
		attribute.String("dogs.sort", query.Sort.String()),
		attribute.Int("dogs.page.size", query.Size),
	)
	defer span.End()

	c.logDebug(ctx, "searching dogs", slog.String("sort", query.Sort.String()), slog.Any("breeds", query.Filters.Breeds))
	result, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, c.handleError(ctx, span, "search", err, "failed to search dogs", slog.String("sort", query.Sort.String()))
	}
	c.metrics.recordCall(ctx, "search", "ok")
	span.SetAttributes(attribute.Int("dogs.result.count", len(result.IDs)), attribute.Int("dogs.result.total", result.Total))
	return result, nil
}

// SearchAt follows a cursor.
func (c *Catalog) SearchAt(ctx context.Context, cursor domain.Cursor, filters domain.SearchFilters) (*domain.PageResult, error) {
	ctx, span := c.startSpan(ctx, "Catalog.SearchAt", attribute.StringSlice("dogs.filter.breeds", filters.Breeds))
	defer span.End()

	result, err := c.inner.SearchAt(ctx, cursor, filters)
	if err != nil {
		return nil, c.handleError(ctx, span, "search_cursor", err, "failed to follow search cursor")
	}
	c.metrics.recordCall(ctx, "search_cursor", "ok")
	span.SetAttributes(attribute.Int("dogs.result.count", len(result.IDs)))
	return result, nil
}

// Dogs resolves identifiers into records.
func (c *Catalog) Dogs(ctx context.Context, ids []string) ([]domain.Dog, error) {
	ctx, span := c.startSpan(ctx, "Catalog.Dogs", attribute.Int("dogs.requested", len(ids)))
	defer span.End()

	result, err := c.inner.Dogs(ctx, ids)
	if err != nil {
		return nil, c.handleError(ctx, span, "dogs", err, "failed to fetch dog details", slog.Int("requested", len(ids)))
	}
	c.metrics.recordCall(ctx, "dogs", "ok")
	span.SetAttributes(attribute.Int("dogs.resolved", len(result)))
	return result, nil
}

// Match requests a match for favorites.
func (c *Catalog) Match(ctx context.Context, favorites []string) (*domain.Match, error) {
	ctx, span := c.startSpan(ctx, "Catalog.Match", attribute.Int("dogs.favorites", len(favorites)))
	defer span.End()

	c.logInfo(ctx, "requesting match", slog.Int("favorites", len(favorites)))
	result, err := c.inner.Match(ctx, favorites)
	if err != nil {
		return nil, c.handleError(ctx, span, "match", err, "failed to request match", slog.Int("favorites", len(favorites)))
	}
	c.metrics.recordCall(ctx, "match", "ok")
	if result != nil {
		span.SetAttributes(attribute.String("dogs.match.id", result.DogID))
	}
	return result, nil
}

func (c *Catalog) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := c.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (c *Catalog) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (c *Catalog) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleError records the failure. Expired sessions are expected and logged
// at warn; everything else is a transport failure and logged at error.
func (c *Catalog) handleError(ctx context.Context, span trace.Span, op string, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	level := slog.LevelError
	outcome := "error"
	switch {
	case errors.Is(err, ports.ErrSessionExpired):
		level = slog.LevelWarn
		outcome = "session_expired"
	case errors.Is(err, context.Canceled):
		level = slog.LevelDebug
		outcome = "canceled"
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.metrics.recordCall(ctx, op, outcome)
	if c.logger != nil {
		attrs = append(attrs, slog.String("op", op), slog.String("error", err.Error()))
		c.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type catalogMetrics struct {
	calls metric.Int64Counter
}

func newCatalogMetrics(m metric.Meter) catalogMetrics {
	if m == nil {
		return catalogMetrics{}
	}
	calls, _ := m.Int64Counter("dogs.catalog.calls", metric.WithDescription("Upstream catalog calls by operation and outcome"))
	return catalogMetrics{calls: calls}
}

func (m catalogMetrics) recordCall(ctx context.Context, op, outcome string) {
	if m.calls == nil {
		return
	}
	m.calls.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op), attribute.String("outcome", outcome)))
}

var _ ports.Catalog = (*Catalog)(nil)
