// Package tracing provides OpenTelemetry integration for poke.
//
// Basic usage with the command bus:
//
//	tp, _ := tracing.NewStdoutProvider("poke", os.Stdout)
//	otel.SetTracerProvider(tp)
//
//	tracer := tracing.NewTracer()
//	bus := poke.NewCommandBus()
//	bus.Use(tracing.CommandMiddleware(tracer))
//
// Command spans carry the command type, the target aggregate, the correlation
// ID and the resulting stream version.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/adapters"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

const (
	// TracerName is the instrumentation name of poke spans.
	TracerName = "github.com/AshkanYarmoradi/go-poke"

	// DefaultServiceName is the default service name for spans.
	DefaultServiceName = "poke"
)

// Tracer wraps an OpenTelemetry tracer.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

// WithTracerProvider sets a custom TracerProvider.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(t *Tracer) {
		t.tracer = tp.Tracer(TracerName)
	}
}

// WithServiceName sets the service name for spans.
func WithServiceName(name string) TracerOption {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// NewTracer creates a Tracer on the global TracerProvider.
func NewTracer(opts ...TracerOption) *Tracer {
	t := &Tracer{
		tracer:      otel.Tracer(TracerName),
		serviceName: DefaultServiceName,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartSpan starts a new span with the given name.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// Tracer returns the underlying OpenTelemetry tracer.
func (t *Tracer) Tracer() trace.Tracer {
	return t.tracer
}

// ServiceName returns the configured service name.
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

// NewStdoutProvider returns a TracerProvider that writes finished spans as
// JSON to w. Callers must Shutdown it to flush.
func NewStdoutProvider(serviceName string, w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("tracing: create stdout exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	), nil
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// CommandMiddleware creates middleware that traces command execution.
func CommandMiddleware(tracer *Tracer) poke.Middleware {
	return func(next poke.MiddlewareFunc) poke.MiddlewareFunc {
		return func(ctx context.Context, cmd poke.Command) (poke.CommandResult, error) {
			ctx, span := tracer.StartSpan(ctx, "command."+cmd.CommandType(),
				trace.WithSpanKind(trace.SpanKindInternal),
			)
			defer span.End()

			span.SetAttributes(
				attribute.String("poke.service", tracer.serviceName),
				attribute.String("poke.command.type", cmd.CommandType()),
			)
			if sc, ok := cmd.(poke.StreamCommand); ok {
				span.SetAttributes(attribute.String("poke.command.source_id", sc.SourceID()))
			}
			if id := poke.CorrelationIDFromContext(ctx); id != "" {
				span.SetAttributes(attribute.String("poke.correlation_id", id))
			}

			result, err := next(ctx, cmd)

			switch {
			case err != nil:
				finish(span, err)
			case result.IsError():
				finish(span, result.Error)
			default:
				finish(span, nil)
				span.SetAttributes(
					attribute.String("poke.result.aggregate_id", result.AggregateID),
					attribute.Int64("poke.result.version", result.Version),
				)
			}
			return result, err
		}
	}
}

// EventStoreMiddleware wraps an EventStoreAdapter with tracing.
type EventStoreMiddleware struct {
	adapter adapters.EventStoreAdapter
	tracer  *Tracer
}

var _ adapters.EventStoreAdapter = (*EventStoreMiddleware)(nil)

// NewEventStoreMiddleware wraps an adapter with tracing.
func NewEventStoreMiddleware(adapter adapters.EventStoreAdapter, tracer *Tracer) *EventStoreMiddleware {
	return &EventStoreMiddleware{adapter: adapter, tracer: tracer}
}

func (m *EventStoreMiddleware) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := m.tracer.StartSpan(ctx, "eventstore."+op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("poke.service", m.tracer.serviceName))
	span.SetAttributes(attrs...)
	return ctx, span
}

// Append stores events with tracing.
func (m *EventStoreMiddleware) Append(ctx context.Context, streamID string, events []adapters.EventRecord, expectedVersion int64) ([]adapters.StoredEvent, error) {
	eventTypes := make([]string, len(events))
	for i, e := range events {
		eventTypes[i] = e.Type
	}
	ctx, span := m.start(ctx, "append",
		attribute.String("poke.stream_id", streamID),
		attribute.Int64("poke.expected_version", expectedVersion),
		attribute.Int("poke.events.count", len(events)),
		attribute.StringSlice("poke.events.types", eventTypes),
	)
	defer span.End()

	stored, err := m.adapter.Append(ctx, streamID, events, expectedVersion)
	finish(span, err)
	if err == nil && len(stored) > 0 {
		last := stored[len(stored)-1]
		span.SetAttributes(
			attribute.Int64("poke.stored.version", last.Version),
			attribute.Int64("poke.stored.global_position", int64(last.GlobalPosition)),
		)
	}
	return stored, err
}

// Load retrieves events with tracing.
func (m *EventStoreMiddleware) Load(ctx context.Context, streamID string, fromVersion int64) ([]adapters.StoredEvent, error) {
	ctx, span := m.start(ctx, "load",
		attribute.String("poke.stream_id", streamID),
		attribute.Int64("poke.from_version", fromVersion),
	)
	defer span.End()

	events, err := m.adapter.Load(ctx, streamID, fromVersion)
	finish(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int("poke.events.loaded", len(events)))
	}
	return events, err
}

// GetStreamInfo returns stream metadata with tracing.
func (m *EventStoreMiddleware) GetStreamInfo(ctx context.Context, streamID string) (*adapters.StreamInfo, error) {
	ctx, span := m.start(ctx, "get_stream_info", attribute.String("poke.stream_id", streamID))
	defer span.End()

	info, err := m.adapter.GetStreamInfo(ctx, streamID)
	finish(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int64("poke.stream.version", info.Version))
	}
	return info, err
}

// GetLastPosition returns the last global position with tracing.
func (m *EventStoreMiddleware) GetLastPosition(ctx context.Context) (uint64, error) {
	ctx, span := m.start(ctx, "get_last_position")
	defer span.End()

	pos, err := m.adapter.GetLastPosition(ctx)
	finish(span, err)
	return pos, err
}

// Initialize initializes the adapter with tracing.
func (m *EventStoreMiddleware) Initialize(ctx context.Context) error {
	ctx, span := m.start(ctx, "initialize")
	defer span.End()

	err := m.adapter.Initialize(ctx)
	finish(span, err)
	return err
}

// Close closes the adapter.
func (m *EventStoreMiddleware) Close() error {
	return m.adapter.Close()
}

// RepositoryMiddleware wraps a pokemon.Repository with tracing.
type RepositoryMiddleware struct {
	source string
	repo   pokemon.Repository
	tracer *Tracer
}

var _ pokemon.Repository = (*RepositoryMiddleware)(nil)

// NewRepositoryMiddleware traces lookups on repo in spans named
// "pokemon.{source}.get".
func NewRepositoryMiddleware(source string, repo pokemon.Repository, tracer *Tracer) *RepositoryMiddleware {
	return &RepositoryMiddleware{source: source, repo: repo, tracer: tracer}
}

// Get implements pokemon.Repository.
func (m *RepositoryMiddleware) Get(ctx context.Context, id pokemon.DexID) (*pokemon.Pokemon, error) {
	ctx, span := m.tracer.StartSpan(ctx, "pokemon."+m.source+".get",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	span.SetAttributes(
		attribute.String("poke.service", m.tracer.serviceName),
		attribute.Int64("poke.pokemon.dex_id", int64(id)),
	)

	p, err := m.repo.Get(ctx, id)
	finish(span, err)
	if err == nil {
		span.SetAttributes(attribute.Bool("poke.pokemon.found", p != nil))
	}
	return p, err
}

// SpanFromContext returns the current span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, opts ...trace.EventOption) {
	trace.SpanFromContext(ctx).AddEvent(name, opts...)
}

// SetError records err on the current span.
func SetError(ctx context.Context, err error) {
	finish(trace.SpanFromContext(ctx), err)
}

// SetAttributes sets attributes on the current span.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}
