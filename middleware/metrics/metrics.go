// Package metrics provides Prometheus metrics for poke.
//
// Basic usage:
//
//	m := metrics.New(metrics.WithMetricsServiceName("poke"))
//	_ = m.Register(prometheus.DefaultRegisterer)
//
//	bus := poke.NewCommandBus()
//	bus.Use(m.CommandMiddleware())
//
//	store := poke.New(m.WrapEventStore(memory.NewAdapter()))
//	pokedex := m.WrapRepository("pokeapi", pokeapi.NewRepository(client))
//
// The metrics collected include:
//   - Command counts, durations and in-flight gauges
//   - Event log operations (append, load)
//   - Pokémon lookups by source and outcome
//   - Error counts by type
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/adapters"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

// Metric labels.
const (
	LabelCommandType = "command_type"
	LabelEventType   = "event_type"
	LabelOperation   = "operation"
	LabelStatus      = "status"
	LabelErrorType   = "error_type"
	LabelSource      = "source"
	LabelOutcome     = "outcome"
	LabelService     = "service"
)

// Status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation values.
const (
	OperationAppend          = "append"
	OperationLoad            = "load"
	OperationGetStreamInfo   = "get_stream_info"
	OperationGetLastPosition = "get_last_position"
)

// Lookup outcomes.
const (
	OutcomeFound  = "found"
	OutcomeAbsent = "absent"
	OutcomeError  = "error"
)

// Metrics holds the Prometheus collectors.
type Metrics struct {
	namespace   string
	subsystem   string
	serviceName string

	commandsTotal    *prometheus.CounterVec
	commandDuration  *prometheus.HistogramVec
	commandsInFlight *prometheus.GaugeVec

	eventStoreOperationsTotal   *prometheus.CounterVec
	eventStoreOperationDuration *prometheus.HistogramVec
	eventsAppendedTotal         *prometheus.CounterVec
	eventsLoadedTotal           *prometheus.CounterVec

	lookupsTotal   *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec

	errorsTotal *prometheus.CounterVec
}

// MetricsOption configures Metrics.
type MetricsOption func(*Metrics)

// WithNamespace sets the Prometheus namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(m *Metrics) {
		m.namespace = namespace
	}
}

// WithSubsystem sets the Prometheus subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(m *Metrics) {
		m.subsystem = subsystem
	}
}

// WithMetricsServiceName sets the service name label.
func WithMetricsServiceName(name string) MetricsOption {
	return func(m *Metrics) {
		m.serviceName = name
	}
}

// New creates Metrics in the "poke" namespace.
func New(opts ...MetricsOption) *Metrics {
	m := &Metrics{
		namespace:   "poke",
		serviceName: "unknown",
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initMetrics()
	return m
}

func (m *Metrics) initMetrics() {
	m.commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "commands_total",
			Help:      "Total number of commands processed.",
		},
		[]string{LabelService, LabelCommandType, LabelStatus},
	)

	m.commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "command_duration_seconds",
			Help:      "Duration of command processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelService, LabelCommandType},
	)

	m.commandsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "commands_in_flight",
			Help:      "Number of commands currently being processed.",
		},
		[]string{LabelService, LabelCommandType},
	)

	m.eventStoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "eventstore_operations_total",
			Help:      "Total number of event log operations.",
		},
		[]string{LabelService, LabelOperation, LabelStatus},
	)

	m.eventStoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "eventstore_operation_duration_seconds",
			Help:      "Duration of event log operations in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelService, LabelOperation},
	)

	m.eventsAppendedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_appended_total",
			Help:      "Total number of events appended to streams.",
		},
		[]string{LabelService, LabelEventType},
	)

	m.eventsLoadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_loaded_total",
			Help:      "Total number of events loaded from streams.",
		},
		[]string{LabelService},
	)

	m.lookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "pokemon_lookups_total",
			Help:      "Total number of Pokémon lookups by source and outcome.",
		},
		[]string{LabelService, LabelSource, LabelOutcome},
	)

	m.lookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "pokemon_lookup_duration_seconds",
			Help:      "Duration of Pokémon lookups in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelService, LabelSource},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Total number of errors by type.",
		},
		[]string{LabelService, LabelErrorType},
	)
}

// Collectors returns all Prometheus collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.commandsTotal,
		m.commandDuration,
		m.commandsInFlight,
		m.eventStoreOperationsTotal,
		m.eventStoreOperationDuration,
		m.eventsAppendedTotal,
		m.eventsLoadedTotal,
		m.lookupsTotal,
		m.lookupDuration,
		m.errorsTotal,
	}
}

// MustRegister registers all collectors with the default registry.
// Panics if registration fails.
func (m *Metrics) MustRegister() {
	prometheus.MustRegister(m.Collectors()...)
}

// Register registers all collectors with registry.
func (m *Metrics) Register(registry prometheus.Registerer) error {
	for _, collector := range m.Collectors() {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// CommandMiddleware returns middleware that records command metrics.
func (m *Metrics) CommandMiddleware() poke.Middleware {
	return func(next poke.MiddlewareFunc) poke.MiddlewareFunc {
		return func(ctx context.Context, cmd poke.Command) (poke.CommandResult, error) {
			cmdType := cmd.CommandType()

			m.commandsInFlight.WithLabelValues(m.serviceName, cmdType).Inc()
			defer m.commandsInFlight.WithLabelValues(m.serviceName, cmdType).Dec()

			start := time.Now()
			result, err := next(ctx, cmd)
			m.commandDuration.WithLabelValues(m.serviceName, cmdType).Observe(time.Since(start).Seconds())

			status := StatusSuccess
			if err != nil || result.IsError() {
				status = StatusError
				classify := err
				if classify == nil {
					classify = result.Error
				}
				m.RecordError(ErrorTypeName(classify))
			}
			m.commandsTotal.WithLabelValues(m.serviceName, cmdType, status).Inc()

			return result, err
		}
	}
}

// ErrorTypeName classifies err by the sentinel it matches.
func ErrorTypeName(err error) string {
	if err == nil {
		return "none"
	}

	switch {
	case errors.Is(err, poke.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, poke.ErrDomainRule):
		return "domain_rule"
	case errors.Is(err, poke.ErrCollaboratorNotFound):
		return "collaborator_not_found"
	case errors.Is(err, poke.ErrCollaboratorFailed):
		return "collaborator_failed"
	case errors.Is(err, poke.ErrStreamNotFound):
		return "stream_not_found"
	case errors.Is(err, poke.ErrHandlerNotFound):
		return "handler_not_found"
	case errors.Is(err, poke.ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, poke.ErrHandlerPanicked):
		return "handler_panicked"
	case errors.Is(err, poke.ErrSerializationFailed):
		return "serialization_failed"
	case errors.Is(err, poke.ErrEventTypeNotRegistered):
		return "event_type_not_registered"
	case errors.Is(err, poke.ErrUnexpectedEvent):
		return "unexpected_event"
	case errors.Is(err, poke.ErrNilCommand):
		return "nil_command"
	case errors.Is(err, adapters.ErrEmptyStreamID):
		return "empty_stream_id"
	case errors.Is(err, adapters.ErrNoEvents):
		return "no_events"
	case errors.Is(err, adapters.ErrInvalidVersion):
		return "invalid_version"
	case errors.Is(err, adapters.ErrAdapterClosed):
		return "adapter_closed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unknown"
	}
}

// EventStoreMiddleware wraps an EventStoreAdapter with metrics.
type EventStoreMiddleware struct {
	adapter adapters.EventStoreAdapter
	metrics *Metrics
}

var _ adapters.EventStoreAdapter = (*EventStoreMiddleware)(nil)

// WrapEventStore wraps an adapter with metrics collection.
func (m *Metrics) WrapEventStore(adapter adapters.EventStoreAdapter) *EventStoreMiddleware {
	return &EventStoreMiddleware{adapter: adapter, metrics: m}
}

func (em *EventStoreMiddleware) observe(op string, start time.Time, err error) {
	m := em.metrics
	m.eventStoreOperationDuration.WithLabelValues(m.serviceName, op).Observe(time.Since(start).Seconds())

	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.eventStoreOperationsTotal.WithLabelValues(m.serviceName, op, status).Inc()
}

// Append stores events with metrics.
func (em *EventStoreMiddleware) Append(ctx context.Context, streamID string, events []adapters.EventRecord, expectedVersion int64) ([]adapters.StoredEvent, error) {
	start := time.Now()
	stored, err := em.adapter.Append(ctx, streamID, events, expectedVersion)
	em.observe(OperationAppend, start, err)

	if err != nil {
		em.metrics.RecordError(OperationAppend + "_" + ErrorTypeName(err))
		return stored, err
	}
	for _, e := range events {
		em.metrics.eventsAppendedTotal.WithLabelValues(em.metrics.serviceName, e.Type).Inc()
	}
	return stored, nil
}

// Load retrieves events with metrics.
func (em *EventStoreMiddleware) Load(ctx context.Context, streamID string, fromVersion int64) ([]adapters.StoredEvent, error) {
	start := time.Now()
	events, err := em.adapter.Load(ctx, streamID, fromVersion)
	em.observe(OperationLoad, start, err)

	if err != nil {
		em.metrics.RecordError("load_error")
		return events, err
	}
	em.metrics.eventsLoadedTotal.WithLabelValues(em.metrics.serviceName).Add(float64(len(events)))
	return events, nil
}

// GetStreamInfo returns stream metadata with metrics.
func (em *EventStoreMiddleware) GetStreamInfo(ctx context.Context, streamID string) (*adapters.StreamInfo, error) {
	start := time.Now()
	info, err := em.adapter.GetStreamInfo(ctx, streamID)
	em.observe(OperationGetStreamInfo, start, err)
	return info, err
}

// GetLastPosition returns the last global position with metrics.
func (em *EventStoreMiddleware) GetLastPosition(ctx context.Context) (uint64, error) {
	start := time.Now()
	pos, err := em.adapter.GetLastPosition(ctx)
	em.observe(OperationGetLastPosition, start, err)
	return pos, err
}

// Initialize initializes the wrapped adapter.
func (em *EventStoreMiddleware) Initialize(ctx context.Context) error {
	return em.adapter.Initialize(ctx)
}

// Close closes the wrapped adapter.
func (em *EventStoreMiddleware) Close() error {
	return em.adapter.Close()
}

// RepositoryMiddleware wraps a pokemon.Repository with lookup metrics.
type RepositoryMiddleware struct {
	source  string
	repo    pokemon.Repository
	metrics *Metrics
}

var _ pokemon.Repository = (*RepositoryMiddleware)(nil)

// WrapRepository records every lookup on repo under the given source label,
// e.g. "cache" or "pokeapi". Wrapping both layers of a cached repository
// gives the hit rate as 1 - pokeapi/cache.
func (m *Metrics) WrapRepository(source string, repo pokemon.Repository) *RepositoryMiddleware {
	return &RepositoryMiddleware{source: source, repo: repo, metrics: m}
}

// Get implements pokemon.Repository.
func (rm *RepositoryMiddleware) Get(ctx context.Context, id pokemon.DexID) (*pokemon.Pokemon, error) {
	m := rm.metrics

	start := time.Now()
	p, err := rm.repo.Get(ctx, id)
	m.lookupDuration.WithLabelValues(m.serviceName, rm.source).Observe(time.Since(start).Seconds())

	outcome := OutcomeFound
	switch {
	case err != nil:
		outcome = OutcomeError
		m.RecordError(rm.source + "_lookup_error")
	case p == nil:
		outcome = OutcomeAbsent
	}
	m.lookupsTotal.WithLabelValues(m.serviceName, rm.source, outcome).Inc()

	return p, err
}

// RecordError records a custom error.
func (m *Metrics) RecordError(errorType string) {
	m.errorsTotal.WithLabelValues(m.serviceName, errorType).Inc()
}

// CommandsTotal returns the commands counter.
func (m *Metrics) CommandsTotal() *prometheus.CounterVec {
	return m.commandsTotal
}

// CommandDuration returns the command duration histogram.
func (m *Metrics) CommandDuration() *prometheus.HistogramVec {
	return m.commandDuration
}

// CommandsInFlight returns the in-flight commands gauge.
func (m *Metrics) CommandsInFlight() *prometheus.GaugeVec {
	return m.commandsInFlight
}

// EventStoreOperationsTotal returns the event log operations counter.
func (m *Metrics) EventStoreOperationsTotal() *prometheus.CounterVec {
	return m.eventStoreOperationsTotal
}

// EventsAppendedTotal returns the events appended counter.
func (m *Metrics) EventsAppendedTotal() *prometheus.CounterVec {
	return m.eventsAppendedTotal
}

// EventsLoadedTotal returns the events loaded counter.
func (m *Metrics) EventsLoadedTotal() *prometheus.CounterVec {
	return m.eventsLoadedTotal
}

// LookupsTotal returns the Pokémon lookups counter.
func (m *Metrics) LookupsTotal() *prometheus.CounterVec {
	return m.lookupsTotal
}

// ErrorsTotal returns the errors counter.
func (m *Metrics) ErrorsTotal() *prometheus.CounterVec {
	return m.errorsTotal
}
