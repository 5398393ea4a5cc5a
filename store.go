package poke

import (
	"context"
	"fmt"

	"github.com/AshkanYarmoradi/go-poke/adapters"
)

// Logger is the logging interface used across the kernel.
// Arguments after msg are alternating keys and values.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return noopLogger{}
}

// EventStore serializes events and hands them to an adapter.
type EventStore struct {
	adapter    adapters.EventStoreAdapter
	serializer Serializer
	logger     Logger
}

// Option configures an EventStore.
type Option func(*EventStore)

// WithSerializer sets the payload serializer. JSON is the default.
func WithSerializer(s Serializer) Option {
	return func(es *EventStore) {
		if s != nil {
			es.serializer = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(es *EventStore) {
		if l != nil {
			es.logger = l
		}
	}
}

// New creates an EventStore on top of adapter.
func New(adapter adapters.EventStoreAdapter, opts ...Option) *EventStore {
	es := &EventStore{
		adapter:    adapter,
		serializer: NewJSONSerializer(),
		logger:     noopLogger{},
	}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// Adapter returns the underlying adapter.
func (s *EventStore) Adapter() adapters.EventStoreAdapter {
	return s.adapter
}

// Serializer returns the payload serializer.
func (s *EventStore) Serializer() Serializer {
	return s.serializer
}

// RegisterEvents registers event types so Load can decode them.
func (s *EventStore) RegisterEvents(events ...interface{}) {
	if r, ok := s.serializer.(EventRegistrar); ok {
		r.RegisterAll(events...)
	}
}

// AppendOption configures an append.
type AppendOption func(*appendConfig)

type appendConfig struct {
	metadata        Metadata
	expectedVersion int64
}

// ExpectVersion sets the expected stream version. Without it, appends skip
// the concurrency check.
func ExpectVersion(v int64) AppendOption {
	return func(c *appendConfig) {
		c.expectedVersion = v
	}
}

// WithAppendMetadata attaches m to every appended event.
func WithAppendMetadata(m Metadata) AppendOption {
	return func(c *appendConfig) {
		c.metadata = m
	}
}

// Append serializes events and stores them at the end of streamID.
// It returns the stream version after the append.
//
// Without ExpectVersion the concurrency check is skipped (AnyVersion).
// Every event must have a registered or derivable type name; the whole batch
// is rejected before anything reaches the adapter if one cannot be
// serialized.
//
// Errors:
//   - ErrEmptyStreamID, ErrNoEvents for invalid input
//   - *SerializationError when an event cannot be encoded
//   - *adapters.ConcurrencyError (ErrConcurrencyConflict) on a version mismatch
//   - any adapter error, unchanged
func (s *EventStore) Append(ctx context.Context, streamID string, events []interface{}, opts ...AppendOption) (int64, error) {
	if streamID == "" {
		return 0, ErrEmptyStreamID
	}
	if len(events) == 0 {
		return 0, ErrNoEvents
	}

	cfg := &appendConfig{expectedVersion: AnyVersion}
	for _, opt := range opts {
		opt(cfg)
	}

	records := make([]adapters.EventRecord, len(events))
	for i, event := range events {
		eventType := GetEventType(event)
		if eventType == "" {
			return 0, NewSerializationError("", "serialize", fmt.Errorf("cannot determine type of event %d", i))
		}
		data, err := s.serializer.Serialize(event)
		if err != nil {
			return 0, fmt.Errorf("poke: failed to serialize event %d: %w", i, err)
		}
		records[i] = adapters.EventRecord{
			Type:     eventType,
			Data:     data,
			Metadata: cfg.metadata.toAdapter(),
		}
	}

	stored, err := s.adapter.Append(ctx, streamID, records, cfg.expectedVersion)
	if err != nil {
		return 0, err
	}

	version := stored[len(stored)-1].Version
	s.logger.Debug("appended events", "stream", streamID, "count", len(stored), "version", version)
	return version, nil
}

// Load returns every event of streamID, decoded. Unknown streams are empty.
func (s *EventStore) Load(ctx context.Context, streamID string) ([]Event, error) {
	return s.LoadFrom(ctx, streamID, 0)
}

// LoadFrom returns the decoded events of streamID after fromVersion.
func (s *EventStore) LoadFrom(ctx context.Context, streamID string, fromVersion int64) ([]Event, error) {
	if streamID == "" {
		return nil, ErrEmptyStreamID
	}

	stored, err := s.adapter.Load(ctx, streamID, fromVersion)
	if err != nil {
		return nil, err
	}

	events := make([]Event, len(stored))
	for i, se := range stored {
		data, err := s.serializer.Deserialize(se.Data, se.Type)
		if err != nil {
			return nil, fmt.Errorf("poke: failed to deserialize event %d of %q: %w", i, streamID, err)
		}
		events[i] = eventFromStored(se, data)
	}
	return events, nil
}

// GetStreamInfo returns a stream's summary.
func (s *EventStore) GetStreamInfo(ctx context.Context, streamID string) (*adapters.StreamInfo, error) {
	if streamID == "" {
		return nil, ErrEmptyStreamID
	}
	return s.adapter.GetStreamInfo(ctx, streamID)
}

// Initialize prepares the adapter.
func (s *EventStore) Initialize(ctx context.Context) error {
	return s.adapter.Initialize(ctx)
}

// Close releases the adapter.
func (s *EventStore) Close() error {
	return s.adapter.Close()
}

// Store is an append-only log of typed events, one ordered stream per key.
type Store[E any] interface {
	// Append stores events if the stream is still at expected and returns the
	// new version. A stale expected version yields an error matching
	// ErrConcurrencyConflict and nothing is stored.
	Append(ctx context.Context, streamID string, expected int64, events []E) (int64, error)

	// Read returns the stream's events in version order. An unknown stream
	// yields an empty slice.
	Read(ctx context.Context, streamID string) ([]Versioned[E], error)
}

// TypedStore narrows an EventStore to the events of a single aggregate.
// E is usually a marker interface implemented by that aggregate's events.
type TypedStore[E any] struct {
	store *EventStore
}

var _ Store[interface{}] = (*TypedStore[interface{}])(nil)

// NewTypedStore returns a Store of E backed by store.
func NewTypedStore[E any](store *EventStore) *TypedStore[E] {
	return &TypedStore[E]{store: store}
}

// Append implements Store.
func (s *TypedStore[E]) Append(ctx context.Context, streamID string, expected int64, events []E) (int64, error) {
	values := make([]interface{}, len(events))
	for i, e := range events {
		values[i] = e
	}

	opts := []AppendOption{ExpectVersion(expected)}
	if md, ok := MetadataFromContext(ctx); ok {
		opts = append(opts, WithAppendMetadata(md))
	}
	return s.store.Append(ctx, streamID, values, opts...)
}

// Read implements Store. A stored event that does not decode to E fails
// with ErrUnexpectedEvent.
func (s *TypedStore[E]) Read(ctx context.Context, streamID string) ([]Versioned[E], error) {
	events, err := s.store.Load(ctx, streamID)
	if err != nil {
		return nil, err
	}

	out := make([]Versioned[E], len(events))
	for i, e := range events {
		typed, ok := e.Data.(E)
		if !ok {
			return nil, fmt.Errorf("%w: %s at version %d of %q", ErrUnexpectedEvent, e.Type, e.Version, streamID)
		}
		out[i] = Versioned[E]{Version: e.Version, Event: typed}
	}
	return out, nil
}
