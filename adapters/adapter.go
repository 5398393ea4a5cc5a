// Package adapters defines the storage contract shared by event log backends.
package adapters

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by event log backends.
// Backends may return richer error types as long as they match these via errors.Is.
var (
	// ErrConcurrencyConflict is returned when the expected stream version does not match.
	ErrConcurrencyConflict = errors.New("poke: concurrency conflict")

	// ErrStreamNotFound is returned when an operation requires a stream that does not exist.
	ErrStreamNotFound = errors.New("poke: stream not found")

	// ErrEmptyStreamID is returned when an empty stream ID is provided.
	ErrEmptyStreamID = errors.New("poke: stream ID is required")

	// ErrNoEvents is returned when attempting to append zero events.
	ErrNoEvents = errors.New("poke: no events to append")

	// ErrInvalidVersion is returned when an expected version is out of range.
	ErrInvalidVersion = errors.New("poke: invalid version")

	// ErrAdapterClosed is returned when operations are attempted on a closed backend.
	ErrAdapterClosed = errors.New("poke: adapter is closed")
)

// Metadata carries request context alongside an event.
type Metadata struct {
	CorrelationID string            `json:"correlationId,omitempty" msgpack:"correlationId,omitempty"`
	CausationID   string            `json:"causationId,omitempty" msgpack:"causationId,omitempty"`
	Custom        map[string]string `json:"custom,omitempty" msgpack:"custom,omitempty"`
}

// EventRecord is a serialized event waiting to be appended.
type EventRecord struct {
	Type     string
	Data     []byte
	Metadata Metadata
}

// StoredEvent is an event as it sits in the log.
type StoredEvent struct {
	// ID is unique across the whole log.
	ID       string
	StreamID string
	Type     string
	Data     []byte
	Metadata Metadata

	// Version is the 1-based position within the stream.
	Version int64

	// GlobalPosition orders events across all streams.
	GlobalPosition uint64

	Timestamp time.Time
}

// StreamInfo summarises a stream.
type StreamInfo struct {
	StreamID   string
	Category   string
	Version    int64
	EventCount int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EventStoreAdapter is implemented by event log backends.
type EventStoreAdapter interface {
	// Append stores events at the end of streamID.
	// expectedVersion is one of AnyVersion, NoStream, StreamExists or the exact
	// current version of the stream. The stored events are returned with their
	// versions and global positions assigned.
	Append(ctx context.Context, streamID string, events []EventRecord, expectedVersion int64) ([]StoredEvent, error)

	// Load returns the events of streamID with a version greater than fromVersion.
	// An unknown stream yields an empty slice.
	Load(ctx context.Context, streamID string, fromVersion int64) ([]StoredEvent, error)

	// GetStreamInfo returns ErrStreamNotFound for unknown streams.
	GetStreamInfo(ctx context.Context, streamID string) (*StreamInfo, error)

	// GetLastPosition returns the global position of the newest event, or 0.
	GetLastPosition(ctx context.Context) (uint64, error)

	Initialize(ctx context.Context) error
	Close() error
}
