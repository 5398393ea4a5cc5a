// Package memory provides in-memory backends: an event log for aggregates and
// a Pokémon store with a write-through cache in front of a slower source.
//
// Nothing here survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AshkanYarmoradi/go-poke/adapters"
	"github.com/google/uuid"
)

var _ adapters.EventStoreAdapter = (*MemoryAdapter)(nil)

// MemoryAdapter is a thread-safe in-memory event log.
type MemoryAdapter struct {
	mu             sync.RWMutex
	streams        map[string]*streamData
	globalPosition uint64
	closed         bool
	now            func() time.Time
}

type streamData struct {
	info   adapters.StreamInfo
	events []adapters.StoredEvent
}

// Option configures a MemoryAdapter.
type Option func(*MemoryAdapter)

// WithClock overrides the timestamp source for stored events.
func WithClock(now func() time.Time) Option {
	return func(a *MemoryAdapter) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAdapter creates an empty in-memory event log.
func NewAdapter(opts ...Option) *MemoryAdapter {
	a := &MemoryAdapter{
		streams: make(map[string]*streamData),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize is a no-op.
func (a *MemoryAdapter) Initialize(ctx context.Context) error {
	return nil
}

// Append stores events at the end of a stream after checking expectedVersion.
// The check and the write happen under one lock, so of two appends racing on
// the same expected version exactly one wins.
func (a *MemoryAdapter) Append(ctx context.Context, streamID string, events []adapters.EventRecord, expectedVersion int64) ([]adapters.StoredEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if streamID == "" {
		return nil, adapters.ErrEmptyStreamID
	}
	if len(events) == 0 {
		return nil, adapters.ErrNoEvents
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, adapters.ErrAdapterClosed
	}

	stream, exists := a.streams[streamID]
	var current int64
	if exists {
		current = stream.info.Version
	}

	if err := adapters.CheckVersion(streamID, expectedVersion, current, exists); err != nil {
		return nil, err
	}

	now := a.now()
	if !exists {
		stream = &streamData{
			info: adapters.StreamInfo{
				StreamID:  streamID,
				Category:  adapters.ExtractCategory(streamID),
				CreatedAt: now,
			},
		}
		a.streams[streamID] = stream
	}

	stored := make([]adapters.StoredEvent, len(events))
	for i, record := range events {
		a.globalPosition++
		current++
		stored[i] = adapters.StoredEvent{
			ID:             uuid.NewString(),
			StreamID:       streamID,
			Type:           record.Type,
			Data:           record.Data,
			Metadata:       record.Metadata,
			Version:        current,
			GlobalPosition: a.globalPosition,
			Timestamp:      now,
		}
	}

	stream.events = append(stream.events, stored...)
	stream.info.Version = current
	stream.info.EventCount = int64(len(stream.events))
	stream.info.UpdatedAt = now

	return stored, nil
}

// Load returns the events of a stream after fromVersion, oldest first.
func (a *MemoryAdapter) Load(ctx context.Context, streamID string, fromVersion int64) ([]adapters.StoredEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if streamID == "" {
		return nil, adapters.ErrEmptyStreamID
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return nil, adapters.ErrAdapterClosed
	}

	stream, ok := a.streams[streamID]
	if !ok {
		return []adapters.StoredEvent{}, nil
	}

	events := make([]adapters.StoredEvent, 0, len(stream.events))
	for _, e := range stream.events {
		if e.Version > fromVersion {
			events = append(events, e)
		}
	}
	return events, nil
}

// GetStreamInfo returns a copy of the stream's summary.
func (a *MemoryAdapter) GetStreamInfo(ctx context.Context, streamID string) (*adapters.StreamInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return nil, adapters.ErrAdapterClosed
	}

	stream, ok := a.streams[streamID]
	if !ok {
		return nil, &adapters.StreamNotFoundError{StreamID: streamID}
	}
	info := stream.info
	return &info, nil
}

// GetLastPosition returns the global position of the newest event.
func (a *MemoryAdapter) GetLastPosition(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return 0, adapters.ErrAdapterClosed
	}
	return a.globalPosition, nil
}

// Close rejects all further operations.
func (a *MemoryAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// EventCount returns the number of events across all streams.
func (a *MemoryAdapter) EventCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return int(a.globalPosition)
}

// StreamCount returns the number of streams.
func (a *MemoryAdapter) StreamCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.streams)
}

// Reset drops every stream.
func (a *MemoryAdapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.streams = make(map[string]*streamData)
	a.globalPosition = 0
}
