// Package testutil provides fakes and fixtures for tests across the module.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/AshkanYarmoradi/go-poke/adapters"
)

var _ adapters.EventStoreAdapter = (*MockAdapter)(nil)

// MockAdapter is an EventStoreAdapter whose failures can be injected.
// Without injected errors it keeps appended events per stream and checks
// expected versions like a real backend.
type MockAdapter struct {
	AppendErr          error
	LoadErr            error
	GetStreamInfoErr   error
	GetLastPositionErr error

	mu          sync.Mutex
	streams     map[string][]adapters.StoredEvent
	position    uint64
	AppendCalls int
	LoadCalls   int
}

// Append implements adapters.EventStoreAdapter.
func (m *MockAdapter) Append(ctx context.Context, streamID string, events []adapters.EventRecord, expectedVersion int64) ([]adapters.StoredEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls++
	if m.AppendErr != nil {
		return nil, m.AppendErr
	}
	if m.streams == nil {
		m.streams = make(map[string][]adapters.StoredEvent)
	}

	existing, exists := m.streams[streamID]
	current := int64(len(existing))
	if err := adapters.CheckVersion(streamID, expectedVersion, current, exists); err != nil {
		return nil, err
	}

	stored := make([]adapters.StoredEvent, len(events))
	for i, e := range events {
		m.position++
		stored[i] = adapters.StoredEvent{
			ID:             "event-" + e.Type,
			StreamID:       streamID,
			Type:           e.Type,
			Data:           e.Data,
			Metadata:       e.Metadata,
			Version:        current + int64(i) + 1,
			GlobalPosition: m.position,
			Timestamp:      time.Now(),
		}
	}
	m.streams[streamID] = append(existing, stored...)
	return stored, nil
}

// Load implements adapters.EventStoreAdapter.
func (m *MockAdapter) Load(ctx context.Context, streamID string, fromVersion int64) ([]adapters.StoredEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	out := []adapters.StoredEvent{}
	for _, e := range m.streams[streamID] {
		if e.Version > fromVersion {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetStreamInfo implements adapters.EventStoreAdapter.
func (m *MockAdapter) GetStreamInfo(ctx context.Context, streamID string) (*adapters.StreamInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetStreamInfoErr != nil {
		return nil, m.GetStreamInfoErr
	}
	events, ok := m.streams[streamID]
	if !ok {
		return nil, &adapters.StreamNotFoundError{StreamID: streamID}
	}
	return &adapters.StreamInfo{
		StreamID:   streamID,
		Category:   adapters.ExtractCategory(streamID),
		Version:    int64(len(events)),
		EventCount: int64(len(events)),
	}, nil
}

// GetLastPosition implements adapters.EventStoreAdapter.
func (m *MockAdapter) GetLastPosition(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetLastPositionErr != nil {
		return 0, m.GetLastPositionErr
	}
	return m.position, nil
}

// Initialize implements adapters.EventStoreAdapter.
func (m *MockAdapter) Initialize(ctx context.Context) error {
	return nil
}

// Close implements adapters.EventStoreAdapter.
func (m *MockAdapter) Close() error {
	return nil
}
