package poke

import (
	"time"

	"github.com/AshkanYarmoradi/go-poke/adapters"
)

// Expected version values with special meaning.
const (
	// AnyVersion skips the concurrency check.
	AnyVersion = adapters.AnyVersion

	// NoStream requires the stream to have no events.
	NoStream = adapters.NoStream

	// StreamExists requires the stream to have at least one event.
	StreamExists = adapters.StreamExists
)

// Metadata carries request context alongside events.
type Metadata struct {
	CorrelationID string            `json:"correlationId,omitempty"`
	CausationID   string            `json:"causationId,omitempty"`
	Custom        map[string]string `json:"custom,omitempty"`
}

// WithCorrelationID returns a copy of m with the correlation ID set.
func (m Metadata) WithCorrelationID(id string) Metadata {
	m.CorrelationID = id
	return m
}

// WithCausationID returns a copy of m with the causation ID set.
func (m Metadata) WithCausationID(id string) Metadata {
	m.CausationID = id
	return m
}

// WithCustom returns a copy of m with key set to value. m itself is not modified.
func (m Metadata) WithCustom(key, value string) Metadata {
	custom := make(map[string]string, len(m.Custom)+1)
	for k, v := range m.Custom {
		custom[k] = v
	}
	custom[key] = value
	m.Custom = custom
	return m
}

// IsEmpty reports whether no field is set.
func (m Metadata) IsEmpty() bool {
	return m.CorrelationID == "" && m.CausationID == "" && len(m.Custom) == 0
}

func (m Metadata) toAdapter() adapters.Metadata {
	return adapters.Metadata{
		CorrelationID: m.CorrelationID,
		CausationID:   m.CausationID,
		Custom:        m.Custom,
	}
}

func metadataFromAdapter(m adapters.Metadata) Metadata {
	return Metadata{
		CorrelationID: m.CorrelationID,
		CausationID:   m.CausationID,
		Custom:        m.Custom,
	}
}

// Event is a stored event with its payload decoded into a Go value.
type Event struct {
	ID             string
	StreamID       string
	Type           string
	Data           interface{}
	Metadata       Metadata
	Version        int64
	GlobalPosition uint64
	Timestamp      time.Time
}

func eventFromStored(stored adapters.StoredEvent, data interface{}) Event {
	return Event{
		ID:             stored.ID,
		StreamID:       stored.StreamID,
		Type:           stored.Type,
		Data:           data,
		Metadata:       metadataFromAdapter(stored.Metadata),
		Version:        stored.Version,
		GlobalPosition: stored.GlobalPosition,
		Timestamp:      stored.Timestamp,
	}
}

// Versioned pairs a typed event with its 1-based version in the stream.
type Versioned[E any] struct {
	Version int64
	Event   E
}

// Events strips the versions from a slice of Versioned events.
func Events[E any](versioned []Versioned[E]) []E {
	out := make([]E, len(versioned))
	for i, v := range versioned {
		out[i] = v.Event
	}
	return out
}
