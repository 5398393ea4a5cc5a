// Package msgpack provides a MessagePack event serializer.
//
// MessagePack payloads are smaller than JSON and faster to decode, which
// matters for long trainer streams that are replayed on every command.
//
//	serializer := msgpack.NewSerializer()
//	store := poke.New(memory.NewAdapter(), poke.WithSerializer(serializer))
//	store.RegisterEvents(trainer.AdventureStarted{})
package msgpack

import (
	"fmt"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ poke.Serializer     = (*Serializer)(nil)
	_ poke.EventRegistrar = (*Serializer)(nil)
)

// Serializer encodes events with MessagePack and decodes them into the Go
// types held by its registry.
type Serializer struct {
	registry *poke.EventRegistry
}

// NewSerializer creates a Serializer with an empty registry.
func NewSerializer() *Serializer {
	return &Serializer{registry: poke.NewEventRegistry()}
}

// NewSerializerWithRegistry shares registry with other serializers.
func NewSerializerWithRegistry(registry *poke.EventRegistry) *Serializer {
	if registry == nil {
		registry = poke.NewEventRegistry()
	}
	return &Serializer{registry: registry}
}

// Register adds a mapping from eventType to the Go type of example.
func (s *Serializer) Register(eventType string, example interface{}) {
	s.registry.Register(eventType, example)
}

// RegisterAll registers events under their struct names.
func (s *Serializer) RegisterAll(examples ...interface{}) {
	s.registry.RegisterAll(examples...)
}

// Registry returns the underlying registry.
func (s *Serializer) Registry() *poke.EventRegistry {
	return s.registry
}

// Serialize converts an event to MessagePack bytes.
func (s *Serializer) Serialize(event interface{}) ([]byte, error) {
	if event == nil {
		return nil, poke.NewSerializationError("nil", "serialize", fmt.Errorf("event cannot be nil"))
	}
	data, err := msgpack.Marshal(event)
	if err != nil {
		return nil, poke.NewSerializationError(poke.GetEventType(event), "serialize", err)
	}
	return data, nil
}

// Deserialize converts MessagePack bytes back into the registered type.
func (s *Serializer) Deserialize(data []byte, eventType string) (interface{}, error) {
	if len(data) == 0 {
		return nil, poke.NewSerializationError(eventType, "deserialize", fmt.Errorf("data cannot be empty"))
	}
	return s.registry.Decode(eventType, func(target interface{}) error {
		return msgpack.Unmarshal(data, target)
	})
}
