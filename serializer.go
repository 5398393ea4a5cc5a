package poke

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// Serializer converts event payloads to and from bytes.
type Serializer interface {
	Serialize(event interface{}) ([]byte, error)

	// Deserialize decodes data into a value of the Go type registered for eventType.
	Deserialize(data []byte, eventType string) (interface{}, error)
}

// EventRegistrar is implemented by serializers that keep a type registry.
type EventRegistrar interface {
	RegisterAll(examples ...interface{})
}

// EventRegistry maps event type names to Go types.
type EventRegistry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewEventRegistry creates a new empty EventRegistry.
func NewEventRegistry() *EventRegistry {
	return &EventRegistry{types: make(map[string]reflect.Type)}
}

// Register maps eventType to the type of example. Pointers are dereferenced.
func (r *EventRegistry) Register(eventType string, example interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[eventType] = valueType(example)
}

// RegisterAll registers each example under its struct name.
func (r *EventRegistry) RegisterAll(examples ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, example := range examples {
		t := valueType(example)
		r.types[t.Name()] = t
	}
}

// Lookup returns the Go type registered for eventType.
func (r *EventRegistry) Lookup(eventType string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[eventType]
	return t, ok
}

// Count returns the number of registered event types.
func (r *EventRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Decode allocates a value of the type registered for eventType, lets
// unmarshal fill it through a pointer and returns the value.
func (r *EventRegistry) Decode(eventType string, unmarshal func(target interface{}) error) (interface{}, error) {
	t, ok := r.Lookup(eventType)
	if !ok {
		return nil, NewEventTypeNotRegisteredError(eventType)
	}
	ptr := reflect.New(t)
	if err := unmarshal(ptr.Interface()); err != nil {
		return nil, NewSerializationError(eventType, "deserialize", err)
	}
	return ptr.Elem().Interface(), nil
}

func valueType(example interface{}) reflect.Type {
	t := reflect.TypeOf(example)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// JSONSerializer is the default Serializer.
type JSONSerializer struct {
	registry *EventRegistry
}

// NewJSONSerializer creates a new JSONSerializer with an empty registry.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{registry: NewEventRegistry()}
}

// Register adds an event type to the registry.
func (s *JSONSerializer) Register(eventType string, example interface{}) {
	s.registry.Register(eventType, example)
}

// RegisterAll registers events under their struct names.
func (s *JSONSerializer) RegisterAll(examples ...interface{}) {
	s.registry.RegisterAll(examples...)
}

// Registry returns the underlying EventRegistry.
func (s *JSONSerializer) Registry() *EventRegistry {
	return s.registry
}

// Serialize encodes event as JSON.
func (s *JSONSerializer) Serialize(event interface{}) ([]byte, error) {
	if event == nil {
		return nil, NewSerializationError("nil", "serialize", fmt.Errorf("event cannot be nil"))
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, NewSerializationError(GetEventType(event), "serialize", err)
	}
	return data, nil
}

// Deserialize decodes JSON into the registered type. Unregistered types fail
// with an error matching ErrEventTypeNotRegistered.
func (s *JSONSerializer) Deserialize(data []byte, eventType string) (interface{}, error) {
	if len(data) == 0 {
		return nil, NewSerializationError(eventType, "deserialize", fmt.Errorf("data cannot be empty"))
	}
	return s.registry.Decode(eventType, func(target interface{}) error {
		return json.Unmarshal(data, target)
	})
}

// GetEventType returns the struct name of event, the name it is stored under.
func GetEventType(event interface{}) string {
	if event == nil {
		return ""
	}
	return valueType(event).Name()
}
