package poke

import (
	"errors"
	"fmt"

	"github.com/AshkanYarmoradi/go-poke/adapters"
)

// Sentinel errors. Use errors.Is to check for them.
var (
	// ErrStreamNotFound indicates the requested stream does not exist.
	ErrStreamNotFound = adapters.ErrStreamNotFound

	// ErrConcurrencyConflict indicates the stream moved since it was read.
	ErrConcurrencyConflict = adapters.ErrConcurrencyConflict

	// ErrEmptyStreamID indicates an empty stream ID was provided.
	ErrEmptyStreamID = adapters.ErrEmptyStreamID

	// ErrNoEvents indicates no events were provided for append.
	ErrNoEvents = adapters.ErrNoEvents

	// ErrInvalidVersion indicates an invalid version number was provided.
	ErrInvalidVersion = adapters.ErrInvalidVersion

	// ErrAdapterClosed indicates the adapter has been closed.
	ErrAdapterClosed = adapters.ErrAdapterClosed

	// ErrSerializationFailed indicates event serialization or deserialization failed.
	ErrSerializationFailed = errors.New("poke: serialization failed")

	// ErrEventTypeNotRegistered indicates an unknown event type was encountered.
	ErrEventTypeNotRegistered = errors.New("poke: event type not registered")

	// ErrUnexpectedEvent indicates a stored event does not belong to the stream's aggregate.
	ErrUnexpectedEvent = errors.New("poke: unexpected event type")

	// ErrDomainRule indicates a command or event broke a domain rule.
	ErrDomainRule = errors.New("poke: domain rule violated")

	// ErrCollaboratorFailed indicates a read-only collaborator call failed.
	ErrCollaboratorFailed = errors.New("poke: collaborator call failed")

	// ErrCollaboratorNotFound indicates a collaborator had no entity for the key.
	ErrCollaboratorNotFound = errors.New("poke: collaborator entity not found")

	// ErrHandlerNotFound indicates no handler is registered for a command type.
	ErrHandlerNotFound = errors.New("poke: handler not found")

	// ErrValidationFailed indicates command validation failed.
	ErrValidationFailed = errors.New("poke: validation failed")

	// ErrNilCommand indicates a nil command was passed.
	ErrNilCommand = errors.New("poke: nil command")

	// ErrHandlerPanicked indicates a handler panicked during execution.
	ErrHandlerPanicked = errors.New("poke: handler panicked")

	// ErrCommandBusClosed indicates the command bus has been closed.
	ErrCommandBusClosed = errors.New("poke: command bus closed")
)

// ConcurrencyError is returned by appends whose expected version is stale.
type ConcurrencyError = adapters.ConcurrencyError

// DomainError is a rejection by domain rules. Two DomainErrors match under
// errors.Is when their codes are equal, so packages can export sentinel
// DomainErrors and attach context to copies of them.
type DomainError struct {
	// Aggregate names the aggregate type, e.g. "Trainer".
	Aggregate string
	// Code is a stable machine-readable identifier.
	Code    string
	Message string
}

// NewDomainError creates a new DomainError.
func NewDomainError(aggregate, code, message string) *DomainError {
	return &DomainError{Aggregate: aggregate, Code: code, Message: message}
}

// Error returns the message.
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches ErrDomainRule and any DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	if target == ErrDomainRule {
		return true
	}
	var other *DomainError
	if errors.As(target, &other) {
		return other.Code == e.Code && other.Aggregate == e.Aggregate
	}
	return false
}

// CollaboratorError wraps a failed or empty lookup made by a decider.
type CollaboratorError struct {
	// Collaborator names the dependency, e.g. "pokemon".
	Collaborator string
	// Key is the lookup key, formatted for humans.
	Key      string
	NotFound bool
	Cause    error
}

// NewCollaboratorFailure reports that a collaborator call returned an error.
func NewCollaboratorFailure(collaborator, key string, cause error) *CollaboratorError {
	return &CollaboratorError{Collaborator: collaborator, Key: key, Cause: cause}
}

// NewCollaboratorNotFound reports that a collaborator had nothing for key.
func NewCollaboratorNotFound(collaborator, key string) *CollaboratorError {
	return &CollaboratorError{Collaborator: collaborator, Key: key, NotFound: true}
}

// Error returns the error message.
func (e *CollaboratorError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("poke: %s %s not found", e.Collaborator, e.Key)
	}
	return fmt.Sprintf("poke: %s lookup for %s failed: %v", e.Collaborator, e.Key, e.Cause)
}

// Is matches ErrCollaboratorNotFound or ErrCollaboratorFailed.
func (e *CollaboratorError) Is(target error) bool {
	if e.NotFound {
		return target == ErrCollaboratorNotFound
	}
	return target == ErrCollaboratorFailed
}

// Unwrap returns the underlying cause.
func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}

// DispatchStage names the dispatcher step a failure came from.
type DispatchStage string

// Dispatcher stages.
const (
	StageLoading   DispatchStage = "loading"
	StageFolding   DispatchStage = "folding"
	StageDeciding  DispatchStage = "deciding"
	StageApplying  DispatchStage = "applying"
	StageAppending DispatchStage = "appending"
)

// DispatchError wraps any failure of Dispatcher.Dispatch with the stage
// where it happened. The cause stays reachable through errors.Is and errors.As.
type DispatchError struct {
	Stage       DispatchStage
	StreamID    string
	CommandType string
	Cause       error
}

// Error returns the error message.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("poke: dispatch %s on %q failed while %s: %v",
		e.CommandType, e.StreamID, e.Stage, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// SerializationError provides detailed information about a serialization failure.
type SerializationError struct {
	EventType string
	Operation string // "serialize" or "deserialize"
	Cause     error
}

// NewSerializationError creates a new SerializationError.
func NewSerializationError(eventType, operation string, cause error) *SerializationError {
	return &SerializationError{EventType: eventType, Operation: operation, Cause: cause}
}

// Error returns the error message.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("poke: failed to %s event type %q: %v", e.Operation, e.EventType, e.Cause)
}

// Is matches ErrSerializationFailed.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerializationFailed
}

// Unwrap returns the underlying cause.
func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// EventTypeNotRegisteredError names the unregistered event type.
type EventTypeNotRegisteredError struct {
	EventType string
}

// NewEventTypeNotRegisteredError creates a new EventTypeNotRegisteredError.
func NewEventTypeNotRegisteredError(eventType string) *EventTypeNotRegisteredError {
	return &EventTypeNotRegisteredError{EventType: eventType}
}

// Error returns the error message.
func (e *EventTypeNotRegisteredError) Error() string {
	return fmt.Sprintf("poke: event type %q not registered", e.EventType)
}

// Is matches ErrEventTypeNotRegistered.
func (e *EventTypeNotRegisteredError) Is(target error) bool {
	return target == ErrEventTypeNotRegistered
}

// HandlerNotFoundError names the command type without a handler.
type HandlerNotFoundError struct {
	CommandType string
}

// NewHandlerNotFoundError creates a new HandlerNotFoundError.
func NewHandlerNotFoundError(cmdType string) *HandlerNotFoundError {
	return &HandlerNotFoundError{CommandType: cmdType}
}

// Error returns the error message.
func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("poke: no handler registered for command type %q", e.CommandType)
}

// Is matches ErrHandlerNotFound.
func (e *HandlerNotFoundError) Is(target error) bool {
	return target == ErrHandlerNotFound
}

// PanicError carries the value a handler panicked with.
type PanicError struct {
	CommandType string
	Value       interface{}
	Stack       string
}

// NewPanicError creates a new PanicError.
func NewPanicError(cmdType string, value interface{}, stack string) *PanicError {
	return &PanicError{CommandType: cmdType, Value: value, Stack: stack}
}

// Error returns the error message.
func (e *PanicError) Error() string {
	return fmt.Sprintf("poke: handler panicked while processing %q: %v", e.CommandType, e.Value)
}

// Is matches ErrHandlerPanicked.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanicked
}
