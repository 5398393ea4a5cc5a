package poke

import (
	"fmt"
	"strings"
)

// Command is an intent to change an aggregate.
type Command interface {
	// CommandType returns the type identifier, e.g. "StartAdventure".
	CommandType() string

	// Validate checks the command on its own, without any state.
	Validate() error
}

// StreamCommand is a command addressed to one aggregate instance.
type StreamCommand interface {
	Command

	// SourceID identifies the aggregate instance, e.g. the trainer name.
	SourceID() string
}

// CommandBase carries optional request context. Embed it in commands.
type CommandBase struct {
	CorrelationID string `json:"correlationId,omitempty"`
	CausationID   string `json:"causationId,omitempty"`
}

// GetCorrelationID returns the correlation ID.
func (c CommandBase) GetCorrelationID() string {
	return c.CorrelationID
}

// GetCausationID returns the causation ID.
func (c CommandBase) GetCausationID() string {
	return c.CausationID
}

// CommandResult is what a CommandHandler returns.
type CommandResult struct {
	Success bool

	// AggregateID is the source ID of the affected aggregate.
	AggregateID string

	// Version is the stream version after the command.
	Version int64

	// Data holds handler-specific output, such as the new aggregate state.
	Data interface{}

	Error error
}

// NewSuccessResult creates a successful CommandResult.
func NewSuccessResult(aggregateID string, version int64) CommandResult {
	return CommandResult{Success: true, AggregateID: aggregateID, Version: version}
}

// NewSuccessResultWithData creates a successful CommandResult carrying data.
func NewSuccessResultWithData(aggregateID string, version int64, data interface{}) CommandResult {
	return CommandResult{Success: true, AggregateID: aggregateID, Version: version, Data: data}
}

// NewErrorResult creates a failed CommandResult.
func NewErrorResult(err error) CommandResult {
	return CommandResult{Error: err}
}

// IsSuccess returns true if the command executed successfully.
func (r CommandResult) IsSuccess() bool {
	return r.Success && r.Error == nil
}

// IsError returns true if the command failed.
func (r CommandResult) IsError() bool {
	return !r.IsSuccess()
}

// ValidationError is a command that is malformed regardless of state.
type ValidationError struct {
	CommandType string
	Field       string
	Message     string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(cmdType, field, message string) *ValidationError {
	return &ValidationError{CommandType: cmdType, Field: field, Message: message}
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("poke: validation failed for command %q field %q: %s",
			e.CommandType, e.Field, e.Message)
	}
	return fmt.Sprintf("poke: validation failed for command %q: %s", e.CommandType, e.Message)
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// MultiValidationError collects several field failures of one command.
type MultiValidationError struct {
	CommandType string
	Errors      []*ValidationError
}

// NewMultiValidationError creates an empty MultiValidationError.
func NewMultiValidationError(cmdType string) *MultiValidationError {
	return &MultiValidationError{CommandType: cmdType}
}

// AddField records a failure for field.
func (e *MultiValidationError) AddField(field, message string) {
	e.Errors = append(e.Errors, NewValidationError(e.CommandType, field, message))
}

// HasErrors reports whether any failure was recorded.
func (e *MultiValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrOrNil returns e if it holds failures and nil otherwise.
func (e *MultiValidationError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// Error lists every field failure.
func (e *MultiValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("poke: validation failed for command %q: %s", e.CommandType, strings.Join(parts, "; "))
}

// Is matches ErrValidationFailed.
func (e *MultiValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
